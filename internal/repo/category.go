package repo

import (
	"context"

	"gorm.io/gorm"

	"tienda/internal/models"
	"tienda/internal/transport"
)

func (r *GormRepo) GetCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *GormRepo) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.DB.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.DB.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

func (r *GormRepo) PatchCategory(ctx context.Context, req transport.PatchCategoryRequest, id uint) (*models.Category, error) {
	var category models.Category

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&category, id).Error; err != nil {
			return err
		}

		if req.Name != nil {
			category.Name = *req.Name
		}
		if req.Slug != nil {
			category.Slug = *req.Slug
		}
		if req.Description != nil {
			category.Description = *req.Description
		}

		return tx.Save(&category).Error
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *GormRepo) CategorySlugExists(ctx context.Context, slug string, excludeID uint) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Category{}).
		Where("slug = ? AND id <> ?", slug, excludeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteCategory removes the category and, by the cascade constraint on
// products.category_id, every product in it.
func (r *GormRepo) DeleteCategory(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Category{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("category_id = ?", id).Delete(&models.Product{}).Error
	})
}
