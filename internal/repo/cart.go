package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tienda/internal/models"
	"tienda/internal/util"
)

// lockForUpdate takes a row lock on backends that support it. The sqlite
// test databases serialize writers anyway.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func (r *GormRepo) GetCart(ctx context.Context, userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.DB.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetCartItem(ctx context.Context, itemID uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.DB.WithContext(ctx).First(&item, itemID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// AddToCart merges the requested quantity into an existing (user, product)
// line or creates a new one with the product's current price as the
// snapshot. The whole read-check-write runs in one transaction; the line
// never exceeds the product's current stock.
func (r *GormRepo) AddToCart(ctx context.Context, userID, productID, quantity uint) (*models.CartItem, error) {
	var item models.CartItem

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, productID).Error; err != nil {
			return err
		}

		res := lockForUpdate(tx).
			Where("user_id = ? AND product_id = ?", userID, productID).
			First(&item)
		if res.Error == nil {
			newQuantity := item.Quantity + quantity
			if newQuantity > product.Stock {
				return ErrInsufficientStock
			}
			item.Quantity = newQuantity
			item.Total = util.Round2(item.Price * float64(newQuantity))
			return tx.Save(&item).Error
		}
		if !errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return res.Error
		}

		if quantity > product.Stock {
			return ErrInsufficientStock
		}
		item = models.CartItem{
			UserID:    userID,
			ProductID: productID,
			Quantity:  quantity,
			Price:     product.Price,
			Total:     util.Round2(product.Price * float64(quantity)),
		}
		return tx.Create(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateQuantity recomputes the line total from the stored snapshot price,
// never from the product's current price.
func (r *GormRepo) UpdateQuantity(ctx context.Context, itemID, quantity uint) (*models.CartItem, error) {
	var item models.CartItem

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&item, itemID).Error; err != nil {
			return err
		}

		var product models.Product
		if err := tx.First(&product, item.ProductID).Error; err != nil {
			return err
		}
		if quantity > product.Stock {
			return ErrInsufficientStock
		}

		item.Quantity = quantity
		item.Total = util.Round2(item.Price * float64(quantity))
		return tx.Save(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) DeleteCartItem(ctx context.Context, itemID, userID uint) error {
	res := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) ClearCart(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
	})
}
