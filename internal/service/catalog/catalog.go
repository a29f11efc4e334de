package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"gorm.io/gorm"

	"tienda/internal/cache"
	"tienda/internal/logging"
	"tienda/internal/models"
	"tienda/internal/repo"
	"tienda/internal/search"
	"tienda/internal/transport"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrTransient = errors.New("catalog unavailable")
)

// ValidationError names the field and constraint a request broke.
type ValidationError struct {
	Field      string
	Constraint string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Constraint)
}

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// ProductCache is the degrade target for catalog reads; cache.ProductCache
// is the redis implementation.
type ProductCache interface {
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	SetProduct(ctx context.Context, p *models.Product) error
	InvalidateProduct(ctx context.Context, id uint) error
	GetProductPage(ctx context.Context, categoryID uint, offset, limit int) (*cache.ProductPage, error)
	SetProductPage(ctx context.Context, categoryID uint, offset, limit int, page *cache.ProductPage) error
	InvalidatePages(ctx context.Context) error
}

type Service struct {
	Repo    *repo.GormRepo
	Cache   ProductCache
	ES      *elasticsearch.Client
	ESIndex string
	Events  Publisher
}

// GetProduct reads the product from the database, refreshing the cache on
// success. A database failure degrades to the cached copy instead of
// failing the read.
func (s *Service) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if err == nil {
		s.cacheProduct(ctx, product)
		return product, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}

	if s.Cache != nil {
		if cached, cacheErr := s.Cache.GetProduct(ctx, id); cacheErr == nil && cached != nil {
			logging.FromContext(ctx).Warn("serving product from cache", "product_id", id, "error", err)
			return cached, nil
		}
	}
	return nil, fmt.Errorf("get product %d: %w: %v", id, ErrTransient, err)
}

func (s *Service) ListProducts(ctx context.Context, categoryID uint, offset, limit int) (int64, []models.Product, error) {
	total, items, err := s.Repo.GetProducts(ctx, categoryID, offset, limit)
	if err == nil {
		if s.Cache != nil {
			page := &cache.ProductPage{Total: total, Items: items}
			if cacheErr := s.Cache.SetProductPage(ctx, categoryID, offset, limit, page); cacheErr != nil {
				logging.FromContext(ctx).Warn("product page cache write failed", "error", cacheErr)
			}
		}
		return total, items, nil
	}

	if s.Cache != nil {
		if page, cacheErr := s.Cache.GetProductPage(ctx, categoryID, offset, limit); cacheErr == nil && page != nil {
			logging.FromContext(ctx).Warn("serving product page from cache", "error", err)
			return page.Total, page.Items, nil
		}
	}
	return 0, nil, fmt.Errorf("list products: %w: %v", ErrTransient, err)
}

func (s *Service) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	if err := s.validateProduct(ctx, req, 0); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
	}
	if _, err := s.Repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	s.afterProductWrite(ctx, "product_created", product, false)
	return product, nil
}

func (s *Service) PatchProduct(ctx context.Context, req transport.PatchProductRequest, id uint) (*models.Product, error) {
	if req.Slug != nil {
		taken, err := s.Repo.ProductSlugExists(ctx, *req.Slug, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, &ValidationError{Field: "slug", Constraint: "must be unique"}
		}
	}
	if req.Price != nil && *req.Price < 0 {
		return nil, &ValidationError{Field: "price", Constraint: "must be non-negative"}
	}

	product, err := s.Repo.PatchProduct(ctx, req, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	s.afterProductWrite(ctx, "product_updated", product, false)
	return product, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id uint) error {
	err := s.Repo.DeleteProduct(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return err
	}

	s.afterProductWrite(ctx, "product_deleted", &models.Product{ID: id}, true)
	return nil
}

func (s *Service) SearchProducts(ctx context.Context, query string, from, size int) (int64, []models.Product, error) {
	if s.ES == nil {
		return 0, nil, fmt.Errorf("search: %w", ErrTransient)
	}
	return search.Search(ctx, s.ES, s.ESIndex, query, from, size)
}

func (s *Service) GetCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.GetCategories(ctx)
}

func (s *Service) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.Repo.GetCategory(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("category %d: %w", id, ErrNotFound)
	}
	return category, err
}

func (s *Service) CreateCategory(ctx context.Context, req transport.CreateCategoryRequest) (*models.Category, error) {
	if req.Name == "" {
		return nil, &ValidationError{Field: "name", Constraint: "required"}
	}
	if req.Slug == "" {
		return nil, &ValidationError{Field: "slug", Constraint: "required"}
	}
	taken, err := s.Repo.CategorySlugExists(ctx, req.Slug, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, &ValidationError{Field: "slug", Constraint: "must be unique"}
	}

	category := &models.Category{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	}
	return s.Repo.CreateCategory(ctx, category)
}

func (s *Service) PatchCategory(ctx context.Context, req transport.PatchCategoryRequest, id uint) (*models.Category, error) {
	if req.Slug != nil {
		taken, err := s.Repo.CategorySlugExists(ctx, *req.Slug, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, &ValidationError{Field: "slug", Constraint: "must be unique"}
		}
	}

	category, err := s.Repo.PatchCategory(ctx, req, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("category %d: %w", id, ErrNotFound)
	}
	return category, err
}

const deleteCategoryPageSize = 100

// DeleteCategory cascades to the category's products, so their cached and
// indexed copies are dropped as well. Products are collected page by page
// first; stopping at one page would strand the rest in cache and index.
func (s *Service) DeleteCategory(ctx context.Context, id uint) error {
	var products []models.Product
	for offset := 0; ; offset += deleteCategoryPageSize {
		_, page, err := s.Repo.GetProducts(ctx, id, offset, deleteCategoryPageSize)
		if err != nil {
			return err
		}
		products = append(products, page...)
		if len(page) < deleteCategoryPageSize {
			break
		}
	}

	err := s.Repo.DeleteCategory(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("category %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return err
	}

	for i := range products {
		s.afterProductWrite(ctx, "product_deleted", &products[i], true)
	}
	return nil
}

func (s *Service) validateProduct(ctx context.Context, req transport.CreateProductRequest, excludeID uint) error {
	if req.Name == "" {
		return &ValidationError{Field: "name", Constraint: "required"}
	}
	if req.Slug == "" {
		return &ValidationError{Field: "slug", Constraint: "required"}
	}
	if req.Price < 0 {
		return &ValidationError{Field: "price", Constraint: "must be non-negative"}
	}

	taken, err := s.Repo.ProductSlugExists(ctx, req.Slug, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return &ValidationError{Field: "slug", Constraint: "must be unique"}
	}

	if _, err := s.Repo.GetCategory(ctx, req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ValidationError{Field: "category_id", Constraint: "must reference an existing category"}
		}
		return err
	}
	return nil
}

func (s *Service) cacheProduct(ctx context.Context, p *models.Product) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.SetProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Warn("product cache write failed", "product_id", p.ID, "error", err)
	}
}

// afterProductWrite keeps the cache, search index, and event stream in
// step with a product mutation. These are best-effort: the write itself
// already committed.
func (s *Service) afterProductWrite(ctx context.Context, eventType string, p *models.Product, deleted bool) {
	l := logging.FromContext(ctx)

	if s.Cache != nil {
		if err := s.Cache.InvalidateProduct(ctx, p.ID); err != nil {
			l.Warn("product cache invalidate failed", "product_id", p.ID, "error", err)
		}
		if err := s.Cache.InvalidatePages(ctx); err != nil {
			l.Warn("product page cache invalidate failed", "error", err)
		}
	}

	if s.ES != nil {
		var err error
		if deleted {
			err = search.DeleteProduct(ctx, s.ES, s.ESIndex, p.ID)
		} else {
			err = search.IndexProduct(ctx, s.ES, s.ESIndex, p)
		}
		if err != nil {
			l.Warn("search index sync failed", "product_id", p.ID, "error", err)
		}
	}

	if s.Events != nil {
		pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		event := map[string]any{
			"type":       eventType,
			"product_id": p.ID,
			"name":       p.Name,
		}
		if err := s.Events.PublishEvent(pubCtx, "product_events", fmt.Sprint(p.ID), event); err != nil {
			l.Warn("product event publish failed", "product_id", p.ID, "error", err)
		}
	}
}
