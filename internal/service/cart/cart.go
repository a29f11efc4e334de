package cart

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"tienda/internal/models"
	"tienda/internal/repo"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Service struct {
	Repo *repo.GormRepo
}

// Add puts quantity units of a product into the user's cart. An existing
// line for the same product is incremented rather than duplicated, keeping
// the price snapshot taken at the first add.
func (s *Service) Add(ctx context.Context, userID, productID uint, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", ErrInvalidQuantity)
	}

	item, err := s.Repo.AddToCart(ctx, userID, productID, uint(quantity))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("product %d: %w", productID, ErrNotFound)
	}
	if errors.Is(err, repo.ErrInsufficientStock) {
		return nil, fmt.Errorf("product %d: %w", productID, ErrInsufficientStock)
	}
	return item, err
}

// UpdateQuantity sets the line's quantity and recomputes its total from
// the snapshot price. Callers wanting quantity zero must use Remove.
func (s *Service) UpdateQuantity(ctx context.Context, itemID uint, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", ErrInvalidQuantity)
	}

	item, err := s.Repo.UpdateQuantity(ctx, itemID, uint(quantity))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("cart item %d: %w", itemID, ErrNotFound)
	}
	if errors.Is(err, repo.ErrInsufficientStock) {
		return nil, fmt.Errorf("cart item %d: %w", itemID, ErrInsufficientStock)
	}
	return item, err
}

// Remove deletes one line from the user's cart. A missing id is a hard
// NotFound, not a silent no-op.
func (s *Service) Remove(ctx context.Context, itemID, userID uint) error {
	err := s.Repo.DeleteCartItem(ctx, itemID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("cart item %d: %w", itemID, ErrNotFound)
	}
	return err
}

func (s *Service) Clear(ctx context.Context, userID uint) error {
	return s.Repo.ClearCart(ctx, userID)
}

// List returns the user's lines in insertion order, each joined with the
// product's current display data. The joined price is for display only;
// totals always come from the snapshot.
func (s *Service) List(ctx context.Context, userID uint) ([]models.CartItem, error) {
	return s.Repo.GetCart(ctx, userID)
}
