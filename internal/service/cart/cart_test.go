package cart

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tienda/internal/models"
	"tienda/internal/repo"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Category{}, &models.Product{}, &models.User{}, &models.CartItem{}))

	return &Service{Repo: repo.New(db)}
}

func seedProduct(t *testing.T, s *Service, price float64, stock uint) *models.Product {
	t.Helper()

	category := models.Category{Name: "Bebidas", Slug: "bebidas"}
	require.NoError(t, s.Repo.DB.FirstOrCreate(&category, models.Category{Slug: "bebidas"}).Error)

	p := models.Product{
		Name:       "Café de altura",
		Slug:       "cafe-de-altura",
		CategoryID: category.ID,
		Price:      price,
		Stock:      stock,
	}
	require.NoError(t, s.Repo.DB.Create(&p).Error)
	return &p
}

func TestAddSnapshotsPriceAtFirstAdd(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	product := seedProduct(t, svc, 10.00, 5)

	item, err := svc.Add(ctx, 1, product.ID, 2)
	require.NoError(t, err)
	require.Equal(t, 10.00, item.Price)
	require.Equal(t, 20.00, item.Total)

	// Catalog price changes must not move the line.
	require.NoError(t, svc.Repo.DB.Model(product).Update("price", 99.99).Error)

	item, err = svc.Add(ctx, 1, product.ID, 1)
	require.NoError(t, err)
	require.Equal(t, uint(3), item.Quantity)
	require.Equal(t, 10.00, item.Price)
	require.Equal(t, 30.00, item.Total)
}

func TestAddMergesInsteadOfDuplicating(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	product := seedProduct(t, svc, 2.50, 10)

	for i := 0; i < 3; i++ {
		_, err := svc.Add(ctx, 1, product.ID, 2)
		require.NoError(t, err)
	}

	items, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, uint(6), items[0].Quantity)
	require.Equal(t, 15.00, items[0].Total)
}

func TestAddUnknownProduct(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Add(context.Background(), 1, 999, 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAddInvalidQuantity(t *testing.T) {
	svc := newTestService(t)
	product := seedProduct(t, svc, 10.00, 5)

	_, err := svc.Add(context.Background(), 1, product.ID, 0)
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.Add(context.Background(), 1, product.ID, -3)
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestAddRespectsStock(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	product := seedProduct(t, svc, 10.00, 5)

	_, err := svc.Add(ctx, 1, product.ID, 6)
	require.ErrorIs(t, err, ErrInsufficientStock)

	_, err = svc.Add(ctx, 1, product.ID, 3)
	require.NoError(t, err)

	// 3 already in the line, 3 more would exceed stock 5.
	_, err = svc.Add(ctx, 1, product.ID, 3)
	require.ErrorIs(t, err, ErrInsufficientStock)

	item, err := svc.Add(ctx, 1, product.ID, 2)
	require.NoError(t, err)
	require.Equal(t, uint(5), item.Quantity)
}

func TestUpdateQuantityUsesSnapshotPrice(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	product := seedProduct(t, svc, 10.00, 5)

	item, err := svc.Add(ctx, 1, product.ID, 1)
	require.NoError(t, err)

	require.NoError(t, svc.Repo.DB.Model(product).Update("price", 42.00).Error)

	updated, err := svc.UpdateQuantity(ctx, item.ID, 4)
	require.NoError(t, err)
	require.Equal(t, uint(4), updated.Quantity)
	require.Equal(t, 10.00, updated.Price)
	require.Equal(t, 40.00, updated.Total)
}

func TestUpdateQuantityRejectsNonPositive(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	product := seedProduct(t, svc, 10.00, 5)

	item, err := svc.Add(ctx, 1, product.ID, 2)
	require.NoError(t, err)

	_, err = svc.UpdateQuantity(ctx, item.ID, 0)
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.UpdateQuantity(ctx, item.ID, -1)
	require.ErrorIs(t, err, ErrInvalidQuantity)

	// The line must survive a rejected update.
	items, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, uint(2), items[0].Quantity)
}

func TestUpdateQuantityMissingItem(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.UpdateQuantity(context.Background(), 999, 2)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveMissingItemIsNotFound(t *testing.T) {
	svc := newTestService(t)

	err := svc.Remove(context.Background(), 999, 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveIsScopedToOwner(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	product := seedProduct(t, svc, 10.00, 5)

	item, err := svc.Add(ctx, 1, product.ID, 1)
	require.NoError(t, err)

	require.ErrorIs(t, svc.Remove(ctx, item.ID, 2), ErrNotFound)
	require.NoError(t, svc.Remove(ctx, item.ID, 1))
}

func TestClearRemovesOnlyOwnLines(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	product := seedProduct(t, svc, 10.00, 50)

	_, err := svc.Add(ctx, 1, product.ID, 2)
	require.NoError(t, err)
	_, err = svc.Add(ctx, 2, product.ID, 3)
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, 1))

	mine, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, mine)

	theirs, err := svc.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, theirs, 1)
}

func TestListInsertionOrderWithProductData(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	category := models.Category{Name: "Snacks", Slug: "snacks"}
	require.NoError(t, svc.Repo.DB.Create(&category).Error)

	first := models.Product{Name: "Chifles", Slug: "chifles", CategoryID: category.ID, Price: 1.50, Stock: 10}
	second := models.Product{Name: "Maní", Slug: "mani", CategoryID: category.ID, Price: 2.00, Stock: 10}
	require.NoError(t, svc.Repo.DB.Create(&first).Error)
	require.NoError(t, svc.Repo.DB.Create(&second).Error)

	_, err := svc.Add(ctx, 1, first.ID, 1)
	require.NoError(t, err)
	_, err = svc.Add(ctx, 1, second.ID, 1)
	require.NoError(t, err)

	items, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, first.ID, items[0].ProductID)
	require.Equal(t, second.ID, items[1].ProductID)

	require.NotNil(t, items[0].Product)
	require.Equal(t, "Chifles", items[0].Product.Name)
}

// End-to-end ledger scenario: add x2, add x1 more, update to 1, remove.
func TestLedgerScenario(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	product := seedProduct(t, svc, 10.00, 5)

	item, err := svc.Add(ctx, 1, product.ID, 2)
	require.NoError(t, err)
	require.Equal(t, 20.00, item.Total)

	item, err = svc.Add(ctx, 1, product.ID, 1)
	require.NoError(t, err)
	require.Equal(t, uint(3), item.Quantity)
	require.Equal(t, 30.00, item.Total)

	item, err = svc.UpdateQuantity(ctx, item.ID, 1)
	require.NoError(t, err)
	require.Equal(t, 10.00, item.Total)

	require.NoError(t, svc.Remove(ctx, item.ID, 1))

	items, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, items)
}
