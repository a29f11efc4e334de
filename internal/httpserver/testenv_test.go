package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tienda/internal/models"
	"tienda/internal/repo"
	"tienda/internal/service/cart"
	"tienda/internal/service/catalog"
	"tienda/internal/service/checkout"
	"tienda/internal/service/delivery"
	"tienda/internal/service/pricing"
)

type testEnv struct {
	T        *testing.T
	E        *echo.Echo
	DB       *gorm.DB
	Repo     *repo.GormRepo
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Product  *ProductHandler
	Category *CategoryHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Category{}, &models.Product{}, &models.User{}, &models.CartItem{}))

	gormRepo := repo.New(db)
	cartSvc := &cart.Service{Repo: gormRepo}
	catalogSvc := &catalog.Service{Repo: gormRepo}

	orch := &checkout.Orchestrator{
		Cart: cartSvc,
		Config: checkout.Config{
			Store:         delivery.Coordinate{Lat: -2.196160, Lng: -79.886207},
			MaxDistanceKm: 10,
			Pricing:       pricing.DefaultConfig(),
		},
		Now: func() time.Time { return time.Date(2026, 1, 7, 12, 0, 0, 0, time.UTC) },
	}

	return &testEnv{
		T:        t,
		E:        echo.New(),
		DB:       db,
		Repo:     gormRepo,
		Cart:     &CartHandler{Svc: cartSvc},
		Checkout: &CheckoutHandler{Cart: cartSvc, Orch: orch},
		Product:  &ProductHandler{Svc: catalogSvc},
		Category: &CategoryHandler{Svc: catalogSvc},
	}
}

// doJSON builds an echo context for a handler call, authenticated as
// the given user.
func (env *testEnv) doJSON(method, target string, body any, userID uint) (*httptest.ResponseRecorder, echo.Context) {
	env.T.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(env.T, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	if userID != 0 {
		c.Set("user_id", userID)
		c.Set("role", "user")
	}
	return rec, c
}

func (env *testEnv) seedProduct(name, slug string, price float64, stock uint) *models.Product {
	env.T.Helper()

	category := models.Category{Name: "General", Slug: "general"}
	require.NoError(env.T, env.DB.FirstOrCreate(&category, models.Category{Slug: "general"}).Error)

	p := models.Product{Name: name, Slug: slug, CategoryID: category.ID, Price: price, Stock: stock}
	require.NoError(env.T, env.DB.Create(&p).Error)
	return &p
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}
