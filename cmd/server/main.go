package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"tienda/internal/auth"
	"tienda/internal/cache"
	"tienda/internal/config"
	"tienda/internal/events"
	"tienda/internal/geo"
	"tienda/internal/httpserver"
	"tienda/internal/logging"
	"tienda/internal/middleware/loggingmw"
	"tienda/internal/repo"
	"tienda/internal/search"
	"tienda/internal/service/cart"
	"tienda/internal/service/catalog"
	"tienda/internal/service/checkout"
	"tienda/internal/service/delivery"
	"tienda/internal/service/pricing"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.OpenDB(context.Background(), configuration.DATABASE_URL)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	gormRepo := repo.New(db)

	var producer *events.Producer
	if configuration.KAFKA_ADDRESS != "" {
		producer = events.NewProducer([]string{configuration.KAFKA_ADDRESS})
	}

	productCache, err := cache.New(configuration.REDIS_ADDR)
	if err != nil {
		logger.Warn("redis unavailable, catalog cache disabled", "error", err)
		productCache = nil
	}

	catalogSvc := &catalog.Service{
		Repo:    gormRepo,
		ESIndex: "products",
	}
	if productCache != nil {
		catalogSvc.Cache = productCache
	}
	if configuration.ES_URL != "" {
		esClient, err := search.NewClient(configuration)
		if err != nil {
			logger.Warn("elasticsearch unavailable, search disabled", "error", err)
		} else {
			catalogSvc.ES = esClient
		}
	}
	if producer != nil {
		catalogSvc.Events = producer
	}

	cartSvc := &cart.Service{Repo: gormRepo}

	orch := &checkout.Orchestrator{
		Cart: cartSvc,
		Geo:  geo.NewClient(configuration.GEOCODING_URL, configuration.GEOCODING_KEY),
		Config: checkout.Config{
			Store: delivery.Coordinate{
				Lat: configuration.STORE_LAT,
				Lng: configuration.STORE_LNG,
			},
			MaxDistanceKm: configuration.MAX_DELIVERY_KM,
			Pricing: pricing.Config{
				FreeShippingThreshold: configuration.FREE_SHIPPING_THRESHOLD,
				FlatFee:               configuration.DELIVERY_FLAT_FEE,
				TaxRate:               configuration.TAX_RATE,
			},
		},
	}
	if producer != nil {
		orch.Events = producer
	}

	jwtSecret := []byte(configuration.JWT_SECRET)

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		AuthMW:          &auth.Middleware{JWTSecret: jwtSecret},
		AuthHandler:     &httpserver.AuthHandler{Repo: gormRepo, JWTSecret: jwtSecret},
		ProductHandler:  &httpserver.ProductHandler{Svc: catalogSvc},
		CategoryHandler: &httpserver.CategoryHandler{Svc: catalogSvc},
		CartHandler:     &httpserver.CartHandler{Svc: cartSvc},
		CheckoutHandler: &httpserver.CheckoutHandler{Cart: cartSvc, Orch: orch},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.HTTP_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}

	if productCache != nil {
		if err := productCache.Close(); err != nil {
			log.Printf("redis close error: %v", err)
		}
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Printf("kafka close error: %v", err)
		}
	}

	log.Println("shutdown complete")
}
