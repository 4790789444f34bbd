package main

import (
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"storeflow/internal/accounts"
	"storeflow/internal/dispatch"
	"storeflow/internal/gateway"
	"storeflow/internal/handlers"
	authMiddleware "storeflow/internal/middleware"
	"storeflow/internal/recon"
	"storeflow/internal/services"
	"storeflow/internal/store"
)

func main() {
	// Missing .env just means system environment only.
	_ = godotenv.Load()

	logger := services.NewLogger()
	defer logger.Sync()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		logger.Fatal("DATABASE_URL not set")
	}
	db, err := services.InitDB(databaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := services.AutoMigrate(db); err != nil {
		logger.Fatalf("Failed to run database migrations: %v", err)
	}

	var cache *services.RedisCache
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cache, err = services.NewRedisCache(redisURL)
		if err != nil {
			logger.Warnf("Redis initialization failed, running without cache: %v", err)
			cache = nil
		}
	}

	credPath := os.Getenv("FIREBASE_CREDENTIALS_PATH")
	if credPath == "" {
		credPath = "./firebase-service-account.json"
	}
	authClient, err := services.InitFirebase(credPath)
	if err != nil {
		logger.Warnf("Firebase initialization failed: %v", err)
		logger.Warn("Account provisioning and admin routes will not work until valid credentials are provided")
	}

	st := store.New(db)
	var records recon.RecordStore = st
	if cache != nil {
		defer cache.Close()
		records = store.NewCached(st, cache)
	}
	provisioner := accounts.NewProvisioner(authClient, st, logger)
	reconciler := recon.New(records, gateway.ClientFor, dispatch.NewWebhookDispatcher(), dispatch.NewMailer(), provisioner, logger)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.HTTPErrorHandler = authMiddleware.CustomErrorHandler

	paymentHandler := handlers.NewPaymentHandler(reconciler, cache, logger)
	adminHandler := handlers.NewAdminHandler(st)

	e.GET("/healthz", func(c echo.Context) error {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(c.Request().Context()) != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		}
		cacheStatus := "disabled"
		if cache != nil {
			cacheStatus = "ok"
			if cache.Ping(c.Request().Context()) != nil {
				cacheStatus = "unreachable"
			}
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "cache": cacheStatus})
	})

	e.POST("/webhooks/gateway", paymentHandler.HandleGatewayNotification)
	e.GET("/orders/:id/payment-status", paymentHandler.PollPaymentStatus)
	e.POST("/orders/:id/payment-status", paymentHandler.PollPaymentStatus)

	admin := e.Group("/admin")
	admin.Use(authMiddleware.RequireAuth(authClient))
	admin.GET("/reconciliations", adminHandler.ListReconciliations)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Infof("Server starting on port %s", port)
	e.Logger.Fatal(e.Start(":" + port))
}
