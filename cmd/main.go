package main

import (
	"storefront-api/internal/catalog"
	"storefront-api/internal/handler"
	mid "storefront-api/internal/middleware"
	"storefront-api/pkg/config"
	"storefront-api/pkg/database"
	"storefront-api/pkg/jwtutil"
	"storefront-api/pkg/logger"
	"storefront-api/pkg/mediastore"
	"storefront-api/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	logger.InitLogger(appConfig)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting storefront-api",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	if err := database.InitDB(appConfig); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize media store and handlers
	store := mediastore.New(appConfig.Media.Root, appConfig.Media.BaseURL)
	handler.InitProductHandler(store, appConfig.Seed.FixturePath)

	// Seed the catalog once migrations are in place
	if _, err := catalog.SeedIfEmpty(database.GetDB(), log, appConfig.Seed.FixturePath); err != nil {
		log.Fatal("Failed to seed catalog", zap.Error(err))
	}

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(mid.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Stored media files
	e.Static(appConfig.Media.BaseURL, appConfig.Media.Root)

	// Auth routes
	e.POST("/api/login", handler.Login)
	e.POST("/api/token/refresh", handler.RefreshToken)

	// Product API routes - reads are public, writes require a valid JWT
	productAPI := e.Group("/api/products")
	productAPI.GET("", handler.ListProducts)
	productAPI.GET("/:id", handler.GetProduct)
	productAPI.POST("", handler.CreateProduct, mid.AuthMiddleware)
	productAPI.PUT("/:id", handler.UpdateProduct, mid.AuthMiddleware)
	productAPI.PATCH("/:id", handler.PatchProduct, mid.AuthMiddleware)
	productAPI.DELETE("/:id", handler.DeleteProduct, mid.AuthMiddleware)
	productAPI.PATCH("/:id/stock", handler.UpdateStock, mid.AuthMiddleware)
	productAPI.POST("/:id/image", handler.UploadProductImage, mid.AuthMiddleware)
	productAPI.POST("/insert-sample-products", handler.InsertSampleProducts, mid.AuthMiddleware)

	// Order API routes - the list endpoint tolerates anonymous callers
	orderAPI := e.Group("/api/orders")
	orderAPI.GET("", handler.ListOrders, mid.OptionalAuthMiddleware)
	orderAPI.POST("", handler.CreateOrder, mid.AuthMiddleware)
	orderAPI.GET("/:id", handler.GetOrder, mid.AuthMiddleware)

	// Media folder listing
	e.POST("/api/images", handler.ListFolderImages)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
