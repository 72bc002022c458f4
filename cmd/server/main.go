package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	advisoryapp "github.com/wms/backend/internal/application/advisory"
	fulfillmentapp "github.com/wms/backend/internal/application/fulfillment"
	inventoryapp "github.com/wms/backend/internal/application/inventory"
	infraadvisory "github.com/wms/backend/internal/infrastructure/advisory"
	"github.com/wms/backend/internal/infrastructure/config"
	"github.com/wms/backend/internal/infrastructure/event"
	"github.com/wms/backend/internal/infrastructure/logger"
	"github.com/wms/backend/internal/infrastructure/persistence"
	"github.com/wms/backend/internal/interfaces/http/handler"
	"github.com/wms/backend/internal/interfaces/http/middleware"
	"github.com/wms/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting WMS Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database
	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully", zap.String("path", cfg.Database.Path))

	if cfg.Seed.Enabled {
		if err := persistence.Seed(context.Background(), db, log); err != nil {
			log.Fatal("Failed to seed database", zap.Error(err))
		}
	}

	// Initialize repositories
	itemRepo := persistence.NewGormItemRepository(db.DB)
	movementRepo := persistence.NewGormMovementRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Choose the advisory backend. Without an API key the stub keeps
	// suggestions deterministic and offline.
	var gateway advisoryapp.Gateway
	if cfg.Advisory.Enabled {
		geminiCfg := &infraadvisory.GeminiConfig{
			APIKey:  cfg.Advisory.APIKey,
			Model:   cfg.Advisory.Model,
			BaseURL: cfg.Advisory.BaseURL,
			Timeout: cfg.Advisory.Timeout,
		}
		adapter, err := infraadvisory.NewGeminiAdapter(geminiCfg, log)
		if err != nil {
			log.Fatal("Failed to initialize advisory adapter", zap.Error(err))
		}
		gateway = adapter
		log.Info("Advisory backend enabled", zap.String("model", cfg.Advisory.Model))
	} else {
		gateway = infraadvisory.NewStubGateway()
		log.Info("Advisory backend disabled, using stub suggestions")
	}

	// Initialize application services
	inventoryService := inventoryapp.NewInventoryService(itemRepo, movementRepo, log)
	inventoryService.SetEventPublisher(eventBus)

	fulfillmentService := fulfillmentapp.NewFulfillmentService(txScope, itemRepo, orderRepo, log)
	fulfillmentService.SetEventPublisher(eventBus)
	fulfillmentService.SetClampProgress(cfg.Fulfillment.ClampProgress)

	advisoryService := advisoryapp.NewAdvisoryService(gateway, itemRepo, orderRepo, log)
	eventBus.Subscribe(advisoryapp.NewInsightRefreshHandler(advisoryService))

	// Configure gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.CORSWithConfig(corsCfg))
	engine.Use(middleware.Secure())
	engine.Use(middleware.BodySizeLimit(cfg.HTTP.MaxBodySize))

	// Register routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewInventoryHandler(inventoryService))
	r.Register(handler.NewOrderHandler(fulfillmentService))
	r.Register(handler.NewFulfillmentHandler(fulfillmentService))
	r.Register(handler.NewAdvisoryHandler(advisoryService))
	r.Register(handler.NewSystemHandler(inventoryService, fulfillmentService))
	r.Setup()

	// Liveness probe outside the versioned API
	engine.GET("/health", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
