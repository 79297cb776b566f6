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

	cartapp "github.com/secureshop/bff/internal/application/cart"
	"github.com/secureshop/bff/internal/application/catalog"
	orderapp "github.com/secureshop/bff/internal/application/order"
	"github.com/secureshop/bff/internal/domain/shop"
	"github.com/secureshop/bff/internal/infrastructure/cache"
	"github.com/secureshop/bff/internal/infrastructure/commerce"
	"github.com/secureshop/bff/internal/infrastructure/config"
	"github.com/secureshop/bff/internal/infrastructure/event"
	"github.com/secureshop/bff/internal/infrastructure/logger"
	"github.com/secureshop/bff/internal/interfaces/http/handler"
	"github.com/secureshop/bff/internal/interfaces/http/middleware"
	"github.com/secureshop/bff/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting SecureShop BFF",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Commerce backend client
	commerceClient, err := commerce.NewClient(&commerce.Config{
		BaseURL:        cfg.Commerce.BaseURL,
		TimeoutSeconds: cfg.Commerce.TimeoutSeconds,
	})
	if err != nil {
		log.Fatal("Failed to create commerce client", zap.Error(err))
	}

	// Cart storage: Redis when configured, in-memory otherwise
	var cartStore shop.CartStore
	if cfg.Redis.Host != "" {
		redisStore, err := cache.NewRedisCartStore(cache.RedisConfig{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.Cart.TTL)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		cartStore = redisStore
		log.Info("Cart store connected", zap.String("backend", "redis"), zap.String("addr", cfg.Redis.Addr()))
	} else {
		cartStore = cache.NewInMemoryCartStore(cfg.Cart.TTL)
		log.Info("Cart store initialized", zap.String("backend", "memory"))
	}

	// Event bus for cart notifications
	eventBus := event.NewInMemoryEventBus(log)
	busCtx := context.Background()
	if err := eventBus.Start(busCtx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Application services
	sessions := catalog.NewSessionManager(commerceClient, catalog.SessionManagerConfig{
		Controller: catalog.ControllerConfig{
			DebounceWindow:   cfg.Browse.DebounceWindow,
			DefaultPageSize:  cfg.Browse.DefaultPageSize,
			BrandCatalogSize: cfg.Browse.BrandCatalogSize,
		},
		SessionTTL: cfg.Browse.SessionTTL,
	}, log)
	sessions.Start()

	orderService := orderapp.NewService(commerceClient, log)
	pollers := orderapp.NewPollerManager(commerceClient, orderapp.PollerManagerConfig{
		Poller: orderapp.PollerConfig{Interval: cfg.Poller.Interval},
		TTL:    cfg.Poller.TTL,
	}, log)
	pollers.Start()

	cartService := cartapp.NewService(cartStore, eventBus, log)

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Middleware stack in order: request id, panic recovery, request logging,
	// CORS, body limit
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Request-ID", middleware.SessionHeader, "Accept", "Origin", "Cache-Control"},
		ExposeHeaders:    []string{"X-Request-ID", middleware.SessionHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodyBytes))

	// API routes
	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(handler.NewBrowseHandler(sessions, log)).
		Register(handler.NewOrderHandler(orderService, pollers, log)).
		Register(handler.NewCartHandler(cartService, log)).
		Register(handler.NewSystemHandler(cfg.App.Name, version)).
		Setup()

	srv := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: engine,
	}

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

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	sessions.Stop()
	pollers.Stop()
	if err := eventBus.Stop(ctx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
