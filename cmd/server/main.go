package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cafe-inventory/internal/cache"
	"cafe-inventory/internal/config"
	"cafe-inventory/internal/database"
	"cafe-inventory/internal/handlers"
	"cafe-inventory/internal/middleware"
	"cafe-inventory/internal/repository"
	"cafe-inventory/internal/routes"
	"cafe-inventory/internal/scheduler"
	"cafe-inventory/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := newLogger(cfg.Logging.Level)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	gin.SetMode(cfg.Server.GinMode)

	postgresDB, err := database.NewPostgresDB(
		cfg.Database.URL,
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
		cfg.Database.ConnMaxLifetime,
		logger,
	)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := postgresDB.Close(); err != nil {
			logger.Error("failed to close database connection", zap.Error(err))
		}
	}()

	redisDB, err := database.NewRedisDB(cfg.Redis.URL, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisDB.Close(); err != nil {
			logger.Error("failed to close Redis connection", zap.Error(err))
		}
	}()

	itemRepo, err := repository.NewItemRepository(postgresDB.DB)
	if err != nil {
		logger.Fatal("failed to init item repository", zap.Error(err))
	}

	stockLogRepo, err := repository.NewStockLogRepository(postgresDB.DB)
	if err != nil {
		logger.Fatal("failed to init stock log repository", zap.Error(err))
	}

	refCache := cache.NewReferenceCache(redisDB.Client, cfg.Inventory.CacheTTL, logger.Named("cache"))

	inventorySvc := services.NewInventoryService(itemRepo, stockLogRepo, refCache, logger.Named("svc.inventory"))
	monitoringSvc := services.NewMonitoringService(logger.Named("svc.monitoring"), cfg, redisDB.Client, postgresDB.DB, refCache)

	inventoryHandler := handlers.NewInventoryHandler(inventorySvc, cfg.Inventory.DefaultUserID, logger.Named("handlers.inventory"))
	monitoringHandler := handlers.NewMonitoringHandler(monitoringSvc, logger.Named("handlers.monitoring"))
	healthChecker := middleware.NewHealthChecker(postgresDB, redisDB, logger.Named("health"))

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(logger.Named("http")))
	router.Use(monitoringHandler.RecordRequestMiddleware())

	routes.SetupRoutes(router, inventoryHandler, monitoringHandler, healthChecker)

	sched := scheduler.NewScheduler(cfg.Inventory.LowStockCron, inventorySvc, logger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		middleware.ServerInfo(cfg.Server.Port, logger)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}
