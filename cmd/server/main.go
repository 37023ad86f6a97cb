package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	syncapp "github.com/sellerdesk/backend/internal/application/sync"
	"github.com/sellerdesk/backend/internal/application/views"
	"github.com/sellerdesk/backend/internal/infrastructure/archive"
	"github.com/sellerdesk/backend/internal/infrastructure/config"
	"github.com/sellerdesk/backend/internal/infrastructure/logger"
	"github.com/sellerdesk/backend/internal/infrastructure/ozon"
	"github.com/sellerdesk/backend/internal/infrastructure/persistence"
	"github.com/sellerdesk/backend/internal/interfaces/http/handler"
	"github.com/sellerdesk/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
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

	log.Info("Starting sellerdesk backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize the local store
	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to open local store", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing local store", zap.Error(err))
		}
	}()
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to migrate local store", zap.Error(err))
	}
	log.Info("Local store ready", zap.String("driver", cfg.Database.Driver))

	// Initialize repositories
	catalogRepo := persistence.NewGormCatalogRepository(db.DB)
	placementRepo := persistence.NewGormPlacementRepository(db.DB)
	exchangeRepo := persistence.NewGormExchangeRepository(db.DB)
	registryRepo := persistence.NewGormRegistryRepository(db.DB)
	runRepo := persistence.NewGormSyncRunRepository(db.DB)

	// Exchange archive and marketplace gateway
	exchangeArchive := archive.New(exchangeRepo, registryRepo, log)
	gateway := ozon.NewGateway(&cfg.Ozon, ozon.Credential{
		Identity: cfg.Ozon.ClientID,
		APIKey:   cfg.Ozon.APIKey,
	}, exchangeArchive, log)

	// Application services
	syncService := syncapp.NewService(gateway, catalogRepo, placementRepo, runRepo, log)
	stockService := views.NewStockService(catalogRepo, placementRepo, log)
	salesService := views.NewSalesService(gateway, exchangeArchive, log)

	// Prune finished run-log rows past the retention window on startup.
	if pruned, err := syncService.PruneRunLog(context.Background(), cfg.Retention.RunLogDays); err != nil {
		log.Warn("Run log prune failed", zap.Error(err))
	} else if pruned > 0 {
		log.Info("Run log pruned", zap.Int64("rows", pruned))
	}

	// HTTP handlers
	syncHandler := handler.NewSyncHandler(syncService)
	catalogHandler := handler.NewCatalogHandler(catalogRepo, gateway.StoreIdentity())
	viewsHandler := handler.NewViewsHandler(stockService, salesService, gateway.StoreIdentity())
	systemHandler := handler.NewSystemHandler(db)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(logger.GinMiddleware(log))
	engine.Use(gin.Recovery())

	r := router.NewRouter(engine, "v1")
	r.Register(systemHandler).
		Register(syncHandler).
		Register(catalogHandler).
		Register(viewsHandler)
	r.Setup()

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

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
