package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"supportdesk/internal/api"
	"supportdesk/internal/config"
	"supportdesk/internal/repository"
	"supportdesk/internal/repository/notion"
	"supportdesk/internal/service"
	"supportdesk/pkg/cache"
	dbbuilder "supportdesk/pkg/database"
	"supportdesk/pkg/httpserver"
)

type App struct {
	logger     *zap.Logger
	dbPool     *sql.DB
	cache      *cache.Cache
	httpServer *httpserver.Server
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	var (
		dbPool        *sql.DB
		ticketStore   service.TicketStore
		feedbackStore service.FeedbackStore
	)

	switch cfg.StoreBackend {
	case config.BackendNotion:
		client := notion.NewClient(cfg.NotionToken)
		ticketStore = notion.NewTicketStore(client, cfg.NotionTicketsDB)
		feedbackStore = notion.NewFeedbackStore(client, cfg.NotionFeedbackDB)
		logger.Info("Notion stores initialized",
			zap.String("tickets_db", cfg.NotionTicketsDB),
			zap.String("feedback_db", cfg.NotionFeedbackDB))
	default:
		var err error
		dbPool, err = dbbuilder.New(
			dbbuilder.WithDriver(cfg.DBDriver),
			dbbuilder.WithDataSource(cfg.DBDSN),
		)
		if err != nil {
			return nil, fmt.Errorf("database init failed: %w", err)
		}
		if err := repository.Migrate(ctx, dbPool, cfg.DBDriver); err != nil {
			return nil, fmt.Errorf("migration failed: %w", err)
		}
		ticketStore = repository.NewTicketRepository(dbPool, cfg.DBDriver)
		feedbackStore = repository.NewFeedbackRepository(dbPool, cfg.DBDriver)
		logger.Info("Database pool initialized",
			zap.String("driver", cfg.DBDriver),
			zap.String("dsn", cfg.DBDSN))
	}

	cacheClient, err := cache.New(ctx,
		cache.WithAddress(cfg.RedisAddr),
	)
	if err != nil {
		return nil, fmt.Errorf("cache init failed: %w", err)
	}
	logger.Info("Cache client initialized", zap.String("addr", cfg.RedisAddr))

	ticketService := service.NewTicketService(ticketStore, logger)
	feedbackService := service.NewFeedbackService(feedbackStore, logger)

	handlers := api.NewHandlers(ticketService, feedbackService, cacheClient, logger,
		time.Duration(cfg.CacheTTLMinutes)*time.Minute)

	httpServer, err := httpserver.New(
		httpserver.WithPort(cfg.HTTPPort),
		httpserver.WithLogger(logger),
		httpserver.WithLogging(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP server: %w", err)
	}
	handlers.RegisterRoutes(httpServer.Router())

	return &App{
		logger:     logger,
		dbPool:     dbPool,
		cache:      cacheClient,
		httpServer: httpServer,
	}, nil
}

// Run starts the application and blocks until a shutdown signal is received.
func (a *App) Run() error {
	a.logger.Info("application starting")

	a.httpServer.Start()
	a.httpServer.SetHealthy(true)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.logger.Info("application shutting down")
	a.httpServer.SetHealthy(false)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("http server shutdown error", zap.Error(err))
	}

	if err := a.cache.Close(); err != nil {
		a.logger.Error("cache shutdown error", zap.Error(err))
	}
	if a.dbPool != nil {
		if err := a.dbPool.Close(); err != nil {
			a.logger.Error("database shutdown error", zap.Error(err))
		}
	}

	select {
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			a.logger.Warn("shutdown completed but deadline exceeded")
		}
	default:
		a.logger.Info("graceful shutdown completed successfully")
	}

	_ = a.logger.Sync()
	return nil
}
