package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lahaseshrikant/NewsTRNT-sub007/internal/api"
	"github.com/lahaseshrikant/NewsTRNT-sub007/internal/cache"
	"github.com/lahaseshrikant/NewsTRNT-sub007/internal/database"
	"github.com/lahaseshrikant/NewsTRNT-sub007/internal/market"
	"github.com/lahaseshrikant/NewsTRNT-sub007/internal/messaging"
	"github.com/lahaseshrikant/NewsTRNT-sub007/internal/services"
	"github.com/lahaseshrikant/NewsTRNT-sub007/pkg/config"
)

// App wires the service components together and manages their lifecycle
type App struct {
	cfg    *config.Config
	logger *logrus.Logger

	// Infrastructure
	mysqlDB    *database.MySQLClient
	redisCache *cache.RedisClient
	natsClient *messaging.NATSClient

	// Domain
	builder *market.Builder
	checker *market.Checker

	// Services
	autoUpdater *services.AutoUpdater
	apiServer   *api.Server
}

// New creates a new application instance
func New(cfg *config.Config, logger *logrus.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger,
	}
}

// Initialize sets up all application components
func (a *App) Initialize(ctx context.Context) error {
	a.logger.Info("Initializing application")

	mysqlDB, err := database.NewMySQLClient(&a.cfg.MySQL, a.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize MySQL: %w", err)
	}
	a.mysqlDB = mysqlDB

	redisCache, err := cache.NewRedisClient(&a.cfg.Redis, a.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize Redis: %w", err)
	}
	a.redisCache = redisCache

	// NATS is optional: without it, cache invalidation falls back to
	// TTL expiry and the cron sweep.
	natsClient, err := messaging.NewNATSClient(&a.cfg.NATS, a.logger)
	if err != nil {
		a.logger.WithError(err).Warn("NATS unavailable, continuing without scraper events")
	} else {
		a.natsClient = natsClient
	}

	a.builder = market.NewBuilder(a.mysqlDB, a.cfg.Market.CryptoLimit, a.logger)
	a.checker = market.NewChecker(a.mysqlDB, a.logger)

	a.autoUpdater = services.NewAutoUpdater(a.redisCache, a.natsClient, a.checker, &a.cfg.Market, a.logger)
	a.apiServer = api.NewServer(a.cfg, a.logger, a.mysqlDB, a.redisCache, a.natsClient, a.builder, a.checker)

	a.logger.Info("Application initialized")
	return nil
}

// Start starts all application services. Blocks serving HTTP until the
// server shuts down.
func (a *App) Start(ctx context.Context) error {
	a.logger.Info("Starting application")

	if err := a.autoUpdater.Start(ctx); err != nil {
		return fmt.Errorf("failed to start auto updater: %w", err)
	}

	return a.apiServer.Start()
}

// Stop gracefully stops all application services
func (a *App) Stop(ctx context.Context) error {
	a.logger.Info("Stopping application")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if a.apiServer != nil {
		if err := a.apiServer.Stop(shutdownCtx); err != nil {
			a.logger.WithError(err).Error("Failed to stop HTTP server")
		}
	}

	if a.autoUpdater != nil {
		if err := a.autoUpdater.Stop(); err != nil {
			a.logger.WithError(err).Error("Failed to stop auto updater")
		}
	}

	if a.natsClient != nil {
		if err := a.natsClient.Drain(); err != nil {
			a.logger.WithError(err).Error("Failed to drain NATS connection")
		}
		a.natsClient.Close()
	}

	if a.redisCache != nil {
		if err := a.redisCache.Close(); err != nil {
			a.logger.WithError(err).Error("Failed to close Redis connection")
		}
	}

	if a.mysqlDB != nil {
		if err := a.mysqlDB.Close(); err != nil {
			a.logger.WithError(err).Error("Failed to close MySQL connection")
		}
	}

	a.logger.Info("Application stopped")
	return nil
}
