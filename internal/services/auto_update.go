package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/lahaseshrikant/NewsTRNT-sub007/internal/cache"
	"github.com/lahaseshrikant/NewsTRNT-sub007/internal/market"
	"github.com/lahaseshrikant/NewsTRNT-sub007/internal/messaging"
	"github.com/lahaseshrikant/NewsTRNT-sub007/pkg/config"
)

// AutoUpdater keeps the assembled country caches in step with the
// scraper. Two triggers drop the caches: scraper completion events over
// NATS, and a cron sweep that also refreshes the cached health report.
type AutoUpdater struct {
	redis   *cache.RedisClient
	nats    *messaging.NATSClient
	checker *market.Checker
	logger  *logrus.Entry
	cfg     *config.MarketConfig

	cron    *cron.Cron
	running bool
}

// NewAutoUpdater creates the cache maintenance service
func NewAutoUpdater(
	redis *cache.RedisClient,
	nats *messaging.NATSClient,
	checker *market.Checker,
	cfg *config.MarketConfig,
	logger *logrus.Logger,
) *AutoUpdater {
	return &AutoUpdater{
		redis:   redis,
		nats:    nats,
		checker: checker,
		logger:  logger.WithField("component", "auto-updater"),
		cfg:     cfg,
		cron:    cron.New(),
	}
}

// Start subscribes to scraper events and schedules the periodic sweep
func (a *AutoUpdater) Start(ctx context.Context) error {
	if a.running {
		return nil
	}

	if a.nats != nil {
		err := a.nats.SubscribeScraperEvents(a.cfg.ScraperSubject, func(event *messaging.ScraperEvent) {
			a.onScraperEvent(ctx, event)
		})
		if err != nil {
			return err
		}
		a.logger.WithField("subject", a.cfg.ScraperSubject).Info("Subscribed to scraper events")
	}

	if _, err := a.cron.AddFunc(a.cfg.AutoUpdateSchedule, func() {
		a.sweep(ctx)
	}); err != nil {
		return err
	}
	a.cron.Start()

	a.running = true
	a.logger.WithField("schedule", a.cfg.AutoUpdateSchedule).Info("Auto updater started")
	return nil
}

// Stop stops the cron scheduler and waits for a running sweep
func (a *AutoUpdater) Stop() error {
	if !a.running {
		return nil
	}

	stopCtx := a.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
		a.logger.Warn("Timed out waiting for sweep to finish")
	}

	a.running = false
	a.logger.Info("Auto updater stopped")
	return nil
}

// onScraperEvent drops the country caches after a successful scrape so
// the next request reassembles from fresh rows.
func (a *AutoUpdater) onScraperEvent(ctx context.Context, event *messaging.ScraperEvent) {
	log := a.logger.WithFields(logrus.Fields{
		"scraper":  event.ScraperName,
		"dataType": event.DataType,
		"status":   event.Status,
	})

	if event.Status != "success" {
		log.Warn("Scraper run did not succeed, keeping caches")
		return
	}

	if err := a.redis.InvalidateCountries(ctx); err != nil {
		log.WithError(err).Error("Failed to invalidate country caches")
		return
	}

	log.Info("Country caches invalidated after scraper run")
}

// sweep refreshes the cached health report and publishes the overall
// status. Runs on the cron schedule.
func (a *AutoUpdater) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	report, err := a.checker.Report(sweepCtx)
	if err != nil {
		a.logger.WithError(err).Error("Health sweep failed")
		return
	}

	if err := a.redis.SetHealthReport(sweepCtx, report, a.cfg.OffHoursTTL); err != nil {
		a.logger.WithError(err).Warn("Failed to cache health report")
	}

	if a.nats != nil && a.nats.IsConnected() {
		if err := a.nats.PublishHealthStatus(&report.Overall); err != nil {
			a.logger.WithError(err).Warn("Failed to publish health status")
		}
	}

	a.logger.WithField("status", report.Overall.Status).Debug("Health sweep completed")
}
