package market

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lahaseshrikant/NewsTRNT-sub007/pkg/models"
)

// Staleness thresholds per category, in minutes. Crypto moves faster and
// is expected to be fresher.
const (
	indexStaleThresholdMin     = 60
	cryptoStaleThresholdMin    = 10
	currencyStaleThresholdMin  = 60
	commodityStaleThresholdMin = 60

	scraperRunHistory = 10
)

// Checker aggregates per-category freshness into one health report.
type Checker struct {
	store  HealthStore
	logger *logrus.Entry
	now    func() time.Time
}

// NewChecker creates a health checker over the given store.
func NewChecker(store HealthStore, log *logrus.Logger) *Checker {
	return &Checker{
		store:  store,
		logger: log.WithField("component", "market-health"),
		now:    time.Now,
	}
}

// Report builds the full health report. The five reads run concurrently.
func (c *Checker) Report(ctx context.Context) (*models.HealthReport, error) {
	now := c.now()

	var (
		wg sync.WaitGroup

		indexStats, cryptoStats, currencyStats, commodityStats models.CategoryStats
		runs                                                   []models.ScraperRun

		errs [5]error
	)

	wg.Add(5)
	go func() { defer wg.Done(); indexStats, errs[0] = c.store.IndexStats(ctx) }()
	go func() { defer wg.Done(); cryptoStats, errs[1] = c.store.CryptoStats(ctx) }()
	go func() { defer wg.Done(); currencyStats, errs[2] = c.store.CurrencyStats(ctx) }()
	go func() { defer wg.Done(); commodityStats, errs[3] = c.store.CommodityStats(ctx) }()
	go func() { defer wg.Done(); runs, errs[4] = c.store.RecentScraperRuns(ctx, scraperRunHistory) }()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("health check read failed: %w", err)
		}
	}

	if runs == nil {
		runs = []models.ScraperRun{}
	}

	data := models.HealthData{
		MarketIndices:    classifyIndices(indexStats, now),
		CryptoCurrencies: classifyCrypto(cryptoStats, now),
		Currencies:       classifyCurrencies(currencyStats, now),
		Commodities:      classifyCommodities(commodityStats, now),
	}

	return &models.HealthReport{
		Success:     true,
		Timestamp:   now,
		Overall:     OverallStatus(data),
		Data:        data,
		ScraperRuns: runs,
		Endpoints: map[string]string{
			"health":      "/api/market/health",
			"country":     "/api/market/country",
			"indices":     "/api/market/indices",
			"crypto":      "/api/market/crypto",
			"currencies":  "/api/market/currencies",
			"commodities": "/api/market/commodities",
			"convert":     "/api/market/convert",
		},
	}, nil
}

// ageMinutes is the age of the newest record, in whole minutes.
func ageMinutes(newest *time.Time, now time.Time) int {
	if newest == nil {
		return 0
	}
	return int(now.Sub(*newest).Minutes() + 0.5)
}

func toDataHealth(stats models.CategoryStats, avgAge int, health models.HealthStatus) models.DataHealth {
	return models.DataHealth{
		Count:         stats.Count,
		ConfigCount:   stats.ConfigCount,
		StaleCount:    stats.StaleCount,
		OldestUpdate:  stats.OldestUpdate,
		NewestUpdate:  stats.NewestUpdate,
		AvgAgeMinutes: avgAge,
		Health:        health,
	}
}

func classifyIndices(stats models.CategoryStats, now time.Time) models.DataHealth {
	age := ageMinutes(stats.NewestUpdate, now)

	var health models.HealthStatus
	switch {
	case stats.Count == 0:
		health = models.HealthStatus{Status: models.StatusCritical, Message: "No market index data available"}
	case stats.ConfigCount > 0 && stats.Count*2 < stats.ConfigCount:
		health = models.HealthStatus{Status: models.StatusDegraded, Message: fmt.Sprintf("Only %d/%d indices have data", stats.Count, stats.ConfigCount)}
	case age > indexStaleThresholdMin:
		health = models.HealthStatus{Status: models.StatusDegraded, Message: fmt.Sprintf("Data is %d minutes old", age)}
	case stats.StaleCount > 0:
		health = models.HealthStatus{Status: models.StatusDegraded, Message: fmt.Sprintf("%d indices marked as stale", stats.StaleCount)}
	default:
		health = models.HealthStatus{Status: models.StatusHealthy, Message: "All indices data fresh"}
	}

	return toDataHealth(stats, age, health)
}

func classifyCrypto(stats models.CategoryStats, now time.Time) models.DataHealth {
	age := ageMinutes(stats.NewestUpdate, now)

	var health models.HealthStatus
	switch {
	case stats.Count == 0:
		health = models.HealthStatus{Status: models.StatusCritical, Message: "No cryptocurrency data available"}
	case stats.ConfigCount > 0 && stats.Count*2 < stats.ConfigCount:
		health = models.HealthStatus{Status: models.StatusDegraded, Message: fmt.Sprintf("Only %d/%d cryptos have data", stats.Count, stats.ConfigCount)}
	case age > cryptoStaleThresholdMin:
		health = models.HealthStatus{Status: models.StatusDegraded, Message: fmt.Sprintf("Data is %d minutes old", age)}
	default:
		health = models.HealthStatus{Status: models.StatusHealthy, Message: "All crypto data fresh"}
	}

	return toDataHealth(stats, age, health)
}

func classifyCurrencies(stats models.CategoryStats, now time.Time) models.DataHealth {
	age := ageMinutes(stats.NewestUpdate, now)

	var health models.HealthStatus
	switch {
	case stats.Count == 0:
		health = models.HealthStatus{Status: models.StatusCritical, Message: "No currency data available"}
	case age > currencyStaleThresholdMin:
		health = models.HealthStatus{Status: models.StatusDegraded, Message: fmt.Sprintf("Data is %d minutes old", age)}
	default:
		health = models.HealthStatus{Status: models.StatusHealthy, Message: "All currency data fresh"}
	}

	return toDataHealth(stats, age, health)
}

func classifyCommodities(stats models.CategoryStats, now time.Time) models.DataHealth {
	age := ageMinutes(stats.NewestUpdate, now)

	var health models.HealthStatus
	switch {
	case stats.Count == 0:
		health = models.HealthStatus{Status: models.StatusCritical, Message: "No commodity data available"}
	case stats.ConfigCount > 0 && stats.Count*2 < stats.ConfigCount:
		health = models.HealthStatus{Status: models.StatusDegraded, Message: fmt.Sprintf("Only %d/%d commodities have data", stats.Count, stats.ConfigCount)}
	case age > commodityStaleThresholdMin:
		health = models.HealthStatus{Status: models.StatusDegraded, Message: fmt.Sprintf("Data is %d minutes old", age)}
	default:
		health = models.HealthStatus{Status: models.StatusHealthy, Message: "All commodity data fresh"}
	}

	return toDataHealth(stats, age, health)
}

// OverallStatus folds the four category statuses into one. Two or more
// critical categories make the whole system critical; any critical or
// two degraded categories make it degraded.
func OverallStatus(data models.HealthData) models.HealthStatus {
	statuses := []string{
		data.MarketIndices.Health.Status,
		data.CryptoCurrencies.Health.Status,
		data.Currencies.Health.Status,
		data.Commodities.Health.Status,
	}

	var criticalCount, degradedCount int
	for _, s := range statuses {
		switch s {
		case models.StatusCritical:
			criticalCount++
		case models.StatusDegraded:
			degradedCount++
		}
	}

	switch {
	case criticalCount >= 2:
		return models.HealthStatus{Status: models.StatusCritical, Message: "Multiple data sources are unavailable"}
	case criticalCount > 0 || degradedCount >= 2:
		return models.HealthStatus{Status: models.StatusDegraded, Message: "Some data sources need attention"}
	case degradedCount > 0:
		return models.HealthStatus{Status: models.StatusDegraded, Message: "Minor issues detected"}
	default:
		return models.HealthStatus{Status: models.StatusHealthy, Message: "All systems operational"}
	}
}
