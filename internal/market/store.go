package market

import (
	"context"

	"github.com/lahaseshrikant/NewsTRNT-sub007/pkg/models"
)

// Store is the read interface over the scraper-fed cache. Implemented by
// database.MySQLClient; faked in tests.
type Store interface {
	IndicesByCountry(ctx context.Context, country string) ([]models.IndexRow, error)
	IndicesBySymbols(ctx context.Context, symbols []string) ([]models.IndexRow, error)
	IndexConfigs(ctx context.Context) ([]models.IndexConfig, error)
	Cryptocurrencies(ctx context.Context, limit int) ([]models.CryptoRow, error)
	CurrencyRates(ctx context.Context) ([]models.CurrencyRateRow, error)
	Commodities(ctx context.Context, category string) ([]models.CommodityRow, error)
}

// HealthStore is the read interface used by the health checker.
type HealthStore interface {
	IndexStats(ctx context.Context) (models.CategoryStats, error)
	CryptoStats(ctx context.Context) (models.CategoryStats, error)
	CurrencyStats(ctx context.Context) (models.CategoryStats, error)
	CommodityStats(ctx context.Context) (models.CategoryStats, error)
	RecentScraperRuns(ctx context.Context, limit int) ([]models.ScraperRun, error)
}
