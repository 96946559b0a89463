package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"

	"github.com/lahaseshrikant/NewsTRNT-sub007/pkg/config"
	"github.com/lahaseshrikant/NewsTRNT-sub007/pkg/models"
)

// MySQLClient reads the scraper-fed market data cache. All writes to
// these tables are performed by the external scraper; this layer is
// read-only apart from schema migration.
type MySQLClient struct {
	db     *sql.DB
	logger *logrus.Entry
	cfg    *config.MySQLConfig
}

// NewMySQLClient creates a new MySQL client
func NewMySQLClient(cfg *config.MySQLConfig, logger *logrus.Logger) (*MySQLClient, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&multiStatements=true",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
	)

	logger.WithField("dsn", fmt.Sprintf("%s:***@tcp(%s:%d)/%s", cfg.User, cfg.Host, cfg.Port, cfg.Database)).Debug("Connecting to MySQL")

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	return &MySQLClient{
		db:     db,
		logger: logger.WithField("component", "mysql"),
		cfg:    cfg,
	}, nil
}

// Close closes the database connection
func (mc *MySQLClient) Close() error {
	return mc.db.Close()
}

// Health checks database health
func (mc *MySQLClient) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return mc.db.PingContext(ctx)
}

// Index operations

const indexColumns = `id, symbol, name, value, previous_close, change_abs, change_percent,
	       currency, country, is_stale, last_updated`

func (mc *MySQLClient) scanIndexRows(rows *sql.Rows) ([]models.IndexRow, error) {
	var out []models.IndexRow
	for rows.Next() {
		var row models.IndexRow
		err := rows.Scan(
			&row.ID,
			&row.Symbol,
			&row.Name,
			&row.Value,
			&row.PreviousClose,
			&row.Change,
			&row.ChangePercent,
			&row.Currency,
			&row.Country,
			&row.IsStale,
			&row.LastUpdated,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan index row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// IndicesByCountry retrieves index rows local to a country
func (mc *MySQLClient) IndicesByCountry(ctx context.Context, country string) ([]models.IndexRow, error) {
	query := `
		SELECT ` + indexColumns + `
		FROM market_indices
		WHERE UPPER(country) = UPPER(?)
		ORDER BY symbol
	`

	rows, err := mc.db.QueryContext(ctx, query, country)
	if err != nil {
		return nil, fmt.Errorf("failed to query indices by country: %w", err)
	}
	defer rows.Close()

	return mc.scanIndexRows(rows)
}

// IndicesBySymbols retrieves index rows for an explicit symbol set
func (mc *MySQLClient) IndicesBySymbols(ctx context.Context, symbols []string) ([]models.IndexRow, error) {
	if len(symbols) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(symbols))
	placeholders = placeholders[:len(placeholders)-1]

	query := `
		SELECT ` + indexColumns + `
		FROM market_indices
		WHERE symbol IN (` + placeholders + `)
		ORDER BY symbol
	`

	args := make([]interface{}, len(symbols))
	for i, s := range symbols {
		args[i] = s
	}

	rows, err := mc.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query indices by symbols: %w", err)
	}
	defer rows.Close()

	return mc.scanIndexRows(rows)
}

// AllIndices retrieves every cached index row
func (mc *MySQLClient) AllIndices(ctx context.Context) ([]models.IndexRow, error) {
	query := `
		SELECT ` + indexColumns + `
		FROM market_indices
		ORDER BY symbol
	`

	rows, err := mc.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query indices: %w", err)
	}
	defer rows.Close()

	return mc.scanIndexRows(rows)
}

// Cryptocurrency operations

// Cryptocurrencies retrieves cached crypto rows ordered by market cap
func (mc *MySQLClient) Cryptocurrencies(ctx context.Context, limit int) ([]models.CryptoRow, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, symbol, name, value_usd, market_cap, rank_position,
		       change_24h, change_percent_24h, is_stale, last_updated
		FROM cryptocurrencies
		ORDER BY market_cap DESC
		LIMIT ?
	`

	rows, err := mc.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query cryptocurrencies: %w", err)
	}
	defer rows.Close()

	var out []models.CryptoRow
	for rows.Next() {
		var row models.CryptoRow
		err := rows.Scan(
			&row.ID,
			&row.Symbol,
			&row.Name,
			&row.ValueUSD,
			&row.MarketCap,
			&row.Rank,
			&row.Change24h,
			&row.ChangePercent24h,
			&row.IsStale,
			&row.LastUpdated,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan crypto row: %w", err)
		}
		out = append(out, row)
	}

	return out, rows.Err()
}

// Currency operations

// CurrencyRates retrieves all cached currency rates
func (mc *MySQLClient) CurrencyRates(ctx context.Context) ([]models.CurrencyRateRow, error) {
	query := `
		SELECT id, currency, rate_to_usd, change_abs, is_stale, last_updated
		FROM currency_rates
		ORDER BY currency
	`

	rows, err := mc.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query currency rates: %w", err)
	}
	defer rows.Close()

	var out []models.CurrencyRateRow
	for rows.Next() {
		var row models.CurrencyRateRow
		err := rows.Scan(
			&row.ID,
			&row.Currency,
			&row.RateToUSD,
			&row.Change,
			&row.IsStale,
			&row.LastUpdated,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan currency rate: %w", err)
		}
		out = append(out, row)
	}

	return out, rows.Err()
}

// CurrencyRate retrieves a single currency rate
func (mc *MySQLClient) CurrencyRate(ctx context.Context, currency string) (*models.CurrencyRateRow, error) {
	query := `
		SELECT id, currency, rate_to_usd, change_abs, is_stale, last_updated
		FROM currency_rates
		WHERE currency = ?
	`

	var row models.CurrencyRateRow
	err := mc.db.QueryRowContext(ctx, query, currency).Scan(
		&row.ID,
		&row.Currency,
		&row.RateToUSD,
		&row.Change,
		&row.IsStale,
		&row.LastUpdated,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get currency rate: %w", err)
	}

	return &row, nil
}

// Commodity operations

// Commodities retrieves cached commodity rows, optionally by category
func (mc *MySQLClient) Commodities(ctx context.Context, category string) ([]models.CommodityRow, error) {
	query := `
		SELECT id, symbol, name, value_usd, unit, category,
		       change_abs, change_percent, is_stale, last_updated
		FROM commodities
	`
	var args []interface{}
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY symbol`

	rows, err := mc.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query commodities: %w", err)
	}
	defer rows.Close()

	var out []models.CommodityRow
	for rows.Next() {
		var row models.CommodityRow
		err := rows.Scan(
			&row.ID,
			&row.Symbol,
			&row.Name,
			&row.ValueUSD,
			&row.Unit,
			&row.Category,
			&row.Change,
			&row.ChangePercent,
			&row.IsStale,
			&row.LastUpdated,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan commodity row: %w", err)
		}
		out = append(out, row)
	}

	return out, rows.Err()
}

// Config operations

// IndexConfigs retrieves active index configuration rows
func (mc *MySQLClient) IndexConfigs(ctx context.Context) ([]models.IndexConfig, error) {
	query := `
		SELECT id, symbol, name, country, currency, exchange, timezone,
		       is_active, is_global, sort_order
		FROM market_index_config
		WHERE is_active = 1
		ORDER BY country, sort_order
	`

	rows, err := mc.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query index configs: %w", err)
	}
	defer rows.Close()

	var out []models.IndexConfig
	for rows.Next() {
		var cfg models.IndexConfig
		err := rows.Scan(
			&cfg.ID,
			&cfg.Symbol,
			&cfg.Name,
			&cfg.Country,
			&cfg.Currency,
			&cfg.Exchange,
			&cfg.Timezone,
			&cfg.IsActive,
			&cfg.IsGlobal,
			&cfg.SortOrder,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan index config: %w", err)
		}
		out = append(out, cfg)
	}

	return out, rows.Err()
}

// CryptoConfigs retrieves active cryptocurrency configuration rows
func (mc *MySQLClient) CryptoConfigs(ctx context.Context) ([]models.CryptoConfig, error) {
	query := `
		SELECT id, symbol, name, coingecko_id, is_active, sort_order
		FROM cryptocurrency_config
		WHERE is_active = 1
		ORDER BY sort_order
	`

	rows, err := mc.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query crypto configs: %w", err)
	}
	defer rows.Close()

	var out []models.CryptoConfig
	for rows.Next() {
		var cfg models.CryptoConfig
		if err := rows.Scan(&cfg.ID, &cfg.Symbol, &cfg.Name, &cfg.CoinGeckoID, &cfg.IsActive, &cfg.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan crypto config: %w", err)
		}
		out = append(out, cfg)
	}

	return out, rows.Err()
}

// CommodityConfigs retrieves active commodity configuration rows
func (mc *MySQLClient) CommodityConfigs(ctx context.Context) ([]models.CommodityConfig, error) {
	query := `
		SELECT id, symbol, name, category, unit, currency, is_active, sort_order
		FROM commodity_config
		WHERE is_active = 1
		ORDER BY sort_order
	`

	rows, err := mc.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query commodity configs: %w", err)
	}
	defer rows.Close()

	var out []models.CommodityConfig
	for rows.Next() {
		var cfg models.CommodityConfig
		if err := rows.Scan(&cfg.ID, &cfg.Symbol, &cfg.Name, &cfg.Category, &cfg.Unit, &cfg.Currency, &cfg.IsActive, &cfg.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan commodity config: %w", err)
		}
		out = append(out, cfg)
	}

	return out, rows.Err()
}

// CurrencyPairConfigs retrieves active currency pair configuration rows
func (mc *MySQLClient) CurrencyPairConfigs(ctx context.Context) ([]models.CurrencyPairConfig, error) {
	query := `
		SELECT id, pair, name, base_currency, quote_currency, pair_type, is_active, sort_order
		FROM currency_pair_config
		WHERE is_active = 1
		ORDER BY sort_order
	`

	rows, err := mc.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query currency pair configs: %w", err)
	}
	defer rows.Close()

	var out []models.CurrencyPairConfig
	for rows.Next() {
		var cfg models.CurrencyPairConfig
		if err := rows.Scan(&cfg.ID, &cfg.Pair, &cfg.Name, &cfg.Base, &cfg.Quote, &cfg.Type, &cfg.IsActive, &cfg.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan currency pair config: %w", err)
		}
		out = append(out, cfg)
	}

	return out, rows.Err()
}

// Health stats operations

func (mc *MySQLClient) categoryStats(ctx context.Context, dataTable, configTable string) (models.CategoryStats, error) {
	var stats models.CategoryStats

	query := fmt.Sprintf(`
		SELECT COUNT(*),
		       COALESCE(SUM(is_stale), 0),
		       MIN(last_updated),
		       MAX(last_updated)
		FROM %s
	`, dataTable)

	var oldest, newest sql.NullTime
	if err := mc.db.QueryRowContext(ctx, query).Scan(&stats.Count, &stats.StaleCount, &oldest, &newest); err != nil {
		return stats, fmt.Errorf("failed to query %s stats: %w", dataTable, err)
	}
	if oldest.Valid {
		t := oldest.Time
		stats.OldestUpdate = &t
	}
	if newest.Valid {
		t := newest.Time
		stats.NewestUpdate = &t
	}

	if configTable != "" {
		configQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE is_active = 1`, configTable)
		if err := mc.db.QueryRowContext(ctx, configQuery).Scan(&stats.ConfigCount); err != nil {
			return stats, fmt.Errorf("failed to query %s count: %w", configTable, err)
		}
	}

	return stats, nil
}

// IndexStats returns freshness statistics for market indices
func (mc *MySQLClient) IndexStats(ctx context.Context) (models.CategoryStats, error) {
	return mc.categoryStats(ctx, "market_indices", "market_index_config")
}

// CryptoStats returns freshness statistics for cryptocurrencies
func (mc *MySQLClient) CryptoStats(ctx context.Context) (models.CategoryStats, error) {
	return mc.categoryStats(ctx, "cryptocurrencies", "cryptocurrency_config")
}

// CurrencyStats returns freshness statistics for currency rates
func (mc *MySQLClient) CurrencyStats(ctx context.Context) (models.CategoryStats, error) {
	return mc.categoryStats(ctx, "currency_rates", "currency_pair_config")
}

// CommodityStats returns freshness statistics for commodities
func (mc *MySQLClient) CommodityStats(ctx context.Context) (models.CategoryStats, error) {
	return mc.categoryStats(ctx, "commodities", "commodity_config")
}

// RecentScraperRuns retrieves the most recent scraper run records
func (mc *MySQLClient) RecentScraperRuns(ctx context.Context, limit int) ([]models.ScraperRun, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT id, scraper_name, data_type, status, started_at, completed_at,
		       items_found, items_inserted, items_failed, error_message
		FROM scraper_runs
		ORDER BY started_at DESC
		LIMIT ?
	`

	rows, err := mc.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query scraper runs: %w", err)
	}
	defer rows.Close()

	var out []models.ScraperRun
	for rows.Next() {
		var run models.ScraperRun
		var completed sql.NullTime
		var errMsg sql.NullString
		err := rows.Scan(
			&run.ID,
			&run.ScraperName,
			&run.DataType,
			&run.Status,
			&run.StartedAt,
			&completed,
			&run.ItemsFound,
			&run.ItemsInserted,
			&run.ItemsFailed,
			&errMsg,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scraper run: %w", err)
		}
		if completed.Valid {
			t := completed.Time
			run.CompletedAt = &t
		}
		if errMsg.Valid {
			s := errMsg.String
			run.ErrorMessage = &s
		}
		out = append(out, run)
	}

	return out, rows.Err()
}

// NewestUpdate returns the most recent last_updated across all four data
// tables, used by the staleness sweeper to detect fresh scrapes.
func (mc *MySQLClient) NewestUpdate(ctx context.Context) (*time.Time, error) {
	query := `
		SELECT MAX(t) FROM (
			SELECT MAX(last_updated) AS t FROM market_indices
			UNION ALL SELECT MAX(last_updated) FROM cryptocurrencies
			UNION ALL SELECT MAX(last_updated) FROM currency_rates
			UNION ALL SELECT MAX(last_updated) FROM commodities
		) AS updates
	`

	var newest sql.NullTime
	if err := mc.db.QueryRowContext(ctx, query).Scan(&newest); err != nil {
		return nil, fmt.Errorf("failed to query newest update: %w", err)
	}
	if !newest.Valid {
		return nil, nil
	}

	t := newest.Time
	return &t, nil
}
