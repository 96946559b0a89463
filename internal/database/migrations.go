package database

import (
	"context"
	"fmt"
	"strings"
)

// Schema for the scraper-fed cache. Data tables hold the latest row per
// instrument; config tables define what the scrapers should collect.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS market_indices (
		id INT AUTO_INCREMENT PRIMARY KEY,
		symbol VARCHAR(32) NOT NULL UNIQUE,
		name VARCHAR(128) NOT NULL,
		value DOUBLE NOT NULL,
		previous_close DOUBLE NOT NULL DEFAULT 0,
		change_abs DOUBLE NOT NULL DEFAULT 0,
		change_percent DOUBLE NOT NULL DEFAULT 0,
		currency VARCHAR(8) NOT NULL DEFAULT 'USD',
		country VARCHAR(8) NOT NULL,
		is_stale TINYINT(1) NOT NULL DEFAULT 0,
		last_updated TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_indices_country (country),
		INDEX idx_indices_updated (last_updated)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS cryptocurrencies (
		id INT AUTO_INCREMENT PRIMARY KEY,
		symbol VARCHAR(16) NOT NULL UNIQUE,
		name VARCHAR(64) NOT NULL,
		value_usd DOUBLE NOT NULL,
		market_cap DOUBLE NOT NULL DEFAULT 0,
		rank_position INT NOT NULL DEFAULT 0,
		change_24h DOUBLE NOT NULL DEFAULT 0,
		change_percent_24h DOUBLE NOT NULL DEFAULT 0,
		is_stale TINYINT(1) NOT NULL DEFAULT 0,
		last_updated TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_crypto_mcap (market_cap),
		INDEX idx_crypto_updated (last_updated)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS currency_rates (
		id INT AUTO_INCREMENT PRIMARY KEY,
		currency VARCHAR(8) NOT NULL UNIQUE,
		rate_to_usd DOUBLE NOT NULL,
		change_abs DOUBLE NOT NULL DEFAULT 0,
		is_stale TINYINT(1) NOT NULL DEFAULT 0,
		last_updated TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_rates_updated (last_updated)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS commodities (
		id INT AUTO_INCREMENT PRIMARY KEY,
		symbol VARCHAR(16) NOT NULL UNIQUE,
		name VARCHAR(64) NOT NULL,
		value_usd DOUBLE NOT NULL,
		unit VARCHAR(32) NOT NULL DEFAULT '',
		category VARCHAR(32) NOT NULL DEFAULT '',
		change_abs DOUBLE NOT NULL DEFAULT 0,
		change_percent DOUBLE NOT NULL DEFAULT 0,
		is_stale TINYINT(1) NOT NULL DEFAULT 0,
		last_updated TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_commodities_category (category),
		INDEX idx_commodities_updated (last_updated)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS market_index_config (
		id INT AUTO_INCREMENT PRIMARY KEY,
		symbol VARCHAR(32) NOT NULL UNIQUE,
		name VARCHAR(128) NOT NULL,
		country VARCHAR(8) NOT NULL,
		currency VARCHAR(8) NOT NULL DEFAULT 'USD',
		exchange VARCHAR(64) NOT NULL DEFAULT '',
		timezone VARCHAR(64) NOT NULL DEFAULT 'UTC',
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		is_global TINYINT(1) NOT NULL DEFAULT 0,
		sort_order INT NOT NULL DEFAULT 0,
		INDEX idx_index_config_country (country)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS cryptocurrency_config (
		id INT AUTO_INCREMENT PRIMARY KEY,
		symbol VARCHAR(16) NOT NULL UNIQUE,
		name VARCHAR(64) NOT NULL,
		coingecko_id VARCHAR(64) NOT NULL DEFAULT '',
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		sort_order INT NOT NULL DEFAULT 0
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS commodity_config (
		id INT AUTO_INCREMENT PRIMARY KEY,
		symbol VARCHAR(16) NOT NULL UNIQUE,
		name VARCHAR(64) NOT NULL,
		category VARCHAR(32) NOT NULL DEFAULT '',
		unit VARCHAR(32) NOT NULL DEFAULT '',
		currency VARCHAR(8) NOT NULL DEFAULT 'USD',
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		sort_order INT NOT NULL DEFAULT 0
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS currency_pair_config (
		id INT AUTO_INCREMENT PRIMARY KEY,
		pair VARCHAR(16) NOT NULL UNIQUE,
		name VARCHAR(64) NOT NULL,
		base_currency VARCHAR(8) NOT NULL,
		quote_currency VARCHAR(8) NOT NULL,
		pair_type VARCHAR(16) NOT NULL DEFAULT 'fiat',
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		sort_order INT NOT NULL DEFAULT 0
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS scraper_runs (
		id INT AUTO_INCREMENT PRIMARY KEY,
		scraper_name VARCHAR(64) NOT NULL,
		data_type VARCHAR(32) NOT NULL,
		status VARCHAR(16) NOT NULL,
		started_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		completed_at TIMESTAMP NULL,
		items_found INT NOT NULL DEFAULT 0,
		items_inserted INT NOT NULL DEFAULT 0,
		items_failed INT NOT NULL DEFAULT 0,
		error_message TEXT,
		INDEX idx_runs_started (started_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// RunMigrations applies the schema. Statements are idempotent so this is
// safe to run on every deploy.
func (mc *MySQLClient) RunMigrations(ctx context.Context) error {
	for _, stmt := range migrations {
		if _, err := mc.db.ExecContext(ctx, stmt); err != nil {
			name := tableName(stmt)
			return fmt.Errorf("migration for %s failed: %w", name, err)
		}
	}

	mc.logger.WithField("tables", len(migrations)).Info("Database migrations applied")
	return nil
}

func tableName(stmt string) string {
	const marker = "IF NOT EXISTS "
	i := strings.Index(stmt, marker)
	if i < 0 {
		return "unknown"
	}
	rest := stmt[i+len(marker):]
	if j := strings.IndexAny(rest, " (\n"); j > 0 {
		return rest[:j]
	}
	return rest
}
