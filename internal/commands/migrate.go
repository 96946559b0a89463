package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lahaseshrikant/NewsTRNT-sub007/internal/database"
	"github.com/lahaseshrikant/NewsTRNT-sub007/pkg/config"
	"github.com/lahaseshrikant/NewsTRNT-sub007/pkg/logger"
)

// migrateCmd applies the database schema
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long: `Create the market data and configuration tables if they do not exist.

The data tables (market_indices, cryptocurrencies, currency_rates,
commodities, scraper_runs) are written by the external scraper; the
config tables define what the scrapers collect. All statements are
idempotent, so running migrate repeatedly is safe.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Printf("Note: .env file not loaded: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	mysqlDB, err := database.NewMySQLClient(&cfg.MySQL, log)
	if err != nil {
		return fmt.Errorf("failed to connect to MySQL: %w", err)
	}
	defer mysqlDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := mysqlDB.RunMigrations(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Println("Migrations applied successfully")
	return nil
}
