package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lahaseshrikant/NewsTRNT-sub007/internal/database"
	"github.com/lahaseshrikant/NewsTRNT-sub007/internal/market"
	"github.com/lahaseshrikant/NewsTRNT-sub007/pkg/config"
	"github.com/lahaseshrikant/NewsTRNT-sub007/pkg/logger"
	"github.com/lahaseshrikant/NewsTRNT-sub007/pkg/models"
)

// healthCmd checks data freshness from the command line
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check market data freshness",
	Long: `Run the data freshness health check directly against MySQL and
print the report as JSON. Exits non-zero when overall status is
critical, making it usable from deployment checks.`,
	RunE: runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(); err != nil && verbose {
		fmt.Printf("Note: .env file not loaded: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Keep CLI output clean unless asked for more
	if !verbose {
		cfg.Logging.Level = "error"
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	checker := market.NewChecker(mysqlDB, log)
	report, err := checker.Report(ctx)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return err
	}

	if report.Overall.Status == models.StatusCritical {
		os.Exit(1)
	}
	return nil
}
