package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "market-back",
	Short: "Market Data Aggregation Backend",
	Long: `A market data aggregation backend built with Go.

Serves per-country market snapshots assembled from a scraper-fed cache:
• Priority-ordered index lists (local, global popular, regional)
• Currency rebasing so displayed pairs use the requester's currency
• Crypto and commodity values converted into local currency
• Market-hours-aware response caching in Redis
• Data freshness health reporting across all categories`,
	Version: "1.0.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
