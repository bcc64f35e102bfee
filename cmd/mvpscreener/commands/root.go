package commands

import (
	"os"

	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "mvpscreener",
	Short: "Daily Momentum/Volume/Price stock screen",
	Long: `mvpscreener screens the last 15 trading days of every stock in the price store
and reports the symbols with at least 12 up days, 25% volume growth and 20% price growth.

Examples:
  mvpscreener run
  mvpscreener run --dry-run
  mvpscreener start
  mvpscreener seed prices.csv`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	defaultPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultPath = v
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", defaultPath, "config file")
}
