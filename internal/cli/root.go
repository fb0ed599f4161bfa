// Package cli wires the stormreport commands: a one-shot report run and
// a long-lived HTTP serving mode.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/storm-damage-report/internal/config"
	"github.com/couchcryptid/storm-damage-report/internal/observability"
)

var (
	cfgFile     string
	verbose     bool
	dataSource  string
	vocabSource string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "stormreport",
	Short: "Stormreport - severe weather damage reports from NOAA storm data",
	Long: `Stormreport loads the NOAA storm events bulk dataset, normalizes its
free-text event type labels against an ordered vocabulary, resolves the
coded damage magnitudes into dollar amounts, and aggregates the result
into population health and economic damage summaries.

Run "stormreport report" for a one-shot report, or "stormreport serve"
to expose the aggregations over HTTP.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("stormreport v0.3.0")
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: env vars and built-in defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&dataSource, "data", "", "storm dataset path or URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&vocabSource, "vocab", "", "vocabulary CSV path or URL (overrides config)")

	rootCmd.AddCommand(versionCmd)
}

// loadConfig builds the effective configuration and a logger from the
// config file, environment, and flag overrides.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile, func(cfg *config.Config) {
		if dataSource != "" {
			cfg.DataSource = dataSource
		}
		if vocabSource != "" {
			cfg.VocabSource = vocabSource
		}
		if verbose {
			cfg.LogLevel = "debug"
		}
	})
	if err != nil {
		return nil, nil, err
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	return cfg, logger, nil
}
