// Package main provides the entry point for the talent query interpretation
// service and its companion CLI commands.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/talent-query/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "talent_query",
	Short: "Talent Query Interpretation Engine",
	Long:  "Talent Query turns free-text hiring queries into structured, machine-actionable requirement envelopes via CLI or REST API.",
}

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file with flag defaults")
}

// mergedConfig applies config file values as defaults for cfg. Flag values
// that were left at their zero value pick up the file's settings.
func mergedConfig(cfg config.Config) (config.Config, error) {
	if configPath == "" {
		merged := cfg.MergeWithDefaults(config.Config{})
		return merged, merged.Validate()
	}
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return config.Config{}, err
	}
	merged := cfg.MergeWithDefaults(*fileCfg)
	return merged, merged.Validate()
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
