package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/talent-query/internal/observability"
	"github.com/jonathan/talent-query/internal/tables"
)

var tablesDir string

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Inspect and validate lookup tables",
}

var tablesValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate lookup table files against their schemas",
	Long:  "Load the lookup tables, run schema and cross-reference validation, and report the result.",
	RunE:  runTablesValidate,
}

var tablesStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print counts for the loaded lookup tables",
	RunE:  runTablesStats,
}

func init() {
	tablesCmd.PersistentFlags().StringVar(&tablesDir, "dir", "", "Directory with lookup table JSON files (default: embedded tables)")
	tablesCmd.AddCommand(tablesValidateCmd)
	tablesCmd.AddCommand(tablesStatsCmd)
	rootCmd.AddCommand(tablesCmd)
}

func runTablesValidate(_ *cobra.Command, _ []string) error {
	tbl, err := tables.Load(tablesDir)
	if err != nil {
		return fmt.Errorf("table validation failed: %w", err)
	}

	stats := tbl.Stats()
	fmt.Printf("Tables are valid: %d categories, %d technologies, %d normalization entries, %d locations\n",
		stats.Categories, stats.Technologies, stats.NormalizationEntries, stats.Locations)
	return nil
}

func runTablesStats(_ *cobra.Command, _ []string) error {
	tbl, err := tables.Load(tablesDir)
	if err != nil {
		return fmt.Errorf("failed to load tables: %w", err)
	}

	observability.NewPrinter(os.Stdout).PrintTableStats(tbl.Stats())
	return nil
}
