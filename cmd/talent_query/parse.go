package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/talent-query/internal/config"
	"github.com/jonathan/talent-query/internal/observability"
	"github.com/jonathan/talent-query/internal/parser"
	"github.com/jonathan/talent-query/internal/tables"
	"github.com/jonathan/talent-query/internal/tagger"
)

var (
	parseTablesDir string
	parseUseLLM    bool
	parseModel     string
	parseVerbose   bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [query]",
	Short: "Parse one hiring query into a structured requirement envelope",
	Long:  "Parse a free-text hiring query and print the structured requirement envelope as JSON.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().StringVar(&parseTablesDir, "tables-dir", "", "Directory with lookup table JSON files (default: embedded tables)")
	parseCmd.Flags().BoolVar(&parseUseLLM, "llm", false, "Use the LLM tagger (requires GEMINI_API_KEY)")
	parseCmd.Flags().StringVar(&parseModel, "gemini-model", "", "Gemini model for the LLM tagger")
	parseCmd.Flags().BoolVarP(&parseVerbose, "verbose", "v", false, "Print a human-readable summary to stderr")
	rootCmd.AddCommand(parseCmd)
}

func runParse(_ *cobra.Command, args []string) error {
	cfg, err := mergedConfig(config.Config{
		TablesDir:   parseTablesDir,
		GeminiModel: parseModel,
		Verbose:     parseVerbose,
	})
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	ctx := context.Background()

	p, cleanup, err := buildParser(ctx, cfg, parseUseLLM)
	if err != nil {
		return err
	}
	defer cleanup()

	env := p.Parse(ctx, query)

	if cfg.Verbose || parseVerbose {
		printer := observability.NewPrinter(os.Stderr)
		printer.PrintEnvelope(env)
		printer.PrintAppliedFilters(env)
	}

	out, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// buildParser assembles a parser for CLI use. The returned cleanup releases
// the LLM client when one was created.
func buildParser(ctx context.Context, cfg config.Config, useLLM bool) (*parser.Parser, func(), error) {
	store, err := tables.NewStore(cfg.TablesDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load tables: %w", err)
	}

	parserCfg := parser.Config{Store: store}
	cleanup := func() {}

	if useLLM {
		apiKey := cfg.GeminiAPIKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			return nil, nil, fmt.Errorf("--llm requires GEMINI_API_KEY (environment or config file)")
		}
		llm, err := tagger.NewGemini(ctx, apiKey, cfg.GeminiModel)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create LLM tagger: %w", err)
		}
		parserCfg.LLM = llm
		cleanup = func() {
			if err := llm.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close LLM client: %v\n", err)
			}
		}
	}

	return parser.New(parserCfg), cleanup, nil
}
