package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/talent-query/internal/config"
	"github.com/jonathan/talent-query/internal/types"
)

var (
	batchInputFile  string
	batchOutputFile string
	batchTablesDir  string
	batchWorkers    int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Parse many queries from a file",
	Long:  "Read one query per line from a file, parse them concurrently and write a JSON array of requirement envelopes.",
	RunE:  runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchInputFile, "in", "i", "", "Path to file with one query per line (required)")
	batchCmd.Flags().StringVarP(&batchOutputFile, "out", "o", "", "Path to output JSON file (default: stdout)")
	batchCmd.Flags().StringVar(&batchTablesDir, "tables-dir", "", "Directory with lookup table JSON files (default: embedded tables)")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 8, "Number of concurrent parses")
	_ = batchCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(_ *cobra.Command, _ []string) error {
	cfg, err := mergedConfig(config.Config{TablesDir: batchTablesDir})
	if err != nil {
		return err
	}
	if batchWorkers < 1 {
		return fmt.Errorf("--workers must be at least 1")
	}

	queries, err := readQueries(batchInputFile)
	if err != nil {
		return err
	}
	if len(queries) == 0 {
		return fmt.Errorf("no queries found in %s", batchInputFile)
	}

	ctx := context.Background()
	p, cleanup, err := buildParser(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer cleanup()

	results := make([]*types.ParseEnvelope, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchWorkers)
	for i, q := range queries {
		g.Go(func() error {
			results[i] = p.Parse(gctx, q)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	if batchOutputFile == "" {
		fmt.Println(string(out))
		return nil
	}
	if err := os.WriteFile(batchOutputFile, append(out, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Parsed %d queries\n", len(queries))
	fmt.Fprintf(os.Stderr, "Output: %s\n", batchOutputFile)
	return nil
}

// readQueries loads non-empty lines from path. Blank lines and lines starting
// with '#' are skipped.
func readQueries(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	var queries []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		queries = append(queries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return queries, nil
}
