package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/talent-query/internal/config"
	"github.com/jonathan/talent-query/internal/server"
)

var (
	servePort      int
	serveTablesDir string
	serveWatch     bool
	serveRateLimit int
	serveModel     string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for parsing hiring queries and managing lookup tables.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default 8080)")
	serveCmd.Flags().StringVar(&serveTablesDir, "tables-dir", "", "Directory with lookup table JSON files (default: embedded tables)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Reload tables when the files change")
	serveCmd.Flags().IntVar(&serveRateLimit, "rate-limit", 0, "Requests per second per client (0 disables limiting)")
	serveCmd.Flags().StringVar(&serveModel, "gemini-model", "", "Gemini model for the LLM tagger")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := mergedConfig(config.Config{
		Port:        servePort,
		TablesDir:   serveTablesDir,
		WatchTables: serveWatch,
		RateLimit:   serveRateLimit,
		GeminiModel: serveModel,
	})
	if err != nil {
		return err
	}

	// Optional collaborators come from the environment
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}

	srvCfg := server.Config{
		Port:         cfg.Port,
		TablesDir:    cfg.TablesDir,
		WatchTables:  cfg.WatchTables,
		RateLimit:    cfg.RateLimit,
		DatabaseURL:  cfg.DatabaseURL,
		GeminiAPIKey: cfg.GeminiAPIKey,
		GeminiModel:  cfg.GeminiModel,
	}

	// Admin endpoints are open unless a JWT secret is configured
	if os.Getenv("JWT_SECRET") != "" {
		jwtCfg, err := config.NewJWTConfig()
		if err != nil {
			return fmt.Errorf("invalid JWT configuration: %w", err)
		}
		srvCfg.JWT = jwtCfg
	}

	srv, err := server.New(srvCfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
