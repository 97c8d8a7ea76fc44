package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/talent-query/internal/config"
	"github.com/jonathan/talent-query/internal/server"
)

var tokenCallerID string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Generate a JWT for the admin endpoints",
	Long:  "Generate a signed JWT for the authenticated admin endpoints (table reload, curation listing). Requires JWT_SECRET.",
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenCallerID, "caller-id", "", "Caller UUID to embed in the token (default: random)")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(_ *cobra.Command, _ []string) error {
	jwtCfg, err := config.NewJWTConfig()
	if err != nil {
		return fmt.Errorf("invalid JWT configuration: %w", err)
	}

	callerID := uuid.New()
	if tokenCallerID != "" {
		callerID, err = uuid.Parse(tokenCallerID)
		if err != nil {
			return fmt.Errorf("invalid --caller-id: %w", err)
		}
	}

	token, err := server.NewJWTService(jwtCfg).GenerateToken(callerID)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	fmt.Println(token)
	return nil
}
