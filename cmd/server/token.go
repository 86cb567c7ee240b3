package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"reliabot/internal/auth"
	"reliabot/internal/config"
)

var tokenTTL time.Duration

var tokenCmd = &cobra.Command{
	Use:   "token [user_id]",
	Short: "Issue a session token for a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (defaults to JWT_EXPIRY_HOURS)")
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	ttl := tokenTTL
	if ttl <= 0 {
		ttl = cfg.JWTExpiry
	}

	tok, err := auth.GenerateToken(cfg.JWTSecret, args[0], ttl)
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), tok)
	return nil
}
