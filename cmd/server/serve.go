package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reliabot/internal/config"
	"reliabot/internal/logging"
	"reliabot/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the check-in scheduler",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	s, err := server.Init(cfg, logger)
	if err != nil {
		return fmt.Errorf("server initialization failed: %w", err)
	}

	return s.Run()
}
