package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reliabot/internal/config"
	"reliabot/internal/repository"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down]",
	Short: "Apply or revert the postgres schema migrations",
	Long: `Apply or revert the embedded SQL migrations against the postgres
database configured by DB_HOST, DB_PORT, DB_USER, DB_PASSWORD and DB_NAME.

Examples:
  reliabot migrate
  reliabot migrate down`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"up", "down"},
	RunE:      runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	direction := "up"
	if len(args) == 1 {
		direction = args[0]
	}
	if direction != "up" && direction != "down" {
		return fmt.Errorf("unknown direction %q, want up or down", direction)
	}

	cfg := config.Load()
	if cfg.Storage != config.StoragePostgres {
		return fmt.Errorf("migrations apply to postgres only, STORAGE is %q", cfg.Storage)
	}

	if err := repository.Migrate(cfg.PostgresURL(), direction == "down"); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "migrations %s: done\n", direction)
	return nil
}
