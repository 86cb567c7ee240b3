package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "reliabot/docs"
)

var Version = "dev"

// @title           Reliabot API
// @version         1.0
// @description     Personal task reminders with streaks, weekly summaries and XP.

// @contact.name   reliabot
// @contact.url    https://github.com/reliabot/reliabot

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	rootCmd := &cobra.Command{
		Use:     "reliabot",
		Short:   "Reliabot - task reminders, streaks and XP",
		Version: Version,
		// Без подкоманды запускаем сервер
		RunE: runServe,
	}

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(tokenCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
