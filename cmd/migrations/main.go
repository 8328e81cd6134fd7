package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var dbURL string

var rootCmd = &cobra.Command{
	Use:           "migrations",
	Short:         "Manage the carmarket database schema",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "database URL (default: DATABASE_URL or POSTGRES_* variables)")

	for _, command := range []struct{ use, short string }{
		{"up", "Apply all pending migrations"},
		{"down", "Roll back the most recent migration"},
		{"status", "Show applied and pending migrations"},
	} {
		rootCmd.AddCommand(migrateCommand(command.use, command.short))
	}
}

func main() {
	log, _ := zap.NewDevelopment()
	defer log.Sync()

	if err := rootCmd.Execute(); err != nil {
		log.Error("migration failed", zap.Error(err))
		os.Exit(1)
	}
}
