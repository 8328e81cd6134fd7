package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/carmarket/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/carmarket/internal/config"
)

// gooseLogger routes goose output through zap.
type gooseLogger struct {
	*zap.SugaredLogger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.Infof(strings.TrimSuffix(format, "\n"), v...)
}

func migrateCommand(use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn, err := resolveDSN(dbURL)
			if err != nil {
				return err
			}

			db, err := postgres.Open(cmd.Context(), dsn, 1)
			if err != nil {
				return err
			}
			defer db.Close()

			log, err := zap.NewDevelopment()
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer log.Sync()

			return postgres.Migrate(cmd.Context(), db, use, gooseLogger{log.Sugar()})
		},
	}
}

// resolveDSN prefers the --db flag over the environment.
func resolveDSN(flagDSN string) (string, error) {
	if flagDSN != "" {
		return flagDSN, nil
	}
	cfg, err := config.LoadTooling()
	if err != nil {
		return "", err
	}
	return cfg.Database.DSN(), nil
}
