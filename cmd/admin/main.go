package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/carmarket/internal/adapters/hasher"
	"github.com/vncsmyrnk/carmarket/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/carmarket/internal/config"
	"github.com/vncsmyrnk/carmarket/internal/core/domain"
	"github.com/vncsmyrnk/carmarket/internal/core/services"
)

var email string

var rootCmd = &cobra.Command{
	Use:           "admin",
	Short:         "Grant or revoke the admin role",
	Long:          "Role changes through the API require an existing admin. This tool is how the first one is created.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&email, "email", "", "email address of the user")
	_ = rootCmd.MarkPersistentFlagRequired("email")

	rootCmd.AddCommand(roleCommand("promote", "Make the user an admin", domain.RoleAdmin))
	rootCmd.AddCommand(roleCommand("demote", "Make the user a regular user", domain.RoleUser))
}

func roleCommand(use, short string, role domain.Role) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return setRole(cmd.Context(), email, role)
		},
	}
}

func setRole(ctx context.Context, email string, role domain.Role) error {
	cfg, err := config.LoadTooling()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	db, err := postgres.Open(ctx, cfg.Database.DSN(), 1)
	if err != nil {
		return err
	}
	defer db.Close()

	userService := services.NewUserService(postgres.NewPool(db), hasher.NewBcrypt(cfg.Auth.BcryptCost))
	user, err := userService.SetRole(ctx, email, role)
	if err != nil {
		return err
	}

	fmt.Printf("user %d (%s) is now %s\n", user.ID, email, user.Role)
	return nil
}

func main() {
	log, _ := zap.NewDevelopment()
	defer log.Sync()

	if err := rootCmd.Execute(); err != nil {
		log.Error("admin command failed", zap.Error(err))
		os.Exit(1)
	}
}
