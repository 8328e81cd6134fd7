package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/carmarket/internal/adapters/handler/http"
	"github.com/vncsmyrnk/carmarket/internal/adapters/hasher"
	"github.com/vncsmyrnk/carmarket/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/carmarket/internal/adapters/token"
	"github.com/vncsmyrnk/carmarket/internal/config"
	"github.com/vncsmyrnk/carmarket/internal/core/services"
	"github.com/vncsmyrnk/carmarket/internal/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zlog, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer zlog.Sync()
	zap.ReplaceGlobals(zlog)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.Database.DSN(), cfg.Database.MaxOpenConns)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	pool := postgres.NewPool(db)
	bcrypt := hasher.NewBcrypt(cfg.Auth.BcryptCost)
	tokens := token.NewIssuer(cfg.Auth)

	carService := services.NewCarService(pool)
	userService := services.NewUserService(pool, bcrypt)
	authService := services.NewAuthService(pool, bcrypt, tokens)

	cookies := http.CookieConfig{
		Secure:     cfg.IsProduction(),
		AccessTTL:  cfg.Auth.AccessTTL,
		RefreshTTL: cfg.Auth.RefreshTTL,
	}

	handler := http.NewHandler(
		http.NewCarHandler(carService),
		http.NewUserHandler(userService, carService),
		http.NewAuthHandler(authService, cookies),
		http.NewHealthHandler(pool),
		tokens,
		zlog,
		[]string{cfg.Server.ClientOrigin},
	)

	server := &stdhttp.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zlog.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Fatal("shutdown failed", zap.Error(err))
	}
}
