// Package main is the entry point for the ZeroMovies server. It loads
// configuration, opens the record store and Redis, seeds the default
// administrator, and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/keyxmakerx/zeromovies/internal/app"
	"github.com/keyxmakerx/zeromovies/internal/config"
	"github.com/keyxmakerx/zeromovies/internal/database"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	// --- Load Configuration ---
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	setupLogging(cfg)

	slog.Info("starting ZeroMovies",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
		slog.String("store", cfg.Store.Backend),
	)

	// --- Open Record Store ---
	stores, err := app.OpenStores(cfg)
	if err != nil {
		return err
	}

	// --- Connect to Redis ---
	rdb, err := database.NewRedis(cfg.Redis)
	if err != nil {
		stores.Close()
		return err
	}
	slog.Info("connected to Redis")

	// --- Create Application ---
	application, err := app.New(cfg, stores, rdb)
	if err != nil {
		stores.Close()
		rdb.Close()
		return err
	}
	defer application.Close()

	bootCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = application.Bootstrap(bootCtx)
	cancel()
	if err != nil {
		return err
	}

	application.RegisterRoutes()

	// --- Graceful Shutdown ---
	// Listen for interrupt/term signals to drain connections cleanly.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		slog.Info("shutting down server...")

		// Give in-flight requests 10 seconds to complete.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := application.Echo.Shutdown(ctx); err != nil {
			slog.Error("server forced shutdown", slog.Any("error", err))
		}
	}()

	// --- Start Server ---
	if err := application.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	slog.Info("server stopped")
	return nil
}

// setupLogging configures the global slog logger. Development uses text
// format for readability; everything else uses JSON. The level comes from
// LOG_LEVEL.
func setupLogging(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	var handler slog.Handler
	if cfg.IsDevelopment() {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
