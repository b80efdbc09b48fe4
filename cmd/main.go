package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	httpadapter "clicktrack/internal/adapter/http"
	"clicktrack/internal/adapter/postgres"
	"clicktrack/internal/adapter/usecase"
	"clicktrack/internal/config"
	"clicktrack/internal/db"
	"clicktrack/internal/ratelimit"
)

// main is the entry point of the clicktrack service. It loads configuration,
// optionally runs database migrations, initializes the database pool, rate
// limiter and tracking pipeline, then starts the HTTP server and the daily
// retention sweep. On receiving a termination signal it gracefully shuts
// down the server.
func main() {
	exitCode := 1
	defer func() {
		if r := recover(); r != nil {
			panic(r)
		} else {
			os.Exit(exitCode)
		}
	}()

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	var logger *slog.Logger
	{
		// Initialise structured logger based on configuration.
		var handler slog.Handler
		level := cfg.Log.SlogLevel()
		out := cfg.Log.Writer()
		switch cfg.Log.SlogFormat() {
		case "json":
			handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
		default:
			handler = slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
		}
		logger = slog.New(handler)
	}

	// Optionally run migrations if configured. We use the Psql sub-config.
	if cfg.Psql.RunMigrations {
		if err = db.Migrate(cfg.Psql.Addr.String()); err != nil {
			logger.Error("migration error", slog.Any("error", err))
		} else {
			logger.Info("migrations applied successfully")
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.Psql)
	if err != nil {
		logger.Error("database connection error", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	limiter := ratelimit.New(cfg.Tracking.LimiterSize, cfg.Tracking.RateWindow)
	repo := postgres.NewClickRepository(pool)
	svc := usecase.NewTrackingUseCase(repo, limiter, cfg.Tracking.RateLimit)

	// Daily sweep removing click records outside the retention horizon.
	if cfg.Tracking.RetentionDays > 0 {
		retention := time.Duration(cfg.Tracking.RetentionDays) * 24 * time.Hour
		go func() {
			ticker := time.NewTicker(24 * time.Hour)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					run := uuid.NewString()
					sweepCtx, sweepCancel := context.WithTimeout(ctx, time.Minute)
					removed, err := svc.Cleanup(sweepCtx, retention)
					sweepCancel()
					if err != nil {
						logger.Error("retention sweep failed",
							slog.String("run", run), slog.Any("error", err))
						continue
					}
					logger.Info("retention sweep complete",
						slog.String("run", run), slog.Int64("removed", removed))
				}
			}
		}()
	}

	handler := httpadapter.NewHandler(svc, logger, cfg.Tracking.TrackTimeout)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler: handler.Router(),
	}

	go func() {
		logger.Info("server listening", slog.Int("port", int(cfg.HTTP.Port)))
		if err = srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	value := <-quit
	exitCode = 128 + int(value.(syscall.Signal))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	} else {
		logger.Info("server gracefully stopped")
	}
}
