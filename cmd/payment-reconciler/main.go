package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/job-marketplace/internal/app/reconciler"
	"github.com/magabrotheeeer/job-marketplace/internal/config"
	"github.com/magabrotheeeer/job-marketplace/internal/lib/logger"
	"github.com/magabrotheeeer/job-marketplace/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env).With(slog.String("service", "payment-reconciler"))

	if err := run(cfg, log); err != nil {
		log.Error("payment reconciler exited", sl.Err(err))
		os.Exit(1)
	}
	log.Info("payment reconciler stopped")
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting payment reconciler",
		slog.String("env", cfg.Env),
		slog.Duration("interval", cfg.ReconcileInterval),
		slog.Duration("pending_min_age", cfg.PendingMinAge))
	app, err := reconciler.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	return app.Run(ctx)
}
