package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/job-marketplace/internal/app/sender"
	"github.com/magabrotheeeer/job-marketplace/internal/config"
	"github.com/magabrotheeeer/job-marketplace/internal/lib/logger"
	"github.com/magabrotheeeer/job-marketplace/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env).With(slog.String("service", "notification-sender"))

	if err := run(cfg, log); err != nil {
		log.Error("notification sender exited", sl.Err(err))
		os.Exit(1)
	}
	log.Info("notification sender stopped")
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting notification sender", slog.String("env", cfg.Env), slog.String("smtp_host", cfg.SMTPHost))
	app, err := sender.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	return app.Run(ctx)
}
