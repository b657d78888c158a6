// Package main Job Marketplace API
//
// @title        Job Marketplace API
// @version      1.0
// @description  API двустороннего маркетплейса работ: вакансии, отклики, заявки на найм и оплату
//
// @host      localhost:8080
// @BasePath  /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer <jwt>. The same token is also accepted from the jwt cookie set by login.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/magabrotheeeer/job-marketplace/docs"
	"github.com/magabrotheeeer/job-marketplace/internal/app/marketplace"
	"github.com/magabrotheeeer/job-marketplace/internal/config"
	"github.com/magabrotheeeer/job-marketplace/internal/lib/logger"
	"github.com/magabrotheeeer/job-marketplace/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env).With(slog.String("service", "marketplace"))

	if err := run(cfg, log); err != nil {
		log.Error("marketplace exited", sl.Err(err))
		os.Exit(1)
	}
	log.Info("marketplace stopped")
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting marketplace", slog.String("env", cfg.Env), slog.String("address", cfg.AddressHTTP))
	app, err := marketplace.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
