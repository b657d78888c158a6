// Package reconciler собирает фоновый процесс сверки зависших платежей.
package reconciler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/job-marketplace/internal/config"
	"github.com/magabrotheeeer/job-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/job-marketplace/internal/metrics"
	"github.com/magabrotheeeer/job-marketplace/internal/paymentprovider"
	"github.com/magabrotheeeer/job-marketplace/internal/rabbitmq"
	"github.com/magabrotheeeer/job-marketplace/internal/services/notification"
	paymentservice "github.com/magabrotheeeer/job-marketplace/internal/services/payments"
	reconcilerservice "github.com/magabrotheeeer/job-marketplace/internal/services/reconciler"
	"github.com/magabrotheeeer/job-marketplace/internal/storage/repository"
)

// App представляет приложение сверки.
type App struct {
	schedulerService *reconcilerservice.SchedulerService
	db               *repository.Storage
	conn             *amqp.Connection
	ch               *amqp.Channel
	logger           *slog.Logger
}

func waitForDB(ctx context.Context, db *repository.Storage) error {
	var err error
	for range 10 {
		if err = db.Ping(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(3 * time.Second):
		}
	}
	return fmt.Errorf("database not ready after retries: %w", err)
}

// New создает новый экземпляр приложения сверки.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		closeResources(nil, conn, nil, logger)
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		closeResources(ch, conn, nil, logger)
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}

	if err := waitForDB(ctx, db); err != nil {
		closeResources(ch, conn, db, logger)
		return nil, err
	}
	if err := repository.CheckDatabaseReady(ctx, db); err != nil {
		closeResources(ch, conn, db, logger)
		return nil, fmt.Errorf("storage is not ready: %w", err)
	}

	notifier := notification.New(logger, rabbitmq.NewPublisher(ch), db, cfg.FrontendURL)
	gateway := paymentprovider.NewClient(cfg.GatewayBaseURL, cfg.GatewaySecret, cfg.GatewayTimeout)
	payments := paymentservice.New(logger, db, gateway, notifier, metrics.Noop(),
		cfg.Gateway, cfg.Subscription)

	schedulerService := reconcilerservice.NewSchedulerService(db, payments, logger, reconcilerservice.Options{
		Interval: cfg.ReconcileInterval,
		MinAge:   cfg.PendingMinAge,
		Batch:    cfg.ReconcileBatch,
	})

	return &App{
		schedulerService: schedulerService,
		db:               db,
		conn:             conn,
		ch:               ch,
		logger:           logger,
	}, nil
}

func closeResources(ch *amqp.Channel, conn *amqp.Connection, db *repository.Storage, logger *slog.Logger) {
	if ch != nil {
		if err := ch.Close(); err != nil {
			logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close connection", sl.Err(err))
		}
	}
	if db != nil {
		if err := db.Close(); err != nil {
			logger.Error("failed to close storage", sl.Err(err))
		}
	}
}

// Run запускает сверку и блокируется до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	a.schedulerService.Run(ctx)

	a.logger.Info("shutting down reconciler service")
	closeResources(a.ch, a.conn, a.db, a.logger)
	return nil
}
