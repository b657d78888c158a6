// Package sender собирает воркер рассылки: слушает очереди уведомлений
// и отправляет письма через SMTP.
package sender

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/job-marketplace/internal/config"
	"github.com/magabrotheeeer/job-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/job-marketplace/internal/lib/smtp"
	"github.com/magabrotheeeer/job-marketplace/internal/rabbitmq"
	senderservice "github.com/magabrotheeeer/job-marketplace/internal/services/sender"
)

// ErrBrokerClosed возвращается из Run, если брокер закрыл соединение.
var ErrBrokerClosed = errors.New("broker connection closed")

// App держит соединение с брокером и сервис отправки писем.
type App struct {
	conn    *amqp.Connection
	ch      *amqp.Channel
	queues  []rabbitmq.QueueConfig
	handler func([]byte) error
	log     *slog.Logger
}

func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	const op = "app.sender.New"

	conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	queues := rabbitmq.GetNotificationQueues()
	ch, err := rabbitmq.SetupChannel(conn, queues)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	mails := senderservice.NewSenderService(log, smtp.NewTransport(cfg.SMTP))
	return &App{
		conn:    conn,
		ch:      ch,
		queues:  queues,
		handler: mails.Handle,
		log:     log,
	}, nil
}

// Run запускает потребителей всех очередей уведомлений и ждёт отмены ctx
// или разрыва соединения с брокером.
func (a *App) Run(ctx context.Context) error {
	closed := a.conn.NotifyClose(make(chan *amqp.Error, 1))

	for _, q := range a.queues {
		if err := rabbitmq.ConsumerMessage(ctx, a.log, a.ch, q.QueueName, a.handler); err != nil {
			a.shutdown()
			return fmt.Errorf("consume %s: %w", q.QueueName, err)
		}
		a.log.Info("consuming notifications", slog.String("queue", q.QueueName))
	}

	select {
	case <-ctx.Done():
		a.log.Info("sender is shutting down")
		a.shutdown()
		return nil
	case amqpErr := <-closed:
		if amqpErr != nil {
			a.log.Error("broker closed the connection", slog.Int("code", amqpErr.Code), slog.String("reason", amqpErr.Reason))
		}
		return ErrBrokerClosed
	}
}

func (a *App) shutdown() {
	if err := a.ch.Close(); err != nil {
		a.log.Warn("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.log.Warn("failed to close connection", sl.Err(err))
	}
}
