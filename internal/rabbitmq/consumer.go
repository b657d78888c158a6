package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/job-marketplace/internal/lib/sl"
)

// ConsumerMessage запускает потребителя очереди. Сообщения обрабатываются
// параллельно, не более prefetch одновременно. Ошибка обработчика при первой
// доставке возвращает сообщение в очередь, при повторной сообщение уходит
// в DeadLetterQueue.
func ConsumerMessage(ctx context.Context, log *slog.Logger, ch *amqp.Channel, queueName string, handler func([]byte) error) error {
	const op = "rabbitmq.ConsumerMessage"
	deliveries, err := ch.Consume(
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log = log.With(slog.String("op", op), slog.String("queue", queueName))
	sem := make(chan struct{}, prefetch)
	go func() {
		for {
			select {
			case d, ok := <-deliveries:
				if !ok {
					log.Info("delivery channel closed")
					return
				}
				sem <- struct{}{}
				go func(d amqp.Delivery) {
					defer func() { <-sem }()
					settle(log, d, handler(d.Body))
				}(d)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// settle подтверждает или отвергает сообщение по результату обработки.
func settle(log *slog.Logger, d amqp.Delivery, handlerErr error) {
	if handlerErr == nil {
		if err := d.Ack(false); err != nil {
			log.Error("failed to ack message", sl.Err(err))
		}
		return
	}

	requeue := !d.Redelivered
	if requeue {
		log.Warn("handler failed, requeueing message", sl.Err(handlerErr))
	} else {
		log.Error("handler failed again, dead-lettering message", sl.Err(handlerErr))
	}
	if err := d.Nack(false, requeue); err != nil {
		log.Error("failed to nack message", sl.Err(err))
	}
}
