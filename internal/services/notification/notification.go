// Package notification публикует уведомления участникам в RabbitMQ.
// Публикация выполняется по принципу «отправил и забыл»: ошибки
// записываются в лог и никогда не влияют на результат операции.
package notification

import (
	"context"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/job-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/job-marketplace/internal/models"
	"github.com/magabrotheeeer/job-marketplace/internal/rabbitmq"
)

// Publisher отправляет сообщение с ключом маршрутизации.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// ActorReader находит получателя уведомления.
type ActorReader interface {
	GetActorByID(ctx context.Context, id string) (*models.Actor, error)
}

// Notifier формирует уведомления и публикует их.
type Notifier struct {
	log         *slog.Logger
	pub         Publisher
	actors      ActorReader
	frontendURL string
}

// New создаёт Notifier. frontendURL используется для ссылок в письмах.
func New(log *slog.Logger, pub Publisher, actors ActorReader, frontendURL string) *Notifier {
	return &Notifier{
		log:         log,
		pub:         pub,
		actors:      actors,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

// VerifyEmail отправляет ссылку подтверждения e-mail.
func (n *Notifier) VerifyEmail(ctx context.Context, a models.Actor, token string) {
	n.publish(ctx, rabbitmq.RoutingVerifyEmail, models.Notification{
		Kind:    models.NotificationVerifyEmail,
		ActorID: a.ID,
		Email:   a.Email,
		Name:    a.Name,
		Subject: "Confirm your email",
		Link:    n.frontendURL + "/verify/" + token,
	})
}

// PasswordReset отправляет ссылку сброса пароля.
func (n *Notifier) PasswordReset(ctx context.Context, a models.Actor, token string) {
	n.publish(ctx, rabbitmq.RoutingPasswordReset, models.Notification{
		Kind:    models.NotificationPasswordReset,
		ActorID: a.ID,
		Email:   a.Email,
		Name:    a.Name,
		Subject: "Reset your password",
		Link:    n.frontendURL + "/reset-password/" + token,
	})
}

// Workflow уведомляет участника о событии в рабочем процессе.
func (n *Notifier) Workflow(ctx context.Context, actorID, subject, body string) {
	const op = "notification.Workflow"
	a, err := n.actors.GetActorByID(ctx, actorID)
	if err != nil {
		n.log.Warn("notification recipient lookup failed",
			slog.String("op", op), slog.String("actor_id", actorID), sl.Err(err))
		return
	}
	n.publish(ctx, rabbitmq.RoutingWorkflow, models.Notification{
		Kind:    models.NotificationWorkflow,
		ActorID: a.ID,
		Email:   a.Email,
		Name:    a.Name,
		Subject: subject,
		Body:    body,
	})
}

func (n *Notifier) publish(ctx context.Context, routingKey string, msg models.Notification) {
	const op = "notification.publish"
	if err := n.pub.Publish(ctx, routingKey, msg); err != nil {
		n.log.Warn("failed to publish notification",
			slog.String("op", op),
			slog.String("routing_key", routingKey),
			slog.String("actor_id", msg.ActorID),
			sl.Err(err))
		return
	}
	n.log.Debug("notification published",
		slog.String("op", op), slog.String("routing_key", routingKey), slog.String("actor_id", msg.ActorID))
}
