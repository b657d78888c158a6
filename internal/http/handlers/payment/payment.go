// Package payment реализует HTTP-обработчики платёжного моста: начало оплаты,
// проверку статуса, приём уведомлений шлюза и историю платежей.
package payment

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/job-marketplace/internal/models"
	"github.com/magabrotheeeer/job-marketplace/internal/services/payments"
)

// Service описывает интерфейс платёжного моста.
type Service interface {
	PayRequest(ctx context.Context, p models.Principal, requestID string) (*payments.Checkout, error)
	Subscribe(ctx context.Context, p models.Principal, subscriptionType models.SubscriptionType) (*payments.Checkout, error)
	Verify(ctx context.Context, p models.Principal, externalRef string) (*models.PaymentTransaction, error)
	HandleWebhook(ctx context.Context, body []byte, signature string) error
	WorkerHistory(ctx context.Context, p models.Principal) ([]models.PaymentTransaction, error)
	ListMySubscriptionPayments(ctx context.Context, p models.Principal) ([]models.SubscriptionPayment, error)
	ListAllSubscriptionPayments(ctx context.Context, p models.Principal) ([]models.SubscriptionPayment, error)
}

// Handler обрабатывает платёжные запросы.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}
