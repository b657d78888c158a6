// Package paymentrequests реализует запросы оплаты от исполнителя клиенту.
//
// Статус paid здесь не выставляется: его ставит только платёжный мост
// при успешной финализации связанной транзакции.
package paymentrequests

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/job-marketplace/internal/ledger"
	"github.com/magabrotheeeer/job-marketplace/internal/lib/apperrors"
	"github.com/magabrotheeeer/job-marketplace/internal/metrics"
	"github.com/magabrotheeeer/job-marketplace/internal/models"
)

// Repository описывает контракт хранилища запросов оплаты.
type Repository interface {
	GetActorByID(ctx context.Context, id string) (*models.Actor, error)
	CreatePaymentRequest(ctx context.Context, p models.PaymentRequest) error
	GetPaymentRequest(ctx context.Context, id string) (*models.PaymentRequest, error)
	UpdatePaymentRequestStatus(ctx context.Context, id string, expectedVersion int, status models.PaymentRequestStatus) (*models.PaymentRequest, error)
	ListPaymentRequestsByClient(ctx context.Context, clientID string) ([]models.PaymentRequest, error)
	ListPaymentRequestsByWorker(ctx context.Context, workerID string) ([]models.PaymentRequest, error)
}

// Notifier отправляет участнику уведомление о событии.
type Notifier interface {
	Workflow(ctx context.Context, actorID, subject, body string)
}

// CreateInput — данные нового запроса. Amount задаётся в основных единицах валюты.
type CreateInput struct {
	ClientID string
	Amount   float64
	Message  string
}

// Service управляет запросами оплаты.
type Service struct {
	log      *slog.Logger
	repo     Repository
	notifier Notifier
	metrics  *metrics.Metrics
	now      func() time.Time
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, repo Repository, notifier Notifier, m *metrics.Metrics) *Service {
	return &Service{
		log:      log,
		repo:     repo,
		notifier: notifier,
		metrics:  m,
		now:      time.Now,
	}
}

// ToMinor переводит сумму в минимальные единицы валюты.
// Сумма должна быть конечной, положительной и не меньше одной минимальной единицы.
func ToMinor(amount float64) (int64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return 0, apperrors.Validation("amount must be a positive number")
	}
	minor := math.Round(amount * 100)
	if minor < 1 || minor > math.MaxInt64/2 {
		return 0, apperrors.Validation("amount is out of range")
	}
	return int64(minor), nil
}

// Create выставляет клиенту запрос оплаты в статусе pending.
func (s *Service) Create(ctx context.Context, p models.Principal, in CreateInput) (*models.PaymentRequest, error) {
	const op = "paymentrequests.Create"

	if p.Role != models.RoleWorker {
		return nil, apperrors.InvalidRole("only workers can request payment")
	}
	amountMinor, err := ToMinor(in.Amount)
	if err != nil {
		return nil, err
	}
	client, err := s.repo.GetActorByID(ctx, in.ClientID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if client.Role != models.RoleClient {
		return nil, apperrors.InvalidRole("payment requests can only target clients")
	}
	if err := ledger.Authorize(p, ledger.OpPaymentRequestCreate, ledger.Target{ClientID: client.ID, WorkerID: p.ID}); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	req := models.PaymentRequest{
		ID:          uuid.NewString(),
		WorkerID:    p.ID,
		ClientID:    client.ID,
		AmountMinor: amountMinor,
		Message:     in.Message,
		Status:      models.PaymentRequestPending,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreatePaymentRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.notifier.Workflow(ctx, client.ID, "New payment request", in.Message)
	s.log.Info("payment request created", slog.String("op", op),
		slog.String("payment_request_id", req.ID), slog.Int64("amount_minor", amountMinor))
	return &req, nil
}

// Decide принимает или отклоняет запрос. Повторное принятие после отказа допускается.
func (s *Service) Decide(ctx context.Context, p models.Principal, requestID string, to models.PaymentRequestStatus) (*models.PaymentRequest, error) {
	const op = "paymentrequests.Decide"

	if to != models.PaymentRequestAccepted && to != models.PaymentRequestRejected {
		return nil, apperrors.Validation("status must be accepted or rejected")
	}
	req, err := s.repo.GetPaymentRequest(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	target := ledger.Target{ClientID: req.ClientID, WorkerID: req.WorkerID}
	if err := ledger.Transition(ledger.PaymentRequests, p, ledger.OpPaymentRequestDecide, target, req.Status, to); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdatePaymentRequestStatus(ctx, req.ID, req.Version, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.Transition(ledger.PaymentRequests.Entity(), string(to))
	s.notifier.Workflow(ctx, req.WorkerID, "Payment request "+string(to),
		fmt.Sprintf("Your payment request %s was %s.", req.ID, to))
	return updated, nil
}

// ListByClient возвращает запросы, адресованные клиенту.
func (s *Service) ListByClient(ctx context.Context, p models.Principal) ([]models.PaymentRequest, error) {
	const op = "paymentrequests.ListByClient"
	if p.Role != models.RoleClient {
		return nil, apperrors.InvalidRole("only clients receive payment requests")
	}
	list, err := s.repo.ListPaymentRequestsByClient(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// ListByWorker возвращает запросы, выставленные исполнителем.
func (s *Service) ListByWorker(ctx context.Context, p models.Principal) ([]models.PaymentRequest, error) {
	const op = "paymentrequests.ListByWorker"
	if p.Role != models.RoleWorker {
		return nil, apperrors.InvalidRole("only workers send payment requests")
	}
	list, err := s.repo.ListPaymentRequestsByWorker(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}
