// Package payments — мост к внешнему платёжному шлюзу.
//
// Каждая попытка оплаты получает новую ссылку external_ref и локальную
// транзакцию в статусе pending. Окончательный статус приходит через verify
// или webhook; финализация выполняется условным переходом из pending в одной
// транзакции БД вместе с последствием (оплата запроса или активация подписки),
// поэтому последствие срабатывает ровно один раз при любом числе повторов.
package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/job-marketplace/internal/config"
	"github.com/magabrotheeeer/job-marketplace/internal/ledger"
	"github.com/magabrotheeeer/job-marketplace/internal/lib/apperrors"
	"github.com/magabrotheeeer/job-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/job-marketplace/internal/metrics"
	"github.com/magabrotheeeer/job-marketplace/internal/models"
	"github.com/magabrotheeeer/job-marketplace/internal/paymentprovider"
	"github.com/magabrotheeeer/job-marketplace/internal/telemetry"
)

// Источники финализации для метрик.
const (
	SourceInitiate  = "initiate"
	SourceVerify    = "verify"
	SourceWebhook   = "webhook"
	SourceReconcile = "reconcile"
)

// Repository описывает контракт хранилища платежей.
type Repository interface {
	GetActorByID(ctx context.Context, id string) (*models.Actor, error)
	GetPaymentRequest(ctx context.Context, id string) (*models.PaymentRequest, error)
	CreatePendingTransaction(ctx context.Context, t models.PaymentTransaction) error
	SetCheckoutURL(ctx context.Context, externalRef, checkoutURL string) error
	GetTransactionByRef(ctx context.Context, externalRef string) (*models.PaymentTransaction, error)
	FinalizeTransaction(ctx context.Context, externalRef string, status models.TransactionStatus, raw []byte) (models.FinalizeResult, error)
	ListPayeeTransactions(ctx context.Context, payeeID string) ([]models.PaymentTransaction, error)
	ListSubscriptionPayments(ctx context.Context, actorID string) ([]models.SubscriptionPayment, error)
}

// Gateway описывает внешний платёжный шлюз.
type Gateway interface {
	Initialize(ctx context.Context, req paymentprovider.InitializeRequest) (string, error)
	Verify(ctx context.Context, txRef string) (paymentprovider.VerifyResult, error)
}

// Notifier отправляет участнику уведомление о событии.
type Notifier interface {
	Workflow(ctx context.Context, actorID, subject, body string)
}

// InitiateInput — параметры новой попытки оплаты.
type InitiateInput struct {
	PayerID     string
	PayeeID     string
	AmountMinor int64
	Purpose     models.PaymentPurposeSpec
}

// Checkout — результат инициации: ссылка для оплаты и локальная транзакция.
type Checkout struct {
	ExternalRef string                    `json:"external_ref"`
	CheckoutURL string                    `json:"checkout_url"`
	Transaction models.PaymentTransaction `json:"transaction"`
}

// Service реализует инициацию, проверку и приём уведомлений шлюза.
type Service struct {
	log      *slog.Logger
	repo     Repository
	gateway  Gateway
	notifier Notifier
	metrics  *metrics.Metrics
	gwCfg    config.Gateway
	prices   config.Subscription
	now      func() time.Time
	newID    func() string
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, repo Repository, gateway Gateway, notifier Notifier, m *metrics.Metrics,
	gwCfg config.Gateway, prices config.Subscription) *Service {
	return &Service{
		log:      log,
		repo:     repo,
		gateway:  gateway,
		notifier: notifier,
		metrics:  m,
		gwCfg:    gwCfg,
		prices:   prices,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (s *Service) newRef(payerID string) string {
	random := s.newID()
	if len(random) > 8 {
		random = random[:8]
	}
	return fmt.Sprintf("tx-%d-%s-%s", s.now().UnixMilli(), random, payerID)
}

// mapGatewayStatus переводит статус шлюза в локальный. final=false означает,
// что платёж ещё не завершён и записывать нечего.
func mapGatewayStatus(status string) (models.TransactionStatus, bool) {
	switch status {
	case "success":
		return models.TransactionSuccess, true
	case "failed", "cancelled", "canceled":
		return models.TransactionFailed, true
	default:
		return "", false
	}
}

// PayRequest начинает оплату принятого запроса клиентом-адресатом.
func (s *Service) PayRequest(ctx context.Context, p models.Principal, requestID string) (*Checkout, error) {
	const op = "payments.PayRequest"

	req, err := s.repo.GetPaymentRequest(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ledger.Authorize(p, ledger.OpPaymentRequestPay, ledger.Target{ClientID: req.ClientID, WorkerID: req.WorkerID}); err != nil {
		return nil, err
	}
	if req.Status != models.PaymentRequestAccepted {
		return nil, apperrors.PreconditionFailed("payment request is not accepted")
	}

	return s.Initiate(ctx, InitiateInput{
		PayerID:     req.ClientID,
		PayeeID:     req.WorkerID,
		AmountMinor: req.AmountMinor,
		Purpose: models.PaymentPurposeSpec{
			Kind:             models.PurposePaymentRequest,
			PaymentRequestID: req.ID,
		},
	})
}

// Subscribe начинает оплату подписки. Цена берётся из конфигурации.
func (s *Service) Subscribe(ctx context.Context, p models.Principal, subscriptionType models.SubscriptionType) (*Checkout, error) {
	if err := ledger.Authorize(p, ledger.OpSubscribe, ledger.Target{}); err != nil {
		return nil, err
	}

	var price int64
	switch subscriptionType {
	case models.SubscriptionMonthly:
		price = s.prices.MonthlyPriceMinor
	case models.SubscriptionYearly:
		price = s.prices.YearlyPriceMinor
	default:
		return nil, apperrors.Validation("subscription type must be monthly or yearly")
	}

	return s.Initiate(ctx, InitiateInput{
		PayerID:     p.ID,
		AmountMinor: price,
		Purpose: models.PaymentPurposeSpec{
			Kind:             models.PurposeSubscription,
			SubscriptionType: subscriptionType,
		},
	})
}

// Initiate создаёт транзакцию pending и запрашивает у шлюза ссылку на оплату.
//
// Если шлюз однозначно отказал, транзакция помечается failed. При сетевом сбое
// или таймауте она остаётся pending: исход неизвестен, и его можно уточнить
// через Verify по ссылке из ошибки.
func (s *Service) Initiate(ctx context.Context, in InitiateInput) (*Checkout, error) {
	const op = "payments.Initiate"
	ctx, span := telemetry.Tracer("payments").Start(ctx, "payments.initiate")
	defer span.End()

	if in.AmountMinor < 1 {
		return nil, apperrors.Validation("amount must be positive")
	}
	payer, err := s.repo.GetActorByID(ctx, in.PayerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now().UTC()
	tx := models.PaymentTransaction{
		ID:               s.newID(),
		PayerID:          payer.ID,
		PayeeID:          in.PayeeID,
		AmountMinor:      in.AmountMinor,
		Currency:         s.gwCfg.Currency,
		ExternalRef:      s.newRef(payer.ID),
		Status:           models.TransactionPending,
		Purpose:          in.Purpose.Kind,
		PaymentRequestID: in.Purpose.PaymentRequestID,
		SubscriptionType: in.Purpose.SubscriptionType,
		Version:          1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	span.SetAttributes(telemetry.String("tx_ref", tx.ExternalRef), telemetry.Int64("amount_minor", tx.AmountMinor))

	if err := s.repo.CreatePendingTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log := s.log.With(slog.String("op", op), slog.String("tx_ref", tx.ExternalRef))

	started := time.Now()
	checkoutURL, err := s.gateway.Initialize(ctx, paymentprovider.InitializeRequest{
		Amount:      paymentprovider.FormatAmount(tx.AmountMinor),
		Currency:    tx.Currency,
		Email:       payer.Email,
		FirstName:   payer.Name,
		TxRef:       tx.ExternalRef,
		CallbackURL: s.gwCfg.CallbackURL,
		ReturnURL:   s.gwCfg.ReturnURL,
		Customization: paymentprovider.Customization{
			Title:       "Marketplace",
			Description: string(tx.Purpose),
		},
	})
	s.metrics.GatewayCall("initialize", started, err)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, paymentprovider.ErrRejected) {
			if _, ferr := s.finalize(ctx, SourceInitiate, tx.ExternalRef, models.TransactionFailed, nil); ferr != nil {
				log.Error("failed to mark rejected transaction", sl.Err(ferr))
			}
			log.Warn("gateway rejected payment", sl.Err(err))
			return nil, apperrors.Gateway("payment was rejected by the gateway, reference "+tx.ExternalRef, err)
		}
		log.Warn("gateway unavailable, transaction left pending", sl.Err(err))
		return nil, apperrors.Gateway("payment gateway is unavailable, verify later with reference "+tx.ExternalRef, err)
	}

	if err := s.repo.SetCheckoutURL(ctx, tx.ExternalRef, checkoutURL); err != nil {
		log.Warn("failed to store checkout url", sl.Err(err))
	}
	tx.CheckoutURL = checkoutURL

	log.Info("payment initiated", slog.String("purpose", string(tx.Purpose)))
	return &Checkout{ExternalRef: tx.ExternalRef, CheckoutURL: checkoutURL, Transaction: tx}, nil
}

// Verify уточняет статус транзакции. Окончательный статус возвращается из
// хранилища без обращения к шлюзу.
func (s *Service) Verify(ctx context.Context, p models.Principal, externalRef string) (*models.PaymentTransaction, error) {
	const op = "payments.Verify"

	tx, err := s.repo.GetTransactionByRef(ctx, externalRef)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ledger.Authorize(p, ledger.OpPaymentVerify, ledger.Target{PayerID: tx.PayerID}); err != nil {
		return nil, err
	}
	got, err := s.verifyWithGateway(ctx, SourceVerify, tx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return got, nil
}

// Reconcile уточняет статус зависшей транзакции от имени системы.
func (s *Service) Reconcile(ctx context.Context, externalRef string) (*models.PaymentTransaction, error) {
	const op = "payments.Reconcile"

	tx, err := s.repo.GetTransactionByRef(ctx, externalRef)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	got, err := s.verifyWithGateway(ctx, SourceReconcile, tx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return got, nil
}

func (s *Service) verifyWithGateway(ctx context.Context, source string,
	tx *models.PaymentTransaction) (*models.PaymentTransaction, error) {
	if tx.Status.Terminal() {
		return tx, nil
	}

	started := time.Now()
	res, err := s.gateway.Verify(ctx, tx.ExternalRef)
	s.metrics.GatewayCall("verify", started, err)
	if err != nil {
		return nil, err
	}

	status, final := mapGatewayStatus(res.Status)
	if !final {
		return tx, nil
	}
	return s.finalize(ctx, source, tx.ExternalRef, status, res.Raw)
}

// HandleWebhook принимает уведомление шлюза. Повторное уведомление ничего не меняет.
func (s *Service) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	const op = "payments.HandleWebhook"

	if !paymentprovider.VerifySignature(s.gwCfg.WebhookSecret, body, signature) {
		return apperrors.Unauthenticated("invalid webhook signature")
	}
	var payload paymentprovider.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil || payload.TxRef == "" {
		return apperrors.Validation("malformed webhook payload")
	}

	status, final := mapGatewayStatus(payload.Status)
	if !final {
		s.log.Info("webhook with non-final status ignored", slog.String("op", op),
			slog.String("tx_ref", payload.TxRef), slog.String("status", payload.Status))
		return nil
	}
	if _, err := s.finalize(ctx, SourceWebhook, payload.TxRef, status, body); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// finalize выполняет переход pending → status от имени системы.
func (s *Service) finalize(ctx context.Context, source, externalRef string,
	status models.TransactionStatus, raw []byte) (*models.PaymentTransaction, error) {
	const op = "payments.finalize"

	if err := ledger.Authorize(models.SystemPrincipal, ledger.OpPaymentRequestMarkPaid, ledger.Target{}); err != nil {
		return nil, err
	}
	if err := ledger.Transactions.Check(models.TransactionPending, status); err != nil {
		return nil, err
	}

	res, err := s.repo.FinalizeTransaction(ctx, externalRef, status, raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	tx := res.Transaction
	log := s.log.With(slog.String("op", op), slog.String("tx_ref", externalRef), slog.String("source", source))

	if !res.Applied {
		log.Debug("transaction already final", slog.String("status", string(tx.Status)))
		return &tx, nil
	}

	s.metrics.Transition(ledger.Transactions.Entity(), string(status))
	s.metrics.Finalization(source, string(status))
	log.Info("transaction finalized", slog.String("status", string(status)))

	if status != models.TransactionSuccess {
		s.notifier.Workflow(ctx, tx.PayerID, "Payment failed",
			fmt.Sprintf("Payment %s did not go through.", tx.ExternalRef))
		return &tx, nil
	}
	if !res.EffectApplied {
		log.Warn("payment succeeded but its effect was not applied", slog.String("purpose", string(tx.Purpose)))
		return &tx, nil
	}

	switch tx.Purpose {
	case models.PurposePaymentRequest:
		s.metrics.Transition(ledger.PaymentRequests.Entity(), string(models.PaymentRequestPaid))
		s.notifier.Workflow(ctx, tx.PayeeID, "Payment received",
			fmt.Sprintf("Payment request %s was paid.", tx.PaymentRequestID))
		s.notifier.Workflow(ctx, tx.PayerID, "Payment succeeded",
			fmt.Sprintf("Your payment %s succeeded.", tx.ExternalRef))
	case models.PurposeSubscription:
		s.notifier.Workflow(ctx, tx.PayerID, "Subscription activated",
			fmt.Sprintf("Your %s subscription is active.", tx.SubscriptionType))
	}
	return &tx, nil
}

// WorkerHistory возвращает успешные поступления исполнителю.
func (s *Service) WorkerHistory(ctx context.Context, p models.Principal) ([]models.PaymentTransaction, error) {
	const op = "payments.WorkerHistory"
	if err := ledger.Authorize(p, ledger.OpPaymentHistory, ledger.Target{WorkerID: p.ID}); err != nil {
		return nil, err
	}
	list, err := s.repo.ListPayeeTransactions(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// ListMySubscriptionPayments возвращает платежи за подписку текущего участника.
func (s *Service) ListMySubscriptionPayments(ctx context.Context, p models.Principal) ([]models.SubscriptionPayment, error) {
	const op = "payments.ListMySubscriptionPayments"
	if p.ID == "" {
		return nil, apperrors.Unauthenticated("authentication required")
	}
	if err := ledger.Authorize(p, ledger.OpSubscriptionPaymentsOwn, ledger.Target{}); err != nil {
		return nil, err
	}
	list, err := s.repo.ListSubscriptionPayments(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// ListAllSubscriptionPayments возвращает все платежи за подписку. Только для администратора.
func (s *Service) ListAllSubscriptionPayments(ctx context.Context, p models.Principal) ([]models.SubscriptionPayment, error) {
	const op = "payments.ListAllSubscriptionPayments"
	if err := ledger.Authorize(p, ledger.OpSubscriptionPaymentsList, ledger.Target{}); err != nil {
		return nil, err
	}
	list, err := s.repo.ListSubscriptionPayments(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}
