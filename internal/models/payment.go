package models

import (
	"encoding/json"
	"time"
)

// PaymentRequestStatus — статус запроса оплаты.
type PaymentRequestStatus string

const (
	PaymentRequestPending  PaymentRequestStatus = "pending"
	PaymentRequestAccepted PaymentRequestStatus = "accepted"
	PaymentRequestRejected PaymentRequestStatus = "rejected"
	PaymentRequestPaid     PaymentRequestStatus = "paid"
)

// PaymentRequest — запрос исполнителя на оплату работы клиентом.
// PaymentTransactionID указывает на последнюю попытку оплаты через шлюз.
type PaymentRequest struct {
	ID                   string               `json:"id"`
	WorkerID             string               `json:"worker_id"`
	ClientID             string               `json:"client_id"`
	AmountMinor          int64                `json:"amount_minor"`
	Message              string               `json:"message"`
	Status               PaymentRequestStatus `json:"status"`
	PaymentTransactionID string               `json:"payment_transaction_id,omitempty"`
	Version              int                  `json:"version"`
	CreatedAt            time.Time            `json:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at"`
}

// TransactionStatus — состояние транзакции во внешнем шлюзе.
type TransactionStatus string

const (
	TransactionPending TransactionStatus = "pending"
	TransactionSuccess TransactionStatus = "success"
	TransactionFailed  TransactionStatus = "failed"
)

// Terminal сообщает, является ли статус окончательным.
func (s TransactionStatus) Terminal() bool {
	return s == TransactionSuccess || s == TransactionFailed
}

// PaymentPurpose — назначение платежа.
type PaymentPurpose string

const (
	PurposePaymentRequest PaymentPurpose = "payment_request"
	PurposeSubscription   PaymentPurpose = "subscription"
)

// SubscriptionType — период подписки.
type SubscriptionType string

const (
	SubscriptionMonthly SubscriptionType = "monthly"
	SubscriptionYearly  SubscriptionType = "yearly"
)

// PaymentTransaction — платёж во внешнем шлюзе, ключ сверки — ExternalRef.
type PaymentTransaction struct {
	ID                string            `json:"id"`
	PayerID           string            `json:"payer_id"`
	PayeeID           string            `json:"payee_id,omitempty"`
	AmountMinor       int64             `json:"amount_minor"`
	Currency          string            `json:"currency"`
	ExternalRef       string            `json:"external_ref"`
	Status            TransactionStatus `json:"status"`
	Purpose           PaymentPurpose    `json:"purpose"`
	PaymentRequestID  string            `json:"payment_request_id,omitempty"`
	SubscriptionType  SubscriptionType  `json:"subscription_type,omitempty"`
	CheckoutURL       string            `json:"checkout_url,omitempty"`
	RawGatewayPayload json.RawMessage   `json:"raw_gateway_payload,omitempty"`
	Version           int               `json:"version"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// PaymentPurposeSpec описывает, за что платит инициатор.
type PaymentPurposeSpec struct {
	Kind             PaymentPurpose
	PaymentRequestID string
	SubscriptionType SubscriptionType
}

// SubscriptionPayment — платёж за подписку. Строится из транзакций с назначением subscription.
type SubscriptionPayment struct {
	ID               string            `json:"id"`
	ActorID          string            `json:"actor_id"`
	Role             Role              `json:"role"`
	AmountMinor      int64             `json:"amount_minor"`
	SubscriptionType SubscriptionType  `json:"subscription_type"`
	ExternalRef      string            `json:"external_ref"`
	Status           TransactionStatus `json:"status"`
	CreatedAt        time.Time         `json:"created_at"`
}

// FinalizeResult — итог попытки перевести транзакцию в окончательный статус.
type FinalizeResult struct {
	Transaction PaymentTransaction
	// Applied истинно только для вызова, который фактически выполнил переход.
	Applied bool
	// EffectApplied истинно, если вместе с переходом сработало последствие
	// (оплата запроса или активация подписки).
	EffectApplied bool
}
