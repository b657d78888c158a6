package payment

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/job-marketplace/internal/http/middlewarectx"
	"github.com/magabrotheeeer/job-marketplace/internal/lib/apperrors"
	"github.com/magabrotheeeer/job-marketplace/internal/models"
	"github.com/magabrotheeeer/job-marketplace/internal/services/payments"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) checkout(args mock.Arguments) (*payments.Checkout, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.Checkout), args.Error(1)
}

func (m *ServiceMock) PayRequest(ctx context.Context, p models.Principal, requestID string) (*payments.Checkout, error) {
	return m.checkout(m.Called(ctx, p, requestID))
}

func (m *ServiceMock) Subscribe(ctx context.Context, p models.Principal, subscriptionType models.SubscriptionType) (*payments.Checkout, error) {
	return m.checkout(m.Called(ctx, p, subscriptionType))
}

func (m *ServiceMock) Verify(ctx context.Context, p models.Principal, externalRef string) (*models.PaymentTransaction, error) {
	args := m.Called(ctx, p, externalRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentTransaction), args.Error(1)
}

func (m *ServiceMock) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	return m.Called(ctx, body, signature).Error(0)
}

func (m *ServiceMock) WorkerHistory(ctx context.Context, p models.Principal) ([]models.PaymentTransaction, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]models.PaymentTransaction), args.Error(1)
}

func (m *ServiceMock) ListMySubscriptionPayments(ctx context.Context, p models.Principal) ([]models.SubscriptionPayment, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]models.SubscriptionPayment), args.Error(1)
}

func (m *ServiceMock) ListAllSubscriptionPayments(ctx context.Context, p models.Principal) ([]models.SubscriptionPayment, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]models.SubscriptionPayment), args.Error(1)
}

var client = models.Principal{ID: "c1", Role: models.RoleClient}

func newRouter(svc Service, p *models.Principal) http.Handler {
	h := New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)
	r := chi.NewRouter()
	r.Post("/payments/webhook", h.Webhook)
	r.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				if p != nil {
					req = req.WithContext(middlewarectx.WithPrincipal(req.Context(), *p))
				}
				next.ServeHTTP(w, req)
			})
		})
		r.Post("/payment-requests/{id}/pay", h.Pay)
		r.Post("/subscriptions/initiate", h.Subscribe)
		r.Get("/subscriptions/my", h.MySubscriptions)
		r.Get("/subscriptions/all", h.AllSubscriptions)
		r.Get("/payments/verify/{ref}", h.Verify)
		r.Get("/payments/worker/history", h.WorkerHistory)
	})
	return r
}

func TestHandler_Pay(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		wantStatusCode int
		wantBody       string
	}{
		{name: "checkout url returned", wantStatusCode: http.StatusCreated, wantBody: `"checkout_url":"https://checkout.example/tx-1"`},
		{name: "request not accepted", err: apperrors.PreconditionFailed("payment request is not accepted"), wantStatusCode: http.StatusPreconditionFailed},
		{name: "gateway timeout", err: apperrors.Gateway("gateway unavailable, tx_ref tx-1", context.DeadlineExceeded), wantStatusCode: http.StatusBadGateway, wantBody: "tx-1"},
		{name: "other client", err: apperrors.Unauthorized("not allowed"), wantStatusCode: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			call := svc.On("PayRequest", mock.Anything, client, "pr1")
			if tt.err != nil {
				call.Return(nil, tt.err).Once()
			} else {
				call.Return(&payments.Checkout{ExternalRef: "tx-1", CheckoutURL: "https://checkout.example/tx-1"}, nil).Once()
			}

			rec := httptest.NewRecorder()
			newRouter(svc, &client).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/payment-requests/pr1/pay", nil))

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_Webhook(t *testing.T) {
	payload := []byte(`{"tx_ref":"tx-1","status":"success"}`)

	tests := []struct {
		name           string
		header         string
		err            error
		wantStatusCode int
	}{
		{name: "signed with Chapa-Signature", header: "Chapa-Signature", wantStatusCode: http.StatusOK},
		{name: "signed with x-chapa-signature", header: "x-chapa-signature", wantStatusCode: http.StatusOK},
		{name: "bad signature", header: "Chapa-Signature", err: apperrors.Unauthenticated("invalid webhook signature"), wantStatusCode: http.StatusUnauthorized},
		{name: "unknown ref", header: "Chapa-Signature", err: apperrors.NotFound("transaction not found"), wantStatusCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			svc.On("HandleWebhook", mock.Anything, payload, "sig").Return(tt.err).Once()

			req := httptest.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewReader(payload))
			req.Header.Set(tt.header, "sig")
			rec := httptest.NewRecorder()
			newRouter(svc, nil).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_WebhookNeedsNoSession(t *testing.T) {
	svc := new(ServiceMock)
	svc.On("HandleWebhook", mock.Anything, mock.Anything, "").Return(apperrors.Unauthenticated("invalid webhook signature")).Once()

	rec := httptest.NewRecorder()
	newRouter(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/payments/webhook", strings.NewReader("{}")))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	svc.AssertExpectations(t)
}

func TestHandler_VerifyAndLists(t *testing.T) {
	admin := models.Principal{ID: "a1", Role: models.RoleAdmin}
	svc := new(ServiceMock)
	svc.On("Verify", mock.Anything, admin, "tx-1").
		Return(&models.PaymentTransaction{ExternalRef: "tx-1", Status: models.TransactionSuccess}, nil).Once()
	svc.On("Subscribe", mock.Anything, admin, models.SubscriptionType("weekly")).
		Return(nil, apperrors.Validation("subscription type must be monthly or yearly")).Once()
	svc.On("WorkerHistory", mock.Anything, admin).Return([]models.PaymentTransaction(nil), apperrors.InvalidRole("only workers")).Once()
	svc.On("ListMySubscriptionPayments", mock.Anything, admin).Return([]models.SubscriptionPayment{}, nil).Once()
	svc.On("ListAllSubscriptionPayments", mock.Anything, admin).Return([]models.SubscriptionPayment{{ID: "t1"}}, nil).Once()
	router := newRouter(svc, &admin)

	for _, tc := range []struct {
		method, path, body string
		want               int
	}{
		{http.MethodGet, "/payments/verify/tx-1", "", http.StatusOK},
		{http.MethodPost, "/subscriptions/initiate", `{"subscription_type":"weekly"}`, http.StatusBadRequest},
		{http.MethodPost, "/subscriptions/initiate", `{}`, http.StatusUnprocessableEntity},
		{http.MethodGet, "/payments/worker/history", "", http.StatusForbidden},
		{http.MethodGet, "/subscriptions/my", "", http.StatusOK},
		{http.MethodGet, "/subscriptions/all", "", http.StatusOK},
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body)))
		assert.Equal(t, tc.want, rec.Code, "%s %s", tc.method, tc.path)
	}
	svc.AssertExpectations(t)
}
