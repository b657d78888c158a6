package paymentrequests

import (
	"context"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/job-marketplace/internal/lib/apperrors"
	"github.com/magabrotheeeer/job-marketplace/internal/metrics"
	"github.com/magabrotheeeer/job-marketplace/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetActorByID(ctx context.Context, id string) (*models.Actor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Actor), args.Error(1)
}

func (m *RepoMock) CreatePaymentRequest(ctx context.Context, p models.PaymentRequest) error {
	return m.Called(ctx, p).Error(0)
}

func (m *RepoMock) GetPaymentRequest(ctx context.Context, id string) (*models.PaymentRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentRequest), args.Error(1)
}

func (m *RepoMock) UpdatePaymentRequestStatus(ctx context.Context, id string, expectedVersion int,
	status models.PaymentRequestStatus) (*models.PaymentRequest, error) {
	args := m.Called(ctx, id, expectedVersion, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentRequest), args.Error(1)
}

func (m *RepoMock) ListPaymentRequestsByClient(ctx context.Context, clientID string) ([]models.PaymentRequest, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]models.PaymentRequest), args.Error(1)
}

func (m *RepoMock) ListPaymentRequestsByWorker(ctx context.Context, workerID string) ([]models.PaymentRequest, error) {
	args := m.Called(ctx, workerID)
	return args.Get(0).([]models.PaymentRequest), args.Error(1)
}

type NotifierMock struct{ mock.Mock }

func (m *NotifierMock) Workflow(ctx context.Context, actorID, subject, body string) {
	m.Called(ctx, actorID, subject, body)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

var (
	client      = models.Principal{ID: "c1", Role: models.RoleClient}
	otherClient = models.Principal{ID: "c2", Role: models.RoleClient}
	worker      = models.Principal{ID: "w1", Role: models.RoleWorker}
)

func TestToMinor(t *testing.T) {
	tests := []struct {
		name    string
		amount  float64
		want    int64
		wantErr bool
	}{
		{"whole amount", 150, 15000, false},
		{"cents are rounded", 10.005, 1001, false},
		{"smallest unit", 0.01, 1, false},
		{"below one cent", 0.004, 0, true},
		{"zero", 0, 0, true},
		{"negative", -5, 0, true},
		{"not a number", math.NaN(), 0, true},
		{"infinite", math.Inf(1), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToMinor(tt.amount)
			if tt.wantErr {
				assert.True(t, apperrors.Is(err, apperrors.KindValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Create(t *testing.T) {
	tests := []struct {
		name       string
		actor      models.Principal
		input      CreateInput
		setupMocks func(r *RepoMock, n *NotifierMock)
		wantKind   apperrors.Kind
		wantErr    bool
	}{
		{
			name:  "worker requests payment",
			actor: worker,
			input: CreateInput{ClientID: "c1", Amount: 250.5, Message: "Invoice #1"},
			setupMocks: func(r *RepoMock, n *NotifierMock) {
				r.On("GetActorByID", mock.Anything, "c1").Return(&models.Actor{ID: "c1", Role: models.RoleClient}, nil).Once()
				r.On("CreatePaymentRequest", mock.Anything, mock.MatchedBy(func(p models.PaymentRequest) bool {
					return p.AmountMinor == 25050 && p.Status == models.PaymentRequestPending &&
						p.WorkerID == "w1" && p.ClientID == "c1"
				})).Return(nil).Once()
				n.On("Workflow", mock.Anything, "c1", "New payment request", "Invoice #1").Return().Once()
			},
		},
		{
			name:     "client cannot request payment",
			actor:    client,
			input:    CreateInput{ClientID: "c2", Amount: 10},
			wantKind: apperrors.KindInvalidRole,
			wantErr:  true,
		},
		{
			name:  "target must be a client",
			actor: worker,
			input: CreateInput{ClientID: "w2", Amount: 10},
			setupMocks: func(r *RepoMock, _ *NotifierMock) {
				r.On("GetActorByID", mock.Anything, "w2").Return(&models.Actor{ID: "w2", Role: models.RoleWorker}, nil).Once()
			},
			wantKind: apperrors.KindInvalidRole,
			wantErr:  true,
		},
		{
			name:     "non-positive amount",
			actor:    worker,
			input:    CreateInput{ClientID: "c1", Amount: 0},
			wantKind: apperrors.KindValidation,
			wantErr:  true,
		},
		{
			name:  "unknown client",
			actor: worker,
			input: CreateInput{ClientID: "ghost", Amount: 10},
			setupMocks: func(r *RepoMock, _ *NotifierMock) {
				r.On("GetActorByID", mock.Anything, "ghost").Return(nil, apperrors.NotFound("actor not found")).Once()
			},
			wantKind: apperrors.KindNotFound,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			notifier := new(NotifierMock)
			svc := New(newNoopLogger(), repo, notifier, metrics.Noop())
			if tt.setupMocks != nil {
				tt.setupMocks(repo, notifier)
			}

			got, err := svc.Create(context.Background(), tt.actor, tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, apperrors.KindOf(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, models.PaymentRequestPending, got.Status)
			}
			repo.AssertExpectations(t)
			notifier.AssertExpectations(t)
		})
	}
}

func TestService_Decide(t *testing.T) {
	stored := func(status models.PaymentRequestStatus) *models.PaymentRequest {
		return &models.PaymentRequest{ID: "pr1", WorkerID: "w1", ClientID: "c1", AmountMinor: 100, Status: status, Version: 5}
	}

	tests := []struct {
		name     string
		actor    models.Principal
		current  models.PaymentRequestStatus
		to       models.PaymentRequestStatus
		wantKind apperrors.Kind
		wantErr  bool
	}{
		{name: "client accepts", actor: client, current: models.PaymentRequestPending, to: models.PaymentRequestAccepted},
		{name: "client rejects", actor: client, current: models.PaymentRequestPending, to: models.PaymentRequestRejected},
		{name: "re-accept after reject", actor: client, current: models.PaymentRequestRejected, to: models.PaymentRequestAccepted},
		{name: "reject after accept", actor: client, current: models.PaymentRequestAccepted, to: models.PaymentRequestRejected},
		{
			name: "paid is final", actor: client, current: models.PaymentRequestPaid, to: models.PaymentRequestRejected,
			wantKind: apperrors.KindInvalidTransition, wantErr: true,
		},
		{
			name: "client cannot mark paid", actor: client, current: models.PaymentRequestAccepted, to: models.PaymentRequestPaid,
			wantKind: apperrors.KindValidation, wantErr: true,
		},
		{
			name: "other client", actor: otherClient, current: models.PaymentRequestPending, to: models.PaymentRequestAccepted,
			wantKind: apperrors.KindUnauthorized, wantErr: true,
		},
		{
			name: "worker cannot decide", actor: worker, current: models.PaymentRequestPending, to: models.PaymentRequestAccepted,
			wantKind: apperrors.KindUnauthorized, wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			notifier := new(NotifierMock)
			svc := New(newNoopLogger(), repo, notifier, metrics.Noop())

			if tt.to == models.PaymentRequestAccepted || tt.to == models.PaymentRequestRejected {
				repo.On("GetPaymentRequest", mock.Anything, "pr1").Return(stored(tt.current), nil).Once()
			}
			if !tt.wantErr {
				repo.On("UpdatePaymentRequestStatus", mock.Anything, "pr1", 5, tt.to).Return(stored(tt.to), nil).Once()
				notifier.On("Workflow", mock.Anything, "w1", "Payment request "+string(tt.to), mock.Anything).Return().Once()
			}

			got, err := svc.Decide(context.Background(), tt.actor, "pr1", tt.to)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, apperrors.KindOf(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.to, got.Status)
			}
			repo.AssertExpectations(t)
			notifier.AssertExpectations(t)
		})
	}
}

func TestService_Projections(t *testing.T) {
	repo := new(RepoMock)
	svc := New(newNoopLogger(), repo, new(NotifierMock), metrics.Noop())

	repo.On("ListPaymentRequestsByClient", mock.Anything, "c1").Return([]models.PaymentRequest{{ID: "pr1"}}, nil).Once()
	repo.On("ListPaymentRequestsByWorker", mock.Anything, "w1").Return([]models.PaymentRequest{{ID: "pr1"}}, nil).Once()

	byClient, err := svc.ListByClient(context.Background(), client)
	require.NoError(t, err)
	assert.Len(t, byClient, 1)

	byWorker, err := svc.ListByWorker(context.Background(), worker)
	require.NoError(t, err)
	assert.Len(t, byWorker, 1)

	_, err = svc.ListByClient(context.Background(), worker)
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidRole))
	_, err = svc.ListByWorker(context.Background(), client)
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidRole))

	repo.AssertExpectations(t)
}
