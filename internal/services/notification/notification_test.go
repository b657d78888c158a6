package notification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/job-marketplace/internal/lib/apperrors"
	"github.com/magabrotheeeer/job-marketplace/internal/models"
	"github.com/magabrotheeeer/job-marketplace/internal/rabbitmq"
)

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, message any) error {
	args := m.Called(ctx, routingKey, message)
	return args.Error(0)
}

type ActorReaderMock struct {
	mock.Mock
}

func (m *ActorReaderMock) GetActorByID(ctx context.Context, id string) (*models.Actor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Actor), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotifier_VerifyEmail(t *testing.T) {
	pub := new(PublisherMock)
	n := New(newNoopLogger(), pub, new(ActorReaderMock), "https://app.example.com/")

	pub.On("Publish", mock.Anything, rabbitmq.RoutingVerifyEmail, mock.MatchedBy(func(msg models.Notification) bool {
		return msg.Email == "w@example.com" &&
			msg.Kind == models.NotificationVerifyEmail &&
			msg.Link == "https://app.example.com/verify/tok"
	})).Return(nil).Once()

	n.VerifyEmail(context.Background(), models.Actor{ID: "a1", Email: "w@example.com"}, "tok")
	pub.AssertExpectations(t)
}

func TestNotifier_Workflow(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(p *PublisherMock, a *ActorReaderMock)
	}{
		{
			name: "publishes to recipient",
			setupMocks: func(p *PublisherMock, a *ActorReaderMock) {
				a.On("GetActorByID", mock.Anything, "w1").
					Return(&models.Actor{ID: "w1", Email: "w1@example.com", Name: "W"}, nil).Once()
				p.On("Publish", mock.Anything, rabbitmq.RoutingWorkflow, mock.MatchedBy(func(msg models.Notification) bool {
					return msg.Email == "w1@example.com" && msg.Subject == "Application accepted"
				})).Return(nil).Once()
			},
		},
		{
			name: "unknown recipient is skipped",
			setupMocks: func(_ *PublisherMock, a *ActorReaderMock) {
				a.On("GetActorByID", mock.Anything, "w1").Return(nil, apperrors.NotFound("actor not found")).Once()
			},
		},
		{
			name: "publish failure is swallowed",
			setupMocks: func(p *PublisherMock, a *ActorReaderMock) {
				a.On("GetActorByID", mock.Anything, "w1").Return(&models.Actor{ID: "w1", Email: "e"}, nil).Once()
				p.On("Publish", mock.Anything, rabbitmq.RoutingWorkflow, mock.Anything).Return(errors.New("channel closed")).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := new(PublisherMock)
			actors := new(ActorReaderMock)
			tt.setupMocks(pub, actors)

			n := New(newNoopLogger(), pub, actors, "https://app.example.com")
			assert.NotPanics(t, func() {
				n.Workflow(context.Background(), "w1", "Application accepted", "body")
			})

			pub.AssertExpectations(t)
			actors.AssertExpectations(t)
		})
	}
}
