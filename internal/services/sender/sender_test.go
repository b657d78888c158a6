package sender

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/job-marketplace/internal/lib/smtp"
	"github.com/magabrotheeeer/job-marketplace/internal/models"
)

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(mail smtp.Mail) error {
	args := m.Called(mail)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestSenderService_Handle(t *testing.T) {
	tests := []struct {
		name       string
		body       func(t *testing.T) []byte
		setupMocks func(m *MockMailer)
		wantErr    bool
	}{
		{
			name: "verification email",
			body: func(t *testing.T) []byte {
				return mustJSON(t, models.Notification{
					Kind: models.NotificationVerifyEmail, Email: "w@example.com", Name: "Abebe",
					Subject: "Confirm your email", Link: "https://app/verify/tok",
				})
			},
			setupMocks: func(m *MockMailer) {
				m.On("Send", mock.MatchedBy(func(mail smtp.Mail) bool {
					return mail.To == "w@example.com" &&
						mail.Subject == "Confirm your email" &&
						mail.HTML != "" &&
						containsAll(mail.Text, "Hello, Abebe!", "https://app/verify/tok")
				})).Return(nil).Once()
			},
		},
		{
			name: "workflow email",
			body: func(t *testing.T) []byte {
				return mustJSON(t, models.Notification{
					Kind: models.NotificationWorkflow, Email: "c@example.com",
					Subject: "Payment received", Body: "Request 42 was paid.",
				})
			},
			setupMocks: func(m *MockMailer) {
				m.On("Send", mock.MatchedBy(func(mail smtp.Mail) bool {
					return mail.To == "c@example.com" && containsAll(mail.Text, "Request 42 was paid.")
				})).Return(nil).Once()
			},
		},
		{
			name:       "malformed message is dropped",
			body:       func(_ *testing.T) []byte { return []byte("{not json") },
			setupMocks: func(_ *MockMailer) {},
		},
		{
			name: "unknown kind is dropped",
			body: func(t *testing.T) []byte {
				return mustJSON(t, models.Notification{Kind: "sms", Email: "c@example.com"})
			},
			setupMocks: func(_ *MockMailer) {},
		},
		{
			name: "smtp failure requeues",
			body: func(t *testing.T) []byte {
				return mustJSON(t, models.Notification{
					Kind: models.NotificationPasswordReset, Email: "w@example.com", Link: "https://app/reset/tok",
				})
			},
			setupMocks: func(m *MockMailer) {
				m.On("Send", mock.Anything).Return(errors.New("smtp down")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailer := new(MockMailer)
			tt.setupMocks(mailer)
			svc := NewSenderService(newNoopLogger(), mailer)

			err := svc.Handle(tt.body(t))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			mailer.AssertExpectations(t)
		})
	}
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
