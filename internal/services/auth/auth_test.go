package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/job-marketplace/internal/lib/apperrors"
	customjwt "github.com/magabrotheeeer/job-marketplace/internal/lib/jwt"
	"github.com/magabrotheeeer/job-marketplace/internal/lib/password"
	"github.com/magabrotheeeer/job-marketplace/internal/models"
)

type ActorRepoMock struct {
	mock.Mock
}

func (m *ActorRepoMock) CreateActor(ctx context.Context, a models.Actor) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *ActorRepoMock) GetActorByID(ctx context.Context, id string) (*models.Actor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Actor), args.Error(1)
}

func (m *ActorRepoMock) GetActorByEmail(ctx context.Context, email string) (*models.Actor, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Actor), args.Error(1)
}

func (m *ActorRepoMock) VerifyActor(ctx context.Context, token string) (*models.Actor, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Actor), args.Error(1)
}

func (m *ActorRepoMock) SetVerificationToken(ctx context.Context, actorID, token string) error {
	args := m.Called(ctx, actorID, token)
	return args.Error(0)
}

func (m *ActorRepoMock) SetResetToken(ctx context.Context, actorID, token string, expires time.Time) error {
	args := m.Called(ctx, actorID, token, expires)
	return args.Error(0)
}

func (m *ActorRepoMock) ResetPassword(ctx context.Context, token, passwordHash string, now time.Time) error {
	args := m.Called(ctx, token, passwordHash, now)
	return args.Error(0)
}

type JwtMakerMock struct {
	mock.Mock
}

func (m *JwtMakerMock) GenerateToken(actorID string, role models.Role) (string, error) {
	args := m.Called(actorID, role)
	return args.String(0), args.Error(1)
}

func (m *JwtMakerMock) ParseToken(token string) (*customjwt.CustomClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customjwt.CustomClaims), args.Error(1)
}

type NotifierMock struct {
	mock.Mock
}

func (m *NotifierMock) VerifyEmail(ctx context.Context, a models.Actor, token string) {
	m.Called(ctx, a, token)
}

func (m *NotifierMock) PasswordReset(ctx context.Context, a models.Actor, token string) {
	m.Called(ctx, a, token)
}

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService() (*AuthService, *ActorRepoMock, *JwtMakerMock, *NotifierMock) {
	repo := new(ActorRepoMock)
	jwtMock := new(JwtMakerMock)
	notifier := new(NotifierMock)
	svc := NewAuthService(newNoopLogger(), repo, jwtMock, notifier)
	svc.now = func() time.Time { return fixedNow }
	svc.newToken = func() string { return "token-123" }
	return svc, repo, jwtMock, notifier
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name       string
		input      RegisterInput
		setupMocks func(r *ActorRepoMock, n *NotifierMock)
		wantKind   apperrors.Kind
		wantErr    bool
	}{
		{
			name:  "successful registration",
			input: RegisterInput{Name: "Abebe", Email: " Abebe@Example.com ", Password: "password123", Role: models.RoleWorker},
			setupMocks: func(r *ActorRepoMock, n *NotifierMock) {
				r.On("CreateActor", mock.Anything, mock.MatchedBy(func(a models.Actor) bool {
					return a.Email == "abebe@example.com" &&
						a.Role == models.RoleWorker &&
						!a.Verified &&
						a.VerificationToken == "token-123" &&
						password.Compare(a.PasswordHash, "password123") == nil
				})).Return(nil).Once()
				n.On("VerifyEmail", mock.Anything, mock.AnythingOfType("models.Actor"), "token-123").Return().Once()
			},
		},
		{
			name:     "admin role rejected",
			input:    RegisterInput{Email: "a@example.com", Password: "password123", Role: models.RoleAdmin},
			wantKind: apperrors.KindInvalidRole,
			wantErr:  true,
		},
		{
			name:     "short password",
			input:    RegisterInput{Email: "a@example.com", Password: "short", Role: models.RoleClient},
			wantKind: apperrors.KindValidation,
			wantErr:  true,
		},
		{
			name:     "password over bcrypt limit",
			input:    RegisterInput{Email: "a@example.com", Password: strings.Repeat("p", 73), Role: models.RoleClient},
			wantKind: apperrors.KindValidation,
			wantErr:  true,
		},
		{
			name:  "duplicate email",
			input: RegisterInput{Email: "a@example.com", Password: "password123", Role: models.RoleClient},
			setupMocks: func(r *ActorRepoMock, _ *NotifierMock) {
				r.On("CreateActor", mock.Anything, mock.Anything).
					Return(apperrors.Duplicate("email already registered")).Once()
			},
			wantKind: apperrors.KindDuplicate,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _, notifier := newTestService()
			if tt.setupMocks != nil {
				tt.setupMocks(repo, notifier)
			}

			actor, err := svc.Register(context.Background(), tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, apperrors.KindOf(err))
				assert.Nil(t, actor)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, actor.ID)
				assert.Equal(t, fixedNow, actor.CreatedAt)
			}

			repo.AssertExpectations(t)
			notifier.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	rawPassword := "correctpassword"
	hashed, err := password.Hash(rawPassword)
	require.NoError(t, err)

	verified := &models.Actor{ID: "a1", Email: "c@example.com", Role: models.RoleClient, PasswordHash: hashed, Verified: true}
	unverified := &models.Actor{ID: "a2", Email: "u@example.com", Role: models.RoleClient, PasswordHash: hashed}

	tests := []struct {
		name       string
		email      string
		password   string
		setupMocks func(r *ActorRepoMock, j *JwtMakerMock)
		wantToken  string
		wantKind   apperrors.Kind
		wantErr    bool
		errMsg     string
	}{
		{
			name:     "successful login",
			email:    "C@example.com",
			password: rawPassword,
			setupMocks: func(r *ActorRepoMock, j *JwtMakerMock) {
				r.On("GetActorByEmail", mock.Anything, "c@example.com").Return(verified, nil).Once()
				j.On("GenerateToken", "a1", models.RoleClient).Return("jwt-token-123", nil).Once()
			},
			wantToken: "jwt-token-123",
		},
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: rawPassword,
			setupMocks: func(r *ActorRepoMock, _ *JwtMakerMock) {
				r.On("GetActorByEmail", mock.Anything, "nobody@example.com").
					Return(nil, apperrors.NotFound("actor not found")).Once()
			},
			wantKind: apperrors.KindUnauthenticated,
			wantErr:  true,
			errMsg:   "invalid credentials",
		},
		{
			name:     "wrong password",
			email:    "c@example.com",
			password: "wrongpassword",
			setupMocks: func(r *ActorRepoMock, _ *JwtMakerMock) {
				r.On("GetActorByEmail", mock.Anything, "c@example.com").Return(verified, nil).Once()
			},
			wantKind: apperrors.KindUnauthenticated,
			wantErr:  true,
			errMsg:   "invalid credentials",
		},
		{
			name:     "email not verified",
			email:    "u@example.com",
			password: rawPassword,
			setupMocks: func(r *ActorRepoMock, _ *JwtMakerMock) {
				r.On("GetActorByEmail", mock.Anything, "u@example.com").Return(unverified, nil).Once()
			},
			wantKind: apperrors.KindUnauthenticated,
			wantErr:  true,
			errMsg:   "not verified",
		},
		{
			name:     "token generation error",
			email:    "c@example.com",
			password: rawPassword,
			setupMocks: func(r *ActorRepoMock, j *JwtMakerMock) {
				r.On("GetActorByEmail", mock.Anything, "c@example.com").Return(verified, nil).Once()
				j.On("GenerateToken", "a1", models.RoleClient).Return("", errors.New("token error")).Once()
			},
			wantErr: true,
			errMsg:  "token error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, jwtMock, _ := newTestService()
			tt.setupMocks(repo, jwtMock)

			token, actor, err := svc.Login(context.Background(), tt.email, tt.password)
			if tt.wantErr {
				require.Error(t, err)
				if tt.wantKind != "" {
					assert.Equal(t, tt.wantKind, apperrors.KindOf(err))
				}
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
				assert.Equal(t, "a1", actor.ID)
			}

			repo.AssertExpectations(t)
			jwtMock.AssertExpectations(t)
		})
	}
}

func TestAuthService_ValidateToken(t *testing.T) {
	svc, _, jwtMock, _ := newTestService()
	jwtMock.On("ParseToken", "good").Return(&customjwt.CustomClaims{ActorID: "w1", Role: models.RoleWorker}, nil).Once()
	jwtMock.On("ParseToken", "bad").Return(nil, errors.New("token expired")).Once()

	p, err := svc.ValidateToken(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, models.Principal{ID: "w1", Role: models.RoleWorker}, p)

	_, err = svc.ValidateToken(context.Background(), "bad")
	assert.True(t, apperrors.Is(err, apperrors.KindUnauthenticated))
	jwtMock.AssertExpectations(t)
}

func TestAuthService_RequestPasswordReset(t *testing.T) {
	t.Run("known email gets a token", func(t *testing.T) {
		svc, repo, _, notifier := newTestService()
		actor := &models.Actor{ID: "a1", Email: "c@example.com"}
		repo.On("GetActorByEmail", mock.Anything, "c@example.com").Return(actor, nil).Once()
		repo.On("SetResetToken", mock.Anything, "a1", "token-123", fixedNow.Add(ResetTokenTTL)).Return(nil).Once()
		notifier.On("PasswordReset", mock.Anything, *actor, "token-123").Return().Once()

		require.NoError(t, svc.RequestPasswordReset(context.Background(), "c@example.com"))
		repo.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("unknown email is silent", func(t *testing.T) {
		svc, repo, _, notifier := newTestService()
		repo.On("GetActorByEmail", mock.Anything, "x@example.com").
			Return(nil, apperrors.NotFound("actor not found")).Once()

		require.NoError(t, svc.RequestPasswordReset(context.Background(), "x@example.com"))
		repo.AssertExpectations(t)
		notifier.AssertNotCalled(t, "PasswordReset", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthService_ResendVerification(t *testing.T) {
	unverified := &models.Actor{ID: "a1", Email: "w@example.com"}

	tests := []struct {
		name       string
		email      string
		setupMocks func(r *ActorRepoMock, n *NotifierMock)
		wantKind   apperrors.Kind
		wantMail   bool
	}{
		{
			name:  "unverified actor gets a fresh link",
			email: " W@Example.com ",
			setupMocks: func(r *ActorRepoMock, n *NotifierMock) {
				r.On("GetActorByEmail", mock.Anything, "w@example.com").Return(unverified, nil).Once()
				r.On("SetVerificationToken", mock.Anything, "a1", "token-123").Return(nil).Once()
				n.On("VerifyEmail", mock.Anything, *unverified, "token-123").Return().Once()
			},
			wantMail: true,
		},
		{
			name:  "unknown email is silent",
			email: "x@example.com",
			setupMocks: func(r *ActorRepoMock, _ *NotifierMock) {
				r.On("GetActorByEmail", mock.Anything, "x@example.com").
					Return(nil, apperrors.NotFound("actor not found")).Once()
			},
		},
		{
			name:  "verified account is a conflict",
			email: "v@example.com",
			setupMocks: func(r *ActorRepoMock, _ *NotifierMock) {
				r.On("GetActorByEmail", mock.Anything, "v@example.com").
					Return(&models.Actor{ID: "a2", Verified: true}, nil).Once()
			},
			wantKind: apperrors.KindConflict,
		},
		{
			name:  "verified between lookup and update",
			email: "w@example.com",
			setupMocks: func(r *ActorRepoMock, _ *NotifierMock) {
				r.On("GetActorByEmail", mock.Anything, "w@example.com").Return(unverified, nil).Once()
				r.On("SetVerificationToken", mock.Anything, "a1", "token-123").
					Return(apperrors.Conflict("account is already verified")).Once()
			},
			wantKind: apperrors.KindConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _, notifier := newTestService()
			tt.setupMocks(repo, notifier)

			err := svc.ResendVerification(context.Background(), tt.email)
			if tt.wantKind != "" {
				assert.True(t, apperrors.Is(err, tt.wantKind))
			} else {
				require.NoError(t, err)
			}
			if !tt.wantMail {
				notifier.AssertNotCalled(t, "VerifyEmail", mock.Anything, mock.Anything, mock.Anything)
			}
			repo.AssertExpectations(t)
			notifier.AssertExpectations(t)
		})
	}
}

func TestAuthService_ResetPassword(t *testing.T) {
	svc, repo, _, _ := newTestService()
	repo.On("ResetPassword", mock.Anything, "tok", mock.MatchedBy(func(hash string) bool {
		return password.Compare(hash, "newpassword1") == nil
	}), fixedNow).Return(nil).Once()
	repo.On("ResetPassword", mock.Anything, "stale", mock.Anything, fixedNow).
		Return(apperrors.NotFound("reset token is invalid or expired")).Once()

	require.NoError(t, svc.ResetPassword(context.Background(), "tok", "newpassword1"))

	err := svc.ResetPassword(context.Background(), "stale", "newpassword1")
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))

	err = svc.ResetPassword(context.Background(), "tok", "short")
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	err = svc.ResetPassword(context.Background(), "tok", strings.Repeat("n", 100))
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	repo.AssertExpectations(t)
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(r *ActorRepoMock)
		wantErr    bool
	}{
		{
			name: "creates missing admin",
			setupMocks: func(r *ActorRepoMock) {
				r.On("GetActorByEmail", mock.Anything, "admin@example.com").
					Return(nil, apperrors.NotFound("actor not found")).Once()
				r.On("CreateActor", mock.Anything, mock.MatchedBy(func(a models.Actor) bool {
					return a.Role == models.RoleAdmin && a.Verified
				})).Return(nil).Once()
			},
		},
		{
			name: "existing admin is kept",
			setupMocks: func(r *ActorRepoMock) {
				r.On("GetActorByEmail", mock.Anything, "admin@example.com").
					Return(&models.Actor{ID: "a1", Role: models.RoleAdmin}, nil).Once()
			},
		},
		{
			name: "email taken by a client",
			setupMocks: func(r *ActorRepoMock) {
				r.On("GetActorByEmail", mock.Anything, "admin@example.com").
					Return(&models.Actor{ID: "c1", Role: models.RoleClient}, nil).Once()
			},
			wantErr: true,
		},
		{
			name: "lost race with another instance",
			setupMocks: func(r *ActorRepoMock) {
				r.On("GetActorByEmail", mock.Anything, "admin@example.com").
					Return(nil, apperrors.NotFound("actor not found")).Once()
				r.On("CreateActor", mock.Anything, mock.Anything).
					Return(apperrors.Duplicate("email already registered")).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _, _ := newTestService()
			tt.setupMocks(repo)

			err := svc.EnsureAdmin(context.Background(), "admin@example.com", "adminpassword")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}
