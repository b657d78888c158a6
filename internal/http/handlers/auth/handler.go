// Package auth реализует HTTP-обработчики регистрации, входа и выхода,
// подтверждения e-mail и сброса пароля.
package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/job-marketplace/internal/models"
	authservice "github.com/magabrotheeeer/job-marketplace/internal/services/auth"
)

// Service описывает интерфейс бизнес-логики аутентификации.
type Service interface {
	Register(ctx context.Context, in authservice.RegisterInput) (*models.Actor, error)
	VerifyEmail(ctx context.Context, token string) (*models.Actor, error)
	ResendVerification(ctx context.Context, email string) error
	Login(ctx context.Context, email, rawPassword string) (string, *models.Actor, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	Me(ctx context.Context, actorID string) (*models.Actor, error)
}

// Handler обрабатывает HTTP-запросы аутентификации.
type Handler struct {
	log       *slog.Logger
	service   Service
	validate  *validator.Validate
	cookieTTL time.Duration
	secure    bool
}

// New создает Handler. cookieTTL задаёт время жизни cookie с токеном,
// secure включает флаг Secure у cookie.
func New(log *slog.Logger, service Service, cookieTTL time.Duration, secure bool) *Handler {
	return &Handler{
		log:       log,
		service:   service,
		validate:  validator.New(),
		cookieTTL: cookieTTL,
		secure:    secure,
	}
}
