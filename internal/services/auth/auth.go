// Package auth реализует регистрацию, подтверждение e-mail и повторную
// отправку письма, вход, сброс пароля и создание администратора при старте.
//
// Пароль хешируется ровно один раз, внутри этого пакета, до любой записи:
// хранилище получает только хеши.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/job-marketplace/internal/lib/apperrors"
	"github.com/magabrotheeeer/job-marketplace/internal/lib/jwt"
	"github.com/magabrotheeeer/job-marketplace/internal/lib/password"
	"github.com/magabrotheeeer/job-marketplace/internal/models"
)

// ResetTokenTTL — время жизни токена сброса пароля.
const ResetTokenTTL = time.Hour

// ActorRepository описывает контракт хранилища участников.
type ActorRepository interface {
	CreateActor(ctx context.Context, a models.Actor) error
	GetActorByID(ctx context.Context, id string) (*models.Actor, error)
	GetActorByEmail(ctx context.Context, email string) (*models.Actor, error)
	VerifyActor(ctx context.Context, token string) (*models.Actor, error)
	SetVerificationToken(ctx context.Context, actorID, token string) error
	SetResetToken(ctx context.Context, actorID, token string, expires time.Time) error
	ResetPassword(ctx context.Context, token, passwordHash string, now time.Time) error
}

// Notifier отправляет письма с одноразовыми ссылками.
type Notifier interface {
	VerifyEmail(ctx context.Context, a models.Actor, token string)
	PasswordReset(ctx context.Context, a models.Actor, token string)
}

// RegisterInput — данные регистрации.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
	Phone    string
}

// AuthService отвечает за учётные записи и выпуск сессионных токенов.
type AuthService struct {
	log      *slog.Logger
	actors   ActorRepository
	jwtMaker jwt.Maker
	notifier Notifier
	now      func() time.Time
	newToken func() string
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(log *slog.Logger, actors ActorRepository, jwtMaker jwt.Maker, notifier Notifier) *AuthService {
	return &AuthService{
		log:      log,
		actors:   actors,
		jwtMaker: jwtMaker,
		notifier: notifier,
		now:      time.Now,
		newToken: func() string { return strings.ReplaceAll(uuid.NewString(), "-", "") },
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register создаёт неподтверждённого клиента или исполнителя и отправляет
// письмо со ссылкой подтверждения.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.Actor, error) {
	const op = "auth.Register"

	if in.Role != models.RoleClient && in.Role != models.RoleWorker {
		return nil, apperrors.InvalidRole("role must be client or worker")
	}
	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	actor := models.Actor{
		ID:                uuid.NewString(),
		Role:              in.Role,
		Name:              strings.TrimSpace(in.Name),
		Email:             normalizeEmail(in.Email),
		Phone:             in.Phone,
		PasswordHash:      hash,
		VerificationToken: s.newToken(),
		CreatedAt:         s.now().UTC(),
	}
	if err := s.actors.CreateActor(ctx, actor); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("actor registered", slog.String("op", op), slog.String("actor_id", actor.ID), slog.String("role", string(actor.Role)))
	s.notifier.VerifyEmail(ctx, actor, actor.VerificationToken)
	return &actor, nil
}

// VerifyEmail подтверждает e-mail по токену из письма.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*models.Actor, error) {
	const op = "auth.VerifyEmail"
	if token == "" {
		return nil, apperrors.NotFound("verification token not found")
	}
	actor, err := s.actors.VerifyActor(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return actor, nil
}

// ResendVerification выпускает новый токен подтверждения и отправляет его
// на почту. Прежний токен перестаёт действовать. Для неизвестного e-mail
// ничего не делает, для подтверждённой учётной записи возвращает Conflict.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	const op = "auth.ResendVerification"

	actor, err := s.actors.GetActorByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if apperrors.Is(err, apperrors.KindNotFound) {
			s.log.Info("verification resend for unknown email", slog.String("op", op))
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if actor.Verified {
		return apperrors.Conflict("account is already verified")
	}

	token := s.newToken()
	if err := s.actors.SetVerificationToken(ctx, actor.ID, token); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.notifier.VerifyEmail(ctx, *actor, token)
	return nil
}

// Login проверяет учётные данные и выпускает токен. Неизвестный e-mail
// и неверный пароль неразличимы для вызывающего.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, *models.Actor, error) {
	const op = "auth.Login"

	actor, err := s.actors.GetActorByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if apperrors.Is(err, apperrors.KindNotFound) {
			return "", nil, apperrors.Unauthenticated("invalid credentials")
		}
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.Compare(actor.PasswordHash, rawPassword); err != nil {
		return "", nil, apperrors.Unauthenticated("invalid credentials")
	}
	if !actor.Verified {
		return "", nil, apperrors.Unauthenticated("email is not verified")
	}

	token, err := s.jwtMaker.GenerateToken(actor.ID, actor.Role)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return token, actor, nil
}

// ValidateToken разбирает сессионный токен и возвращает участника запроса.
func (s *AuthService) ValidateToken(_ context.Context, token string) (models.Principal, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return models.Principal{}, apperrors.Unauthenticated("invalid or expired token")
	}
	return models.Principal{ID: claims.ActorID, Role: claims.Role}, nil
}

// RequestPasswordReset создаёт токен сброса и отправляет его на почту.
// Для неизвестного e-mail ничего не делает, чтобы не раскрывать наличие учётной записи.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	const op = "auth.RequestPasswordReset"

	actor, err := s.actors.GetActorByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if apperrors.Is(err, apperrors.KindNotFound) {
			s.log.Info("password reset for unknown email", slog.String("op", op))
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	token := s.newToken()
	if err := s.actors.SetResetToken(ctx, actor.ID, token, s.now().Add(ResetTokenTTL)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.notifier.PasswordReset(ctx, *actor, token)
	return nil
}

// ResetPassword устанавливает новый пароль по действующему токену.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	const op = "auth.ResetPassword"
	if token == "" {
		return apperrors.NotFound("reset token is invalid or expired")
	}
	hash, err := password.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.actors.ResetPassword(ctx, token, hash, s.now()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Me возвращает участника текущей сессии.
func (s *AuthService) Me(ctx context.Context, actorID string) (*models.Actor, error) {
	const op = "auth.Me"
	actor, err := s.actors.GetActorByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return actor, nil
}

// EnsureAdmin создаёт подтверждённого администратора, если его ещё нет.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, rawPassword string) error {
	const op = "auth.EnsureAdmin"
	if email == "" {
		return nil
	}

	existing, err := s.actors.GetActorByEmail(ctx, normalizeEmail(email))
	switch {
	case err == nil:
		if existing.Role != models.RoleAdmin {
			return fmt.Errorf("%s: %w", op, apperrors.InvalidRole("admin email belongs to a non-admin actor"))
		}
		return nil
	case !apperrors.Is(err, apperrors.KindNotFound):
		return fmt.Errorf("%s: %w", op, err)
	}

	hash, err := password.Hash(rawPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	admin := models.Actor{
		ID:           uuid.NewString(),
		Role:         models.RoleAdmin,
		Name:         "Administrator",
		Email:        normalizeEmail(email),
		PasswordHash: hash,
		Verified:     true,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.actors.CreateActor(ctx, admin); err != nil {
		// параллельный экземпляр успел создать администратора первым
		if apperrors.Is(err, apperrors.KindDuplicate) {
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("admin account created", slog.String("op", op), slog.String("actor_id", admin.ID))
	return nil
}
