package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/magabrotheeeer/job-marketplace/internal/lib/apperrors"
	"github.com/magabrotheeeer/job-marketplace/internal/models"
)

const actorColumns = `id, role, name, email, phone, gender, password_hash, verified, is_subscribed,
			      verification_token, reset_token, reset_token_expires, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanActor(row rowScanner) (*models.Actor, error) {
	var a models.Actor
	var verificationToken, resetToken sql.NullString
	var resetExpires sql.NullTime
	if err := row.Scan(&a.ID, &a.Role, &a.Name, &a.Email, &a.Phone, &a.Gender, &a.PasswordHash,
		&a.Verified, &a.IsSubscribed, &verificationToken, &resetToken, &resetExpires,
		&a.CreatedAt); err != nil {
		return nil, err
	}
	a.VerificationToken = verificationToken.String
	a.ResetToken = resetToken.String
	if resetExpires.Valid {
		a.ResetTokenExpires = &resetExpires.Time
	}
	return &a, nil
}

// CreateActor сохраняет нового участника. Повторный e-mail даёт Duplicate.
func (s *Storage) CreateActor(ctx context.Context, a models.Actor) error {
	const op = "storage.CreateActor"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO actors (id, role, name, email, phone, password_hash, verified,
			      is_subscribed, verification_token, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := s.DB.ExecContext(ctx, query, a.ID, a.Role, a.Name, a.Email, a.Phone,
		a.PasswordHash, a.Verified, a.IsSubscribed, nullString(a.VerificationToken), a.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, apperrors.Duplicate("email is already registered"))
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetActorByID возвращает участника по идентификатору.
func (s *Storage) GetActorByID(ctx context.Context, id string) (*models.Actor, error) {
	const op = "storage.GetActorByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + actorColumns + ` FROM actors WHERE id = $1`
	a, err := scanActor(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFoundOr(err, "actor"))
	}
	return a, nil
}

// GetActorByEmail возвращает участника по e-mail.
func (s *Storage) GetActorByEmail(ctx context.Context, email string) (*models.Actor, error) {
	const op = "storage.GetActorByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + actorColumns + ` FROM actors WHERE email = $1`
	a, err := scanActor(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFoundOr(err, "actor"))
	}
	return a, nil
}

// VerifyActor подтверждает e-mail по одноразовому токену.
func (s *Storage) VerifyActor(ctx context.Context, token string) (*models.Actor, error) {
	const op = "storage.VerifyActor"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE actors SET verified = TRUE, verification_token = NULL
			  WHERE verification_token = $1
			  RETURNING ` + actorColumns
	a, err := scanActor(s.DB.QueryRowContext(ctx, query, token))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFoundOr(err, "verification token"))
	}
	return a, nil
}

// SetVerificationToken заменяет токен подтверждения e-mail. Для уже
// подтверждённого участника возвращает Conflict.
func (s *Storage) SetVerificationToken(ctx context.Context, actorID, token string) error {
	const op = "storage.SetVerificationToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE actors SET verification_token = $2 WHERE id = $1 AND verified = FALSE`,
		actorID, token)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, apperrors.Conflict("account is already verified"))
	}
	return nil
}

// SetResetToken сохраняет токен сброса пароля и срок его действия.
func (s *Storage) SetResetToken(ctx context.Context, actorID, token string, expires time.Time) error {
	const op = "storage.SetResetToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE actors SET reset_token = $2, reset_token_expires = $3 WHERE id = $1`,
		actorID, token, expires)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, apperrors.NotFound("actor not found"))
	}
	return nil
}

// ResetPassword заменяет хеш пароля, если токен существует и не истёк.
// Токен гасится в том же запросе.
func (s *Storage) ResetPassword(ctx context.Context, token, passwordHash string, now time.Time) error {
	const op = "storage.ResetPassword"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE actors
			  SET password_hash = $2, reset_token = NULL, reset_token_expires = NULL
			  WHERE reset_token = $1 AND reset_token_expires > $3`
	res, err := s.DB.ExecContext(ctx, query, token, passwordHash, now)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, apperrors.NotFound("reset token is invalid or expired"))
	}
	return nil
}

// ListActors возвращает участников, при непустом role только с этой ролью.
func (s *Storage) ListActors(ctx context.Context, role models.Role) ([]models.Actor, error) {
	const op = "storage.ListActors"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + actorColumns + ` FROM actors
			  WHERE ($1 = '' OR role = $1)
			  ORDER BY created_at DESC, id`
	rows, err := s.DB.QueryContext(ctx, query, string(role))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []models.Actor{}
	for rows.Next() {
		a, err := scanActor(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateClientProfile меняет контактные данные клиента. Пустые поля
// остаются прежними.
func (s *Storage) UpdateClientProfile(ctx context.Context, actorID string, in models.ClientProfileUpdate) (*models.Actor, error) {
	const op = "storage.UpdateClientProfile"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE actors
			  SET name = COALESCE(NULLIF($2, ''), name),
			      phone = COALESCE(NULLIF($3, ''), phone),
			      gender = COALESCE(NULLIF($4, ''), gender)
			  WHERE id = $1 AND role = 'client'
			  RETURNING ` + actorColumns
	a, err := scanActor(s.DB.QueryRowContext(ctx, query, actorID, in.Name, in.Phone, in.Gender))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFoundOr(err, "client"))
	}
	return a, nil
}
