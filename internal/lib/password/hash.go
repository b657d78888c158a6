// Package password отвечает за хеширование и проверку паролей участников.
//
// Пароль хешируется ровно один раз: сервис аутентификации вызывает Hash
// перед любой записью, хранилище получает только готовый bcrypt-хеш.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/magabrotheeeer/job-marketplace/internal/lib/apperrors"
)

const (
	// MinLength — минимальная длина пароля.
	MinLength = 8
	// MaxBytes — предел bcrypt: более длинный пароль он не принимает.
	MaxBytes = 72
)

// Hash проверяет длину пароля и возвращает его bcrypt-хеш.
func Hash(raw string) (string, error) {
	const op = "password.Hash"
	if len(raw) < MinLength {
		return "", fmt.Errorf("%s: %w", op,
			apperrors.Validation(fmt.Sprintf("password must be at least %d characters", MinLength)))
	}
	if len(raw) > MaxBytes {
		return "", fmt.Errorf("%s: %w", op,
			apperrors.Validation(fmt.Sprintf("password must be at most %d bytes", MaxBytes)))
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// Compare сверяет хеш с введённым паролем. Возвращает nil при совпадении.
func Compare(hash, raw string) error {
	const op = "password.Compare"
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
