// Package jwt выпускает и проверяет сессионные токены участников.
//
// Токен несёт идентификатор участника и его роль, подписывается HS256
// и живёт фиксированное время (по умолчанию 24 часа, задаётся конфигом).
package jwt

import (
	"time"

	"github.com/magabrotheeeer/job-marketplace/internal/models"
)

// Maker описывает выпуск и разбор сессионных токенов.
type Maker interface {
	GenerateToken(actorID string, role models.Role) (string, error)
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует Maker на секретном ключе и TTL.
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewJWTMaker создаёт MakerImpl.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
		now:       time.Now,
	}
}

// TTL возвращает время жизни выпускаемых токенов.
func (j *MakerImpl) TTL() time.Duration {
	return j.tokenTTL
}
