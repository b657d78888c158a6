package middlewarectx

import (
	"context"

	"github.com/magabrotheeeer/job-marketplace/internal/models"
)

// Service описывает проверку сессионного токена.
type Service interface {
	ValidateToken(ctx context.Context, token string) (models.Principal, error)
}
