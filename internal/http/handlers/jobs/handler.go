// Package jobs реализует HTTP-обработчики вакансий и закладок.
package jobs

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/job-marketplace/internal/models"
)

// Service описывает интерфейс бизнес-логики вакансий.
type Service interface {
	Create(ctx context.Context, p models.Principal, in models.JobInput) (*models.Job, error)
	Get(ctx context.Context, jobID string) (*models.Job, error)
	List(ctx context.Context, f models.JobFilter) ([]models.Job, error)
	Update(ctx context.Context, p models.Principal, jobID string, expectedVersion int, in models.JobInput) (*models.Job, error)
	Delete(ctx context.Context, p models.Principal, jobID string) error
	ToggleBookmark(ctx context.Context, p models.Principal, jobID string) (bool, error)
	ListBookmarked(ctx context.Context, p models.Principal) ([]models.Job, error)
}

// Handler обрабатывает запросы к вакансиям.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// UpdateRequest — новые поля вакансии и версия, которую видел клиент.
// Нулевая версия отключает проверку.
type UpdateRequest struct {
	models.JobInput
	Version int `json:"version" validate:"gte=0"`
}
