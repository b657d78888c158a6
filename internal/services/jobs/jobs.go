// Package jobs реализует публикацию вакансий, закладки и кеширование карточки вакансии.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/job-marketplace/internal/ledger"
	"github.com/magabrotheeeer/job-marketplace/internal/lib/apperrors"
	"github.com/magabrotheeeer/job-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/job-marketplace/internal/models"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Repository описывает контракт хранилища вакансий.
type Repository interface {
	CreateJob(ctx context.Context, j models.Job) error
	GetJob(ctx context.Context, id string) (*models.Job, error)
	ListJobs(ctx context.Context, f models.JobFilter) ([]models.Job, error)
	ListBookmarkedJobs(ctx context.Context, actorID string) ([]models.Job, error)
	UpdateJob(ctx context.Context, id string, expectedVersion int, in models.JobInput) (*models.Job, error)
	DeleteJob(ctx context.Context, id string, expectedVersion int) error
	ToggleBookmark(ctx context.Context, jobID, actorID string) (bool, error)
}

// Cache описывает контракт кеша карточек вакансий.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Add(ctx context.Context, key string, value any, expiration time.Duration) (bool, error)
	Invalidate(ctx context.Context, keys ...string) error
}

// Service управляет вакансиями.
type Service struct {
	log   *slog.Logger
	repo  Repository
	cache Cache
	ttl   time.Duration
	now   func() time.Time
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, repo Repository, cache Cache, ttl time.Duration) *Service {
	return &Service{
		log:   log,
		repo:  repo,
		cache: cache,
		ttl:   ttl,
		now:   time.Now,
	}
}

// CacheKey возвращает ключ карточки вакансии в кеше.
func CacheKey(jobID string) string {
	return "job:" + jobID
}

func validateBudget(b models.Budget) error {
	if math.IsNaN(b.Min) || math.IsNaN(b.Max) || math.IsInf(b.Min, 0) || math.IsInf(b.Max, 0) {
		return apperrors.Validation("budget must be finite")
	}
	if b.Min < 0 || b.Max < 0 {
		return apperrors.Validation("budget must not be negative")
	}
	if b.Min > b.Max {
		return apperrors.Validation("budget min must not exceed max")
	}
	return nil
}

// Create публикует вакансию от имени клиента.
func (s *Service) Create(ctx context.Context, p models.Principal, in models.JobInput) (*models.Job, error) {
	const op = "jobs.Create"

	if err := ledger.Authorize(p, ledger.OpJobCreate, ledger.Target{ClientID: p.ID}); err != nil {
		return nil, err
	}
	if err := validateBudget(in.Budget); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	job := models.Job{
		ID:           uuid.NewString(),
		ClientID:     p.ID,
		Title:        in.Title,
		Location:     in.Location,
		Type:         in.Type,
		Description:  in.Description,
		Category:     in.Category,
		Budget:       in.Budget,
		Applications: []models.ApplicationEntry{},
		BookmarkedBy: []string{},
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("job created", slog.String("op", op), slog.String("job_id", job.ID))
	return &job, nil
}

// Get возвращает карточку вакансии, сначала из кеша. Промах заполняется
// через Add: если запись вакансии или откликов инвалидировала ключ после
// чтения из БД, прочитанная карточка в кеш не попадает.
func (s *Service) Get(ctx context.Context, jobID string) (*models.Job, error) {
	const op = "jobs.Get"

	var cached models.Job
	found, err := s.cache.Get(ctx, CacheKey(jobID), &cached)
	if err != nil {
		s.log.Warn("job cache read failed", slog.String("op", op), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	job, err := s.repo.GetJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := s.cache.Add(ctx, CacheKey(jobID), job, s.ttl); err != nil {
		s.log.Warn("job cache write failed", slog.String("op", op), sl.Err(err))
	}
	return job, nil
}

// List возвращает вакансии по фильтру, новые первыми.
func (s *Service) List(ctx context.Context, f models.JobFilter) ([]models.Job, error) {
	const op = "jobs.List"
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	jobs, err := s.repo.ListJobs(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return jobs, nil
}

func (s *Service) owned(ctx context.Context, p models.Principal, jobID string, operation ledger.Operation) (*models.Job, error) {
	job, err := s.repo.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := ledger.Authorize(p, operation, ledger.Target{ClientID: job.ClientID}); err != nil {
		return nil, err
	}
	return job, nil
}

// Update изменяет вакансию владельца. expectedVersion защищает от потерянных обновлений.
func (s *Service) Update(ctx context.Context, p models.Principal, jobID string, expectedVersion int, in models.JobInput) (*models.Job, error) {
	const op = "jobs.Update"

	job, err := s.owned(ctx, p, jobID, ledger.OpJobUpdate)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := validateBudget(in.Budget); err != nil {
		return nil, err
	}
	if expectedVersion == 0 {
		expectedVersion = job.Version
	}

	updated, err := s.repo.UpdateJob(ctx, jobID, expectedVersion, in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.Invalidate(ctx, jobID)
	return updated, nil
}

// Delete удаляет вакансию владельца вместе с откликами на неё.
func (s *Service) Delete(ctx context.Context, p models.Principal, jobID string) error {
	const op = "jobs.Delete"

	job, err := s.owned(ctx, p, jobID, ledger.OpJobDelete)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.DeleteJob(ctx, jobID, job.Version); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.Invalidate(ctx, jobID)
	s.log.Info("job deleted", slog.String("op", op), slog.String("job_id", jobID))
	return nil
}

// ToggleBookmark добавляет вакансию в закладки участника или убирает её оттуда.
func (s *Service) ToggleBookmark(ctx context.Context, p models.Principal, jobID string) (bool, error) {
	const op = "jobs.ToggleBookmark"
	if p.ID == "" {
		return false, apperrors.Unauthenticated("authentication required")
	}
	bookmarked, err := s.repo.ToggleBookmark(ctx, jobID, p.ID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	s.Invalidate(ctx, jobID)
	return bookmarked, nil
}

// ListBookmarked возвращает вакансии из закладок участника.
func (s *Service) ListBookmarked(ctx context.Context, p models.Principal) ([]models.Job, error) {
	const op = "jobs.ListBookmarked"
	jobs, err := s.repo.ListBookmarkedJobs(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return jobs, nil
}

// Invalidate сбрасывает кеш карточек. Ошибка кеша только логируется.
func (s *Service) Invalidate(ctx context.Context, jobIDs ...string) {
	if len(jobIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(jobIDs))
	for _, id := range jobIDs {
		keys = append(keys, CacheKey(id))
	}
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.log.Warn("job cache invalidation failed", slog.String("op", "jobs.Invalidate"), sl.Err(err))
	}
}
