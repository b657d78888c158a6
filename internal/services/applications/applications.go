// Package applications реализует отклики исполнителей на вакансии.
//
// Список откликов в карточке вакансии строится из той же таблицы при чтении,
// поэтому статус отклика и его отражение в вакансии не расходятся.
package applications

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/job-marketplace/internal/ledger"
	"github.com/magabrotheeeer/job-marketplace/internal/lib/apperrors"
	"github.com/magabrotheeeer/job-marketplace/internal/metrics"
	"github.com/magabrotheeeer/job-marketplace/internal/models"
)

// Repository описывает контракт хранилища откликов.
type Repository interface {
	GetJob(ctx context.Context, id string) (*models.Job, error)
	CreateApplication(ctx context.Context, a models.Application) error
	HasApplied(ctx context.Context, jobID, workerID string) (bool, error)
	GetApplication(ctx context.Context, id string) (*models.Application, string, error)
	UpdateApplicationStatus(ctx context.Context, id string, expectedVersion int, status models.ApplicationStatus) (*models.Application, error)
	DeleteApplication(ctx context.Context, id string, expectedVersion int) error
	ListApplicationsByJob(ctx context.Context, jobID string) ([]models.Application, error)
	ListApplicationsByWorker(ctx context.Context, workerID string) ([]models.Application, error)
}

// JobCache сбрасывает кешированные карточки вакансий.
type JobCache interface {
	Invalidate(ctx context.Context, jobIDs ...string)
}

// Notifier отправляет участнику уведомление о событии.
type Notifier interface {
	Workflow(ctx context.Context, actorID, subject, body string)
}

// SubmitInput — данные нового отклика.
type SubmitInput struct {
	JobID     string
	Contact   models.Contact
	ResumeRef string
}

// Service управляет откликами.
type Service struct {
	log      *slog.Logger
	repo     Repository
	jobs     JobCache
	notifier Notifier
	metrics  *metrics.Metrics
	now      func() time.Time
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, repo Repository, jobs JobCache, notifier Notifier, m *metrics.Metrics) *Service {
	return &Service{
		log:      log,
		repo:     repo,
		jobs:     jobs,
		notifier: notifier,
		metrics:  m,
		now:      time.Now,
	}
}

// Submit создаёт отклик в статусе applied.
func (s *Service) Submit(ctx context.Context, p models.Principal, in SubmitInput) (*models.Application, error) {
	const op = "applications.Submit"

	if err := ledger.Authorize(p, ledger.OpApplicationSubmit, ledger.Target{WorkerID: p.ID}); err != nil {
		return nil, err
	}
	job, err := s.repo.GetJob(ctx, in.JobID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	applied, err := s.repo.HasApplied(ctx, in.JobID, p.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if applied {
		return nil, apperrors.Duplicate("already applied to this job")
	}

	now := s.now().UTC()
	app := models.Application{
		ID:        uuid.NewString(),
		JobID:     job.ID,
		WorkerID:  p.ID,
		Contact:   in.Contact,
		ResumeRef: in.ResumeRef,
		Status:    models.ApplicationApplied,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	// уникальный индекс (job_id, worker_id) закрывает гонку двух одновременных откликов
	if err := s.repo.CreateApplication(ctx, app); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.jobs.Invalidate(ctx, job.ID)
	s.notifier.Workflow(ctx, job.ClientID, "New application",
		fmt.Sprintf("A worker applied to your job %q.", job.Title))
	s.log.Info("application submitted", slog.String("op", op),
		slog.String("application_id", app.ID), slog.String("job_id", job.ID))
	return &app, nil
}

// Decide принимает или отклоняет отклик. Решение принимает только владелец вакансии.
func (s *Service) Decide(ctx context.Context, p models.Principal, applicationID string, to models.ApplicationStatus) (*models.Application, error) {
	const op = "applications.Decide"

	if to != models.ApplicationAccepted && to != models.ApplicationRejected {
		return nil, apperrors.Validation("status must be accepted or rejected")
	}
	app, ownerID, err := s.repo.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	target := ledger.Target{ClientID: ownerID, WorkerID: app.WorkerID}
	if err := ledger.Transition(ledger.Applications, p, ledger.OpApplicationDecide, target, app.Status, to); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateApplicationStatus(ctx, app.ID, app.Version, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.Transition(ledger.Applications.Entity(), string(to))
	s.jobs.Invalidate(ctx, app.JobID)
	s.notifier.Workflow(ctx, app.WorkerID, "Application "+string(to),
		fmt.Sprintf("Your application %s was %s.", app.ID, to))
	return updated, nil
}

// Withdraw отзывает отклик. Доступно только автору отклика.
func (s *Service) Withdraw(ctx context.Context, p models.Principal, applicationID string) error {
	const op = "applications.Withdraw"

	app, _, err := s.repo.GetApplication(ctx, applicationID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := ledger.Authorize(p, ledger.OpApplicationWithdraw, ledger.Target{WorkerID: app.WorkerID}); err != nil {
		return err
	}
	if err := s.repo.DeleteApplication(ctx, app.ID, app.Version); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.jobs.Invalidate(ctx, app.JobID)
	return nil
}

// ListForJob возвращает отклики на вакансию владельцу или администратору.
func (s *Service) ListForJob(ctx context.Context, p models.Principal, jobID string) ([]models.Application, error) {
	const op = "applications.ListForJob"

	job, err := s.repo.GetJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ledger.Authorize(p, ledger.OpApplicationListForJob, ledger.Target{ClientID: job.ClientID}); err != nil {
		return nil, err
	}
	apps, err := s.repo.ListApplicationsByJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return apps, nil
}

// ListForWorker возвращает отклики исполнителя, новые первыми.
func (s *Service) ListForWorker(ctx context.Context, p models.Principal, workerID string) ([]models.Application, error) {
	const op = "applications.ListForWorker"

	if err := ledger.Authorize(p, ledger.OpApplicationListForUser, ledger.Target{WorkerID: workerID}); err != nil {
		return nil, err
	}
	apps, err := s.repo.ListApplicationsByWorker(ctx, workerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return apps, nil
}
