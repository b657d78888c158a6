// Package hire реализует прямые заявки клиента исполнителю: решение исполнителя,
// ход работ и избранное.
package hire

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

// Repository описывает контракт хранилища заявок.
type Repository interface {
	GetActorByID(ctx context.Context, id string) (*models.Actor, error)
	GetJob(ctx context.Context, id string) (*models.Job, error)
	CreateHireRequest(ctx context.Context, h models.HireRequest) error
	GetHireRequest(ctx context.Context, id string) (*models.HireRequest, error)
	UpdateHireStatus(ctx context.Context, id string, expectedVersion int, status models.HireStatus) (*models.HireRequest, error)
	UpdateHireProgress(ctx context.Context, id string, expectedVersion int, progress models.Progress) (*models.HireRequest, error)
	ToggleFavorite(ctx context.Context, requestID, actorID string) (bool, error)
	ListHireRequestsByClient(ctx context.Context, clientID string) ([]models.HireRequest, error)
	ListHireRequestsByWorker(ctx context.Context, workerID string) ([]models.HireRequest, error)
	ListFavoriteHireRequests(ctx context.Context, actorID string) ([]models.HireRequest, error)
}

// Notifier отправляет участнику уведомление о событии.
type Notifier interface {
	Workflow(ctx context.Context, actorID, subject, body string)
}

// CreateInput — данные новой заявки. JobID необязателен.
type CreateInput struct {
	WorkerID string
	JobID    string
	Message  string
}

// Service управляет заявками.
type Service struct {
	log      *slog.Logger
	repo     Repository
	notifier Notifier
	metrics  *metrics.Metrics
	now      func() time.Time
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, repo Repository, notifier Notifier, m *metrics.Metrics) *Service {
	return &Service{
		log:      log,
		repo:     repo,
		notifier: notifier,
		metrics:  m,
		now:      time.Now,
	}
}

func target(h *models.HireRequest) ledger.Target {
	return ledger.Target{ClientID: h.ClientID, WorkerID: h.WorkerID}
}

// Create отправляет заявку исполнителю. Повторные заявки той же паре допускаются.
func (s *Service) Create(ctx context.Context, p models.Principal, in CreateInput) (*models.HireRequest, error) {
	const op = "hire.Create"

	if p.Role != models.RoleClient {
		return nil, apperrors.InvalidRole("only clients can send hire requests")
	}
	worker, err := s.repo.GetActorByID(ctx, in.WorkerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if worker.Role != models.RoleWorker {
		return nil, apperrors.InvalidRole("hire requests can only target workers")
	}
	if err := ledger.Authorize(p, ledger.OpHireCreate, ledger.Target{ClientID: p.ID, WorkerID: worker.ID}); err != nil {
		return nil, err
	}
	if in.JobID != "" {
		if _, err := s.repo.GetJob(ctx, in.JobID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	now := s.now().UTC()
	req := models.HireRequest{
		ID:          uuid.NewString(),
		ClientID:    p.ID,
		WorkerID:    worker.ID,
		JobID:       in.JobID,
		Message:     in.Message,
		Status:      models.HirePending,
		Progress:    models.ProgressOngoing,
		FavoritedBy: []string{},
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateHireRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.notifier.Workflow(ctx, worker.ID, "New hire request", in.Message)
	s.log.Info("hire request created", slog.String("op", op), slog.String("request_id", req.ID))
	return &req, nil
}

// Decide принимает или отклоняет заявку. Решение принимает только адресат.
func (s *Service) Decide(ctx context.Context, p models.Principal, requestID string, to models.HireStatus) (*models.HireRequest, error) {
	const op = "hire.Decide"

	if to != models.HireAccepted && to != models.HireRejected {
		return nil, apperrors.Validation("status must be accepted or rejected")
	}
	req, err := s.repo.GetHireRequest(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ledger.Transition(ledger.HireStatuses, p, ledger.OpHireDecide, target(req), req.Status, to); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateHireStatus(ctx, req.ID, req.Version, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.Transition(ledger.HireStatuses.Entity(), string(to))
	s.notifier.Workflow(ctx, req.ClientID, "Hire request "+string(to),
		fmt.Sprintf("Your hire request %s was %s.", req.ID, to))
	return updated, nil
}

// SetProgress меняет ход работ по принятой заявке. Меняет только клиент-автор.
func (s *Service) SetProgress(ctx context.Context, p models.Principal, requestID string, to models.Progress) (*models.HireRequest, error) {
	const op = "hire.SetProgress"

	if to != models.ProgressOngoing && to != models.ProgressDone {
		return nil, apperrors.Validation("progress must be ongoing or done")
	}
	req, err := s.repo.GetHireRequest(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ledger.Authorize(p, ledger.OpHireProgress, target(req)); err != nil {
		return nil, err
	}
	if req.Status != models.HireAccepted {
		return nil, apperrors.PreconditionFailed("hire request is not accepted")
	}
	if err := ledger.HireProgress.Check(req.Progress, to); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateHireProgress(ctx, req.ID, req.Version, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.Transition(ledger.HireProgress.Entity(), string(to))
	if to == models.ProgressDone {
		s.notifier.Workflow(ctx, req.WorkerID, "Work marked as done",
			fmt.Sprintf("The client marked hire request %s as done.", req.ID))
	}
	return updated, nil
}

// GetProgress возвращает заявку участнику или администратору.
func (s *Service) GetProgress(ctx context.Context, p models.Principal, requestID string) (*models.HireRequest, error) {
	const op = "hire.GetProgress"

	req, err := s.repo.GetHireRequest(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ledger.Authorize(p, ledger.OpHireView, target(req)); err != nil {
		return nil, err
	}
	return req, nil
}

// ToggleFavorite добавляет заявку в избранное участника или убирает её оттуда.
func (s *Service) ToggleFavorite(ctx context.Context, p models.Principal, requestID string) (bool, error) {
	const op = "hire.ToggleFavorite"

	req, err := s.repo.GetHireRequest(ctx, requestID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if err := ledger.Authorize(p, ledger.OpHireFavorite, target(req)); err != nil {
		return false, err
	}
	favorited, err := s.repo.ToggleFavorite(ctx, req.ID, p.ID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return favorited, nil
}

// ListByClient возвращает заявки, отправленные клиентом.
func (s *Service) ListByClient(ctx context.Context, p models.Principal) ([]models.HireRequest, error) {
	const op = "hire.ListByClient"
	if err := ledger.Authorize(p, ledger.OpHireListSent, ledger.Target{ClientID: p.ID}); err != nil {
		return nil, err
	}
	list, err := s.repo.ListHireRequestsByClient(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// ListByWorker возвращает заявки, адресованные исполнителю.
func (s *Service) ListByWorker(ctx context.Context, p models.Principal) ([]models.HireRequest, error) {
	const op = "hire.ListByWorker"
	if err := ledger.Authorize(p, ledger.OpHireListReceived, ledger.Target{WorkerID: p.ID}); err != nil {
		return nil, err
	}
	list, err := s.repo.ListHireRequestsByWorker(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// ListFavorites возвращает избранные заявки участника.
func (s *Service) ListFavorites(ctx context.Context, p models.Principal) ([]models.HireRequest, error) {
	const op = "hire.ListFavorites"
	if err := ledger.Authorize(p, ledger.OpHireListFavorites, ledger.Target{}); err != nil {
		return nil, err
	}
	list, err := s.repo.ListFavoriteHireRequests(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}
