// Package actors реализует администрирование участников: список и каскадное удаление.
package actors

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/job-marketplace/internal/ledger"
	"github.com/magabrotheeeer/job-marketplace/internal/lib/apperrors"
	"github.com/magabrotheeeer/job-marketplace/internal/models"
)

// Repository описывает контракт хранилища участников.
type Repository interface {
	ListActors(ctx context.Context, role models.Role) ([]models.Actor, error)
	DeleteActorCascade(ctx context.Context, actorID string) ([]string, error)
}

// JobCache сбрасывает кешированные карточки вакансий.
type JobCache interface {
	Invalidate(ctx context.Context, jobIDs ...string)
}

// Service управляет участниками.
type Service struct {
	log  *slog.Logger
	repo Repository
	jobs JobCache
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, repo Repository, jobs JobCache) *Service {
	return &Service{log: log, repo: repo, jobs: jobs}
}

// List возвращает участников, при непустой роли только с этой ролью.
func (s *Service) List(ctx context.Context, p models.Principal, role models.Role) ([]models.Actor, error) {
	const op = "actors.List"

	if err := ledger.Authorize(p, ledger.OpActorList, ledger.Target{}); err != nil {
		return nil, err
	}
	switch role {
	case "", models.RoleClient, models.RoleWorker, models.RoleAdmin:
	default:
		return nil, apperrors.Validation("unknown role filter")
	}
	list, err := s.repo.ListActors(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// Delete удаляет участника вместе с зависимыми записями. Запросы оплаты
// и платёжные транзакции сохраняются как финансовая история.
func (s *Service) Delete(ctx context.Context, p models.Principal, actorID string) error {
	const op = "actors.Delete"

	if err := ledger.Authorize(p, ledger.OpActorDelete, ledger.Target{}); err != nil {
		return err
	}
	if p.ID == actorID {
		return apperrors.PreconditionFailed("administrators cannot delete themselves")
	}

	touchedJobs, err := s.repo.DeleteActorCascade(ctx, actorID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.jobs.Invalidate(ctx, touchedJobs...)

	s.log.Info("actor deleted", slog.String("op", op), slog.String("actor_id", actorID),
		slog.Int("evicted_jobs", len(touchedJobs)))
	return nil
}
