// Package reconciler периодически сверяет со шлюзом транзакции, которые
// слишком долго остаются в pending.
package reconciler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/job-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/job-marketplace/internal/models"
)

// PendingRepository находит зависшие транзакции и запоминает, когда они
// сверялись, чтобы следующий проход начал с других.
type PendingRepository interface {
	ListStalePendingTransactions(ctx context.Context, olderThan time.Time, limit int) ([]string, error)
	MarkReconcileAttempt(ctx context.Context, externalRef string, at time.Time) error
}

// Verifier уточняет статус транзакции у шлюза.
type Verifier interface {
	Reconcile(ctx context.Context, externalRef string) (*models.PaymentTransaction, error)
}

// Options параметры сверки.
type Options struct {
	Interval time.Duration
	MinAge   time.Duration
	Batch    int
}

// SchedulerService запускает сверку по таймеру.
type SchedulerService struct {
	repo     PendingRepository
	verifier Verifier
	log      *slog.Logger
	opts     Options
	now      func() time.Time
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo PendingRepository, verifier Verifier, log *slog.Logger, opts Options) *SchedulerService {
	return &SchedulerService{
		repo:     repo,
		verifier: verifier,
		log:      log,
		opts:     opts,
		now:      time.Now,
	}
}

// Result итог одного прохода.
type Result struct {
	Checked   int
	Finalized int
	Failed    int
}

// Run выполняет проход сразу и затем каждые Interval, пока не отменён ctx.
func (s *SchedulerService) Run(ctx context.Context) {
	s.runOnce(ctx)

	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *SchedulerService) runOnce(ctx context.Context) {
	if _, err := s.ReconcileOnce(ctx); err != nil {
		s.log.Error("reconciliation pass failed", sl.Err(err))
	}
}

// ReconcileOnce сверяет одну партию транзакций старше MinAge. Ошибка
// отдельной транзакции не прерывает проход. Транзакция, оставшаяся
// в pending, уходит в конец очереди.
func (s *SchedulerService) ReconcileOnce(ctx context.Context) (Result, error) {
	const op = "reconciler.ReconcileOnce"
	log := s.log.With(slog.String("op", op))

	refs, err := s.repo.ListStalePendingTransactions(ctx, s.now().Add(-s.opts.MinAge), s.opts.Batch)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}
	if len(refs) == 0 {
		log.Debug("no stale pending transactions found")
		return Result{}, nil
	}

	var res Result
	for _, ref := range refs {
		if ctx.Err() != nil {
			break
		}
		res.Checked++
		tx, err := s.verifier.Reconcile(ctx, ref)
		switch {
		case err != nil:
			res.Failed++
			log.Warn("failed to reconcile transaction", slog.String("tx_ref", ref), sl.Err(err), sl.ErrKind(err))
		case tx.Status.Terminal():
			res.Finalized++
			continue
		}
		if err := s.repo.MarkReconcileAttempt(ctx, ref, s.now()); err != nil {
			log.Warn("failed to record reconcile attempt", slog.String("tx_ref", ref), sl.Err(err))
		}
	}

	log.Info("reconciliation pass finished",
		slog.Int("checked", res.Checked),
		slog.Int("finalized", res.Finalized),
		slog.Int("failed", res.Failed))
	return res, nil
}
