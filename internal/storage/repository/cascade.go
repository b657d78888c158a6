package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/job-marketplace/internal/lib/apperrors"
)

// cascadeStep — один шаг удаления участника.
type cascadeStep struct {
	name string
	run  func(ctx context.Context, tx *sql.Tx, actorID string) error
}

// StepError сообщает, на каком шаге каскадного удаления произошёл сбой.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("cascade step %q: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

func execStep(query string) func(ctx context.Context, tx *sql.Tx, actorID string) error {
	return func(ctx context.Context, tx *sql.Tx, actorID string) error {
		_, err := tx.ExecContext(ctx, query, actorID)
		return err
	}
}

// jobSet собирает идентификаторы вакансий без повторов, сохраняя порядок.
type jobSet struct {
	seen map[string]struct{}
	ids  []string
}

func (j *jobSet) collect(rows *sql.Rows) error {
	ids, err := collectStrings(rows)
	if err != nil {
		return err
	}
	if j.seen == nil {
		j.seen = make(map[string]struct{}, len(ids))
	}
	for _, id := range ids {
		if _, ok := j.seen[id]; ok {
			continue
		}
		j.seen[id] = struct{}{}
		j.ids = append(j.ids, id)
	}
	return nil
}

func (j *jobSet) step(query string) func(ctx context.Context, tx *sql.Tx, actorID string) error {
	return func(ctx context.Context, tx *sql.Tx, actorID string) error {
		rows, err := tx.QueryContext(ctx, query, actorID)
		if err != nil {
			return err
		}
		return j.collect(rows)
	}
}

// DeleteActorCascade удаляет участника и все зависящие от него записи
// по шагам в одной транзакции. Сбой любого шага откатывает предыдущие,
// ошибка содержит имя шага (*StepError). Запросы оплаты и платёжные
// транзакции сохраняются.
//
// Возвращает идентификаторы вакансий, чьи карточки устарели: удаленные
// вакансии участника, чужие вакансии, с которых сняты его отклики,
// и вакансии, из которых убраны его закладки.
func (s *Storage) DeleteActorCascade(ctx context.Context, actorID string) ([]string, error) {
	const op = "storage.DeleteActorCascade"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var touched jobSet
	steps := []cascadeStep{
		{
			name: "applications_by_actor",
			run:  touched.step(`DELETE FROM job_applications WHERE worker_id = $1 RETURNING job_id`),
		},
		{
			name: "applications_to_actor_jobs",
			run: execStep(`DELETE FROM job_applications
				WHERE job_id IN (SELECT id FROM jobs WHERE client_id = $1)`),
		},
		{
			name: "actor_jobs",
			run:  touched.step(`DELETE FROM jobs WHERE client_id = $1 RETURNING id`),
		},
		{
			name: "bookmarks_by_actor",
			run:  touched.step(`DELETE FROM job_bookmarks WHERE actor_id = $1 RETURNING job_id`),
		},
		{
			name: "hire_requests",
			run:  execStep(`DELETE FROM hire_requests WHERE client_id = $1 OR worker_id = $1`),
		},
		{
			name: "reviews_by_actor",
			run: func(ctx context.Context, tx *sql.Tx, actorID string) error {
				rows, err := tx.QueryContext(ctx,
					`DELETE FROM reviews WHERE client_id = $1 RETURNING worker_id`, actorID)
				if err != nil {
					return err
				}
				workers, err := collectStrings(rows)
				if err != nil {
					return err
				}
				for _, workerID := range workers {
					if err := recomputeRating(ctx, tx, workerID); err != nil {
						return err
					}
				}
				return nil
			},
		},
		{
			name: "worker_profile",
			run: func(ctx context.Context, tx *sql.Tx, actorID string) error {
				if _, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE worker_id = $1`, actorID); err != nil {
					return err
				}
				_, err := tx.ExecContext(ctx, `DELETE FROM worker_profiles WHERE user_id = $1`, actorID)
				return err
			},
		},
		{
			name: "actor",
			run: func(ctx context.Context, tx *sql.Tx, actorID string) error {
				res, err := tx.ExecContext(ctx, `DELETE FROM actors WHERE id = $1`, actorID)
				if err != nil {
					return err
				}
				if n, _ := res.RowsAffected(); n == 0 {
					return apperrors.NotFound("actor not found")
				}
				return nil
			},
		},
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var locked string
		if err := tx.QueryRowContext(ctx,
			`SELECT id FROM actors WHERE id = $1 FOR UPDATE`, actorID).Scan(&locked); err != nil {
			return notFoundOr(err, "actor")
		}
		for _, step := range steps {
			if err := step.run(ctx, tx, actorID); err != nil {
				return &StepError{Step: step.name, Err: err}
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return touched.ids, nil
}
