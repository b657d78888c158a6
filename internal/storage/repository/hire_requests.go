package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/job-marketplace/internal/lib/apperrors"
	"github.com/magabrotheeeer/job-marketplace/internal/models"
)

const hireColumns = `id, client_id, worker_id, job_id, message, status, progress,
			      version, created_at, updated_at`

func scanHireRequest(row rowScanner) (*models.HireRequest, error) {
	var h models.HireRequest
	var jobID sql.NullString
	if err := row.Scan(&h.ID, &h.ClientID, &h.WorkerID, &jobID, &h.Message, &h.Status,
		&h.Progress, &h.Version, &h.CreatedAt, &h.UpdatedAt); err != nil {
		return nil, err
	}
	h.JobID = jobID.String
	h.FavoritedBy = []string{}
	return &h, nil
}

// CreateHireRequest сохраняет заявку на найм.
func (s *Storage) CreateHireRequest(ctx context.Context, h models.HireRequest) error {
	const op = "storage.CreateHireRequest"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO hire_requests (id, client_id, worker_id, job_id, message, status,
			      progress, version, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, 1, $8, $8)`
	_, err := s.DB.ExecContext(ctx, query, h.ID, h.ClientID, h.WorkerID, nullString(h.JobID),
		h.Message, h.Status, h.Progress, h.CreatedAt)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%s: %w", op, apperrors.NotFound("worker or job not found"))
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetHireRequest возвращает заявку вместе со списком отметивших её избранной.
func (s *Storage) GetHireRequest(ctx context.Context, id string) (*models.HireRequest, error) {
	const op = "storage.GetHireRequest"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	h, err := scanHireRequest(s.DB.QueryRowContext(ctx,
		`SELECT `+hireColumns+` FROM hire_requests WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFoundOr(err, "hire request"))
	}
	rows, err := s.DB.QueryContext(ctx,
		`SELECT actor_id FROM hire_request_favorites WHERE request_id = $1 ORDER BY created_at, actor_id`, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if h.FavoritedBy, err = collectStrings(rows); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return h, nil
}

// UpdateHireStatus меняет статус заявки при совпадении версии.
func (s *Storage) UpdateHireStatus(ctx context.Context, id string, expectedVersion int,
	status models.HireStatus) (*models.HireRequest, error) {
	const op = "storage.UpdateHireStatus"
	query := `UPDATE hire_requests
			  SET status = $3, version = version + 1, updated_at = NOW()
			  WHERE id = $1 AND version = $2
			  RETURNING ` + hireColumns
	return s.updateHire(ctx, op, query, id, expectedVersion, status)
}

// UpdateHireProgress меняет ход работ. Допускается только для принятой заявки.
func (s *Storage) UpdateHireProgress(ctx context.Context, id string, expectedVersion int,
	progress models.Progress) (*models.HireRequest, error) {
	const op = "storage.UpdateHireProgress"
	query := `UPDATE hire_requests
			  SET progress = $3, version = version + 1, updated_at = NOW()
			  WHERE id = $1 AND version = $2 AND status = 'accepted'
			  RETURNING ` + hireColumns
	return s.updateHire(ctx, op, query, id, expectedVersion, progress)
}

func (s *Storage) updateHire(ctx context.Context, op, query, id string, expectedVersion int, value any) (*models.HireRequest, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	h, err := scanHireRequest(s.DB.QueryRowContext(ctx, query, id, expectedVersion, value))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, versionMiss(ctx, s.DB, "hire_requests", id, "hire request"))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFoundOr(err, "hire request"))
	}
	return h, nil
}

// ToggleFavorite отмечает заявку избранной для участника или снимает отметку.
// Если параллельный вызов успел поставить отметку, результат — true.
func (s *Storage) ToggleFavorite(ctx context.Context, requestID, actorID string) (bool, error) {
	const op = "storage.ToggleFavorite"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var favorite bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM hire_request_favorites WHERE request_id = $1 AND actor_id = $2`, requestID, actorID)
		if err != nil {
			return notFoundOr(err, "hire request")
		}
		if n, _ := res.RowsAffected(); n > 0 {
			favorite = false
			return nil
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO hire_request_favorites (request_id, actor_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, requestID, actorID)
		if isForeignKeyViolation(err) {
			return apperrors.NotFound("hire request not found")
		}
		if err != nil {
			return err
		}
		favorite = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return favorite, nil
}

// ListHireRequestsByClient возвращает заявки, отправленные клиентом.
func (s *Storage) ListHireRequestsByClient(ctx context.Context, clientID string) ([]models.HireRequest, error) {
	const op = "storage.ListHireRequestsByClient"
	return s.listHire(ctx, op, `SELECT `+hireColumns+` FROM hire_requests
		WHERE client_id = $1 ORDER BY created_at DESC, id`, clientID)
}

// ListHireRequestsByWorker возвращает заявки, полученные исполнителем.
func (s *Storage) ListHireRequestsByWorker(ctx context.Context, workerID string) ([]models.HireRequest, error) {
	const op = "storage.ListHireRequestsByWorker"
	return s.listHire(ctx, op, `SELECT `+hireColumns+` FROM hire_requests
		WHERE worker_id = $1 ORDER BY created_at DESC, id`, workerID)
}

// ListFavoriteHireRequests возвращает заявки, отмеченные участником.
func (s *Storage) ListFavoriteHireRequests(ctx context.Context, actorID string) ([]models.HireRequest, error) {
	const op = "storage.ListFavoriteHireRequests"
	return s.listHire(ctx, op, `SELECT h.id, h.client_id, h.worker_id, h.job_id, h.message, h.status,
		h.progress, h.version, h.created_at, h.updated_at
		FROM hire_requests h
		JOIN hire_request_favorites f ON f.request_id = h.id
		WHERE f.actor_id = $1 ORDER BY f.created_at DESC, h.id`, actorID)
}

func (s *Storage) listHire(ctx context.Context, op, query, arg string) ([]models.HireRequest, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	result := []models.HireRequest{}
	for rows.Next() {
		h, err := scanHireRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
