package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/job-marketplace/internal/lib/apperrors"
	"github.com/magabrotheeeer/job-marketplace/internal/models"
)

const jobColumns = `id, client_id, title, location, type, description, category,
			      budget_min, budget_max, version, created_at, updated_at`

func scanJob(row rowScanner) (*models.Job, error) {
	var j models.Job
	if err := row.Scan(&j.ID, &j.ClientID, &j.Title, &j.Location, &j.Type, &j.Description,
		&j.Category, &j.Budget.Min, &j.Budget.Max, &j.Version, &j.CreatedAt, &j.UpdatedAt); err != nil {
		return nil, err
	}
	j.Applications = []models.ApplicationEntry{}
	j.BookmarkedBy = []string{}
	return &j, nil
}

// CreateJob сохраняет вакансию.
func (s *Storage) CreateJob(ctx context.Context, j models.Job) error {
	const op = "storage.CreateJob"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO jobs (id, client_id, title, location, type, description, category,
			      budget_min, budget_max, version, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1, $10, $10)`
	_, err := s.DB.ExecContext(ctx, query, j.ID, j.ClientID, j.Title, j.Location, j.Type,
		j.Description, j.Category, j.Budget.Min, j.Budget.Max, j.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetJob возвращает вакансию вместе с откликами и закладками.
// Список откликов строится из таблицы job_applications при чтении.
func (s *Storage) GetJob(ctx context.Context, id string) (*models.Job, error) {
	const op = "storage.GetJob"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	j, err := scanJob(s.DB.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFoundOr(err, "job"))
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, worker_id, status, created_at FROM job_applications
		 WHERE job_id = $1 ORDER BY created_at, id`, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	for rows.Next() {
		var e models.ApplicationEntry
		if err := rows.Scan(&e.ApplicationID, &e.WorkerID, &e.Status, &e.AppliedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		j.Applications = append(j.Applications, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	bookmarks, err := s.DB.QueryContext(ctx,
		`SELECT actor_id FROM job_bookmarks WHERE job_id = $1 ORDER BY created_at, actor_id`, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if j.BookmarkedBy, err = collectStrings(bookmarks); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return j, nil
}

// ListJobs возвращает вакансии по фильтру, новые первыми.
func (s *Storage) ListJobs(ctx context.Context, f models.JobFilter) ([]models.Job, error) {
	const op = "storage.ListJobs"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + jobColumns + ` FROM jobs
			  WHERE ($1 = '' OR category = $1)
			    AND ($2 = '' OR type = $2)
			    AND ($3 = '' OR location ILIKE '%' || $3 || '%')
			  ORDER BY created_at DESC, id
			  LIMIT $4 OFFSET $5`
	rows, err := s.DB.QueryContext(ctx, query, f.Category, string(f.Type), f.Location, f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return collectJobs(rows, op)
}

// ListBookmarkedJobs возвращает вакансии из закладок участника.
func (s *Storage) ListBookmarkedJobs(ctx context.Context, actorID string) ([]models.Job, error) {
	const op = "storage.ListBookmarkedJobs"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT j.id, j.client_id, j.title, j.location, j.type, j.description, j.category,
			      j.budget_min, j.budget_max, j.version, j.created_at, j.updated_at
			  FROM jobs j
			  JOIN job_bookmarks b ON b.job_id = j.id
			  WHERE b.actor_id = $1
			  ORDER BY b.created_at DESC, j.id`
	rows, err := s.DB.QueryContext(ctx, query, actorID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return collectJobs(rows, op)
}

func collectJobs(rows *sql.Rows, op string) ([]models.Job, error) {
	defer func() {
		_ = rows.Close()
	}()
	result := []models.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateJob перезаписывает изменяемые поля вакансии, если версия не изменилась.
func (s *Storage) UpdateJob(ctx context.Context, id string, expectedVersion int, in models.JobInput) (*models.Job, error) {
	const op = "storage.UpdateJob"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE jobs
			  SET title = $3, location = $4, type = $5, description = $6, category = $7,
			      budget_min = $8, budget_max = $9, version = version + 1, updated_at = NOW()
			  WHERE id = $1 AND version = $2
			  RETURNING ` + jobColumns
	j, err := scanJob(s.DB.QueryRowContext(ctx, query, id, expectedVersion, in.Title, in.Location,
		in.Type, in.Description, in.Category, in.Budget.Min, in.Budget.Max))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, versionMiss(ctx, s.DB, "jobs", id, "job"))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFoundOr(err, "job"))
	}
	return j, nil
}

// DeleteJob удаляет вакансию вместе с откликами на неё.
func (s *Storage) DeleteJob(ctx context.Context, id string, expectedVersion int) error {
	const op = "storage.DeleteJob"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM job_applications WHERE job_id = $1`, id); err != nil {
			return notFoundOr(err, "job")
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1 AND version = $2`, id, expectedVersion)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return versionMiss(ctx, tx, "jobs", id, "job")
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ToggleBookmark добавляет вакансию в закладки участника или убирает её оттуда.
// Возвращает новое состояние закладки.
func (s *Storage) ToggleBookmark(ctx context.Context, jobID, actorID string) (bool, error) {
	const op = "storage.ToggleBookmark"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var bookmarked bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM job_bookmarks WHERE job_id = $1 AND actor_id = $2`, jobID, actorID)
		if err != nil {
			return notFoundOr(err, "job")
		}
		if n, _ := res.RowsAffected(); n > 0 {
			bookmarked = false
			return nil
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO job_bookmarks (job_id, actor_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, jobID, actorID)
		if isForeignKeyViolation(err) {
			return apperrors.NotFound("job not found")
		}
		if err != nil {
			return err
		}
		bookmarked = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return bookmarked, nil
}
