package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/job-marketplace/internal/lib/apperrors"
	"github.com/magabrotheeeer/job-marketplace/internal/models"
)

const applicationColumns = `id, job_id, worker_id, contact_name, contact_email, contact_phone,
			      resume_ref, status, version, created_at, updated_at`

func scanApplication(row rowScanner) (*models.Application, error) {
	var a models.Application
	if err := row.Scan(&a.ID, &a.JobID, &a.WorkerID, &a.Contact.Name, &a.Contact.Email,
		&a.Contact.Phone, &a.ResumeRef, &a.Status, &a.Version, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateApplication сохраняет отклик. Второй отклик того же исполнителя
// на ту же вакансию отклоняется ограничением уникальности.
func (s *Storage) CreateApplication(ctx context.Context, a models.Application) error {
	const op = "storage.CreateApplication"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO job_applications (id, job_id, worker_id, contact_name, contact_email,
			      contact_phone, resume_ref, status, version, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 1, $9, $9)`
	_, err := s.DB.ExecContext(ctx, query, a.ID, a.JobID, a.WorkerID, a.Contact.Name,
		a.Contact.Email, a.Contact.Phone, a.ResumeRef, a.Status, a.CreatedAt)
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, apperrors.Duplicate("already applied to this job"))
	case isForeignKeyViolation(err):
		return fmt.Errorf("%s: %w", op, apperrors.NotFound("job not found"))
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// HasApplied сообщает, откликался ли исполнитель на вакансию.
func (s *Storage) HasApplied(ctx context.Context, jobID, workerID string) (bool, error) {
	const op = "storage.HasApplied"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM job_applications WHERE job_id = $1 AND worker_id = $2)`,
		jobID, workerID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, notFoundOr(err, "job"))
	}
	return exists, nil
}

// GetApplication возвращает отклик и владельца вакансии, на которую он подан.
func (s *Storage) GetApplication(ctx context.Context, id string) (*models.Application, string, error) {
	const op = "storage.GetApplication"
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT a.id, a.job_id, a.worker_id, a.contact_name, a.contact_email, a.contact_phone,
			      a.resume_ref, a.status, a.version, a.created_at, a.updated_at, j.client_id
			  FROM job_applications a
			  JOIN jobs j ON j.id = a.job_id
			  WHERE a.id = $1`
	var a models.Application
	var ownerID string
	err := s.DB.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.JobID, &a.WorkerID, &a.Contact.Name,
		&a.Contact.Email, &a.Contact.Phone, &a.ResumeRef, &a.Status, &a.Version, &a.CreatedAt,
		&a.UpdatedAt, &ownerID)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, notFoundOr(err, "application"))
	}
	return &a, ownerID, nil
}

// UpdateApplicationStatus переводит отклик в новый статус при совпадении версии.
func (s *Storage) UpdateApplicationStatus(ctx context.Context, id string, expectedVersion int,
	status models.ApplicationStatus) (*models.Application, error) {
	const op = "storage.UpdateApplicationStatus"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE job_applications
			  SET status = $3, version = version + 1, updated_at = NOW()
			  WHERE id = $1 AND version = $2
			  RETURNING ` + applicationColumns
	a, err := scanApplication(s.DB.QueryRowContext(ctx, query, id, expectedVersion, status))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, versionMiss(ctx, s.DB, "job_applications", id, "application"))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFoundOr(err, "application"))
	}
	return a, nil
}

// DeleteApplication удаляет отклик при совпадении версии.
func (s *Storage) DeleteApplication(ctx context.Context, id string, expectedVersion int) error {
	const op = "storage.DeleteApplication"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM job_applications WHERE id = $1 AND version = $2`, id, expectedVersion)
	if err != nil {
		return fmt.Errorf("%s: %w", op, notFoundOr(err, "application"))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, versionMiss(ctx, s.DB, "job_applications", id, "application"))
	}
	return nil
}

// ListApplicationsByJob возвращает отклики на вакансию, новые первыми.
func (s *Storage) ListApplicationsByJob(ctx context.Context, jobID string) ([]models.Application, error) {
	const op = "storage.ListApplicationsByJob"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+applicationColumns+` FROM job_applications
		WHERE job_id = $1 ORDER BY created_at DESC, id`, jobID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFoundOr(err, "job"))
	}
	return collectApplications(rows, op)
}

// ListApplicationsByWorker возвращает отклики исполнителя, новые первыми.
func (s *Storage) ListApplicationsByWorker(ctx context.Context, workerID string) ([]models.Application, error) {
	const op = "storage.ListApplicationsByWorker"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+applicationColumns+` FROM job_applications
		WHERE worker_id = $1 ORDER BY created_at DESC, id`, workerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return collectApplications(rows, op)
}

func collectApplications(rows *sql.Rows, op string) ([]models.Application, error) {
	defer func() {
		_ = rows.Close()
	}()
	result := []models.Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
