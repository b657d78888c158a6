package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/job-marketplace/internal/models"
)

const paymentRequestColumns = `id, worker_id, client_id, amount_minor, message, status,
			      payment_transaction_id, version, created_at, updated_at`

func scanPaymentRequest(row rowScanner) (*models.PaymentRequest, error) {
	var p models.PaymentRequest
	var txID sql.NullString
	if err := row.Scan(&p.ID, &p.WorkerID, &p.ClientID, &p.AmountMinor, &p.Message, &p.Status,
		&txID, &p.Version, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.PaymentTransactionID = txID.String
	return &p, nil
}

// CreatePaymentRequest сохраняет запрос оплаты.
func (s *Storage) CreatePaymentRequest(ctx context.Context, p models.PaymentRequest) error {
	const op = "storage.CreatePaymentRequest"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO payment_requests (id, worker_id, client_id, amount_minor, message,
			      status, version, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, 1, $7, $7)`
	if _, err := s.DB.ExecContext(ctx, query, p.ID, p.WorkerID, p.ClientID, p.AmountMinor,
		p.Message, p.Status, p.CreatedAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetPaymentRequest возвращает запрос оплаты по идентификатору.
func (s *Storage) GetPaymentRequest(ctx context.Context, id string) (*models.PaymentRequest, error) {
	const op = "storage.GetPaymentRequest"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	p, err := scanPaymentRequest(s.DB.QueryRowContext(ctx,
		`SELECT `+paymentRequestColumns+` FROM payment_requests WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFoundOr(err, "payment request"))
	}
	return p, nil
}

// UpdatePaymentRequestStatus меняет статус запроса при совпадении версии.
func (s *Storage) UpdatePaymentRequestStatus(ctx context.Context, id string, expectedVersion int,
	status models.PaymentRequestStatus) (*models.PaymentRequest, error) {
	const op = "storage.UpdatePaymentRequestStatus"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE payment_requests
			  SET status = $3, version = version + 1, updated_at = NOW()
			  WHERE id = $1 AND version = $2
			  RETURNING ` + paymentRequestColumns
	p, err := scanPaymentRequest(s.DB.QueryRowContext(ctx, query, id, expectedVersion, status))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, versionMiss(ctx, s.DB, "payment_requests", id, "payment request"))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFoundOr(err, "payment request"))
	}
	return p, nil
}

// ListPaymentRequestsByClient возвращает запросы, адресованные клиенту.
func (s *Storage) ListPaymentRequestsByClient(ctx context.Context, clientID string) ([]models.PaymentRequest, error) {
	const op = "storage.ListPaymentRequestsByClient"
	return s.listPaymentRequests(ctx, op, `SELECT `+paymentRequestColumns+` FROM payment_requests
		WHERE client_id = $1 ORDER BY created_at DESC, id`, clientID)
}

// ListPaymentRequestsByWorker возвращает запросы, выставленные исполнителем.
func (s *Storage) ListPaymentRequestsByWorker(ctx context.Context, workerID string) ([]models.PaymentRequest, error) {
	const op = "storage.ListPaymentRequestsByWorker"
	return s.listPaymentRequests(ctx, op, `SELECT `+paymentRequestColumns+` FROM payment_requests
		WHERE worker_id = $1 ORDER BY created_at DESC, id`, workerID)
}

func (s *Storage) listPaymentRequests(ctx context.Context, op, query, arg string) ([]models.PaymentRequest, error) {
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
	result := []models.PaymentRequest{}
	for rows.Next() {
		p, err := scanPaymentRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
