package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/job-marketplace/internal/lib/apperrors"
	"github.com/magabrotheeeer/job-marketplace/internal/models"
)

const transactionColumns = `id, payer_id, payee_id, amount_minor, currency, external_ref, status,
			      purpose, payment_request_id, subscription_type, checkout_url,
			      raw_gateway_payload, version, created_at, updated_at`

func scanTransaction(row rowScanner) (*models.PaymentTransaction, error) {
	var t models.PaymentTransaction
	var payeeID, requestID, subscriptionType sql.NullString
	var raw []byte
	if err := row.Scan(&t.ID, &t.PayerID, &payeeID, &t.AmountMinor, &t.Currency, &t.ExternalRef,
		&t.Status, &t.Purpose, &requestID, &subscriptionType, &t.CheckoutURL, &raw,
		&t.Version, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.PayeeID = payeeID.String
	t.PaymentRequestID = requestID.String
	t.SubscriptionType = models.SubscriptionType(subscriptionType.String)
	if len(raw) > 0 {
		t.RawGatewayPayload = raw
	}
	return &t, nil
}

// CreatePendingTransaction сохраняет транзакцию в статусе pending. Для оплаты
// запроса в той же транзакции БД запрос связывается с ней через
// payment_transaction_id, если он находится в статусе accepted.
func (s *Storage) CreatePendingTransaction(ctx context.Context, t models.PaymentTransaction) error {
	const op = "storage.CreatePendingTransaction"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		query := `INSERT INTO payment_transactions (id, payer_id, payee_id, amount_minor, currency,
				      external_ref, status, purpose, payment_request_id, subscription_type,
				      version, created_at, updated_at)
				  VALUES ($1, $2, $3, $4, $5, $6, 'pending', $7, $8, $9, 1, $10, $10)`
		_, err := tx.ExecContext(ctx, query, t.ID, t.PayerID, nullString(t.PayeeID), t.AmountMinor,
			t.Currency, t.ExternalRef, t.Purpose, nullString(t.PaymentRequestID),
			nullString(string(t.SubscriptionType)), t.CreatedAt)
		switch {
		case isUniqueViolation(err):
			return apperrors.Duplicate("transaction reference already exists")
		case isForeignKeyViolation(err):
			return apperrors.NotFound("payment request not found")
		case err != nil:
			return err
		}
		if t.Purpose != models.PurposePaymentRequest {
			return nil
		}

		res, err := tx.ExecContext(ctx, `UPDATE payment_requests
			SET payment_transaction_id = $1, version = version + 1, updated_at = NOW()
			WHERE id = $2 AND status = 'accepted'`, t.ID, t.PaymentRequestID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperrors.PreconditionFailed("payment request is not accepted")
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SetCheckoutURL запоминает ссылку на страницу оплаты, выданную шлюзом.
func (s *Storage) SetCheckoutURL(ctx context.Context, externalRef, checkoutURL string) error {
	const op = "storage.SetCheckoutURL"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `UPDATE payment_transactions
		SET checkout_url = $2, updated_at = NOW() WHERE external_ref = $1`, externalRef, checkoutURL)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, apperrors.NotFound("transaction not found"))
	}
	return nil
}

// GetTransactionByRef возвращает транзакцию по внешнему ключу сверки.
func (s *Storage) GetTransactionByRef(ctx context.Context, externalRef string) (*models.PaymentTransaction, error) {
	const op = "storage.GetTransactionByRef"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	t, err := scanTransaction(s.DB.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM payment_transactions WHERE external_ref = $1`, externalRef))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFoundOr(err, "transaction"))
	}
	return t, nil
}

// FinalizeTransaction переводит транзакцию из pending в окончательный статус.
// Переход и его последствие выполняются в одной транзакции БД условным UPDATE,
// поэтому из всех конкурирующих вызовов Applied получает ровно один.
// Остальные видят уже сохранённое состояние.
func (s *Storage) FinalizeTransaction(ctx context.Context, externalRef string,
	status models.TransactionStatus, raw []byte) (models.FinalizeResult, error) {
	const op = "storage.FinalizeTransaction"
	select {
	case <-ctx.Done():
		return models.FinalizeResult{}, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var result models.FinalizeResult
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		payload := sql.NullString{String: string(raw), Valid: len(raw) > 0}
		query := `UPDATE payment_transactions
				  SET status = $2, raw_gateway_payload = COALESCE($3::jsonb, raw_gateway_payload),
				      version = version + 1, updated_at = NOW()
				  WHERE external_ref = $1 AND status = 'pending'
				  RETURNING ` + transactionColumns
		t, err := scanTransaction(tx.QueryRowContext(ctx, query, externalRef, status, payload))
		if errors.Is(err, sql.ErrNoRows) {
			current, err := scanTransaction(tx.QueryRowContext(ctx,
				`SELECT `+transactionColumns+` FROM payment_transactions WHERE external_ref = $1`, externalRef))
			if err != nil {
				return notFoundOr(err, "transaction")
			}
			result.Transaction = *current
			return nil
		}
		if err != nil {
			return err
		}
		result.Transaction = *t
		result.Applied = true

		if status != models.TransactionSuccess {
			return nil
		}
		var res sql.Result
		switch t.Purpose {
		case models.PurposePaymentRequest:
			res, err = tx.ExecContext(ctx, `UPDATE payment_requests
				SET status = 'paid', version = version + 1, updated_at = NOW()
				WHERE id = $1 AND status = 'accepted' AND payment_transaction_id = $2`,
				t.PaymentRequestID, t.ID)
		case models.PurposeSubscription:
			res, err = tx.ExecContext(ctx,
				`UPDATE actors SET is_subscribed = TRUE WHERE id = $1`, t.PayerID)
		default:
			return nil
		}
		if err != nil {
			return err
		}
		n, _ := res.RowsAffected()
		result.EffectApplied = n > 0
		return nil
	})
	if err != nil {
		return models.FinalizeResult{}, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListStalePendingTransactions возвращает ссылки на транзакции, которые висят
// в pending дольше olderThan. Первыми идут ни разу не сверенные, затем те,
// что сверялись давнее всего.
func (s *Storage) ListStalePendingTransactions(ctx context.Context, olderThan time.Time, limit int) ([]string, error) {
	const op = "storage.ListStalePendingTransactions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT external_ref FROM payment_transactions
		WHERE status = 'pending' AND created_at < $1
		ORDER BY last_checked_at NULLS FIRST, created_at, id
		LIMIT $2`, olderThan, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	refs := []string{}
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return refs, nil
}

// MarkReconcileAttempt отмечает, что транзакция сверялась в момент at и
// осталась в pending. Окончательные транзакции не меняются.
func (s *Storage) MarkReconcileAttempt(ctx context.Context, externalRef string, at time.Time) error {
	const op = "storage.MarkReconcileAttempt"

	_, err := s.DB.ExecContext(ctx, `UPDATE payment_transactions
		SET reconcile_attempts = reconcile_attempts + 1, last_checked_at = $2
		WHERE external_ref = $1 AND status = 'pending'`, externalRef, at)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListPayeeTransactions возвращает успешные поступления исполнителю.
func (s *Storage) ListPayeeTransactions(ctx context.Context, payeeID string) ([]models.PaymentTransaction, error) {
	const op = "storage.ListPayeeTransactions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+transactionColumns+` FROM payment_transactions
		WHERE payee_id = $1 AND status = 'success'
		ORDER BY created_at DESC, id`, payeeID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	result := []models.PaymentTransaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListSubscriptionPayments возвращает платежи за подписку. Пустой actorID
// означает выборку по всем участникам. Роль берётся из actors, для
// удалённых участников она пустая.
func (s *Storage) ListSubscriptionPayments(ctx context.Context, actorID string) ([]models.SubscriptionPayment, error) {
	const op = "storage.ListSubscriptionPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT t.id, t.payer_id, COALESCE(a.role, ''), t.amount_minor,
			      COALESCE(t.subscription_type, ''), t.external_ref, t.status, t.created_at
			  FROM payment_transactions t
			  LEFT JOIN actors a ON a.id = t.payer_id
			  WHERE t.purpose = 'subscription' AND ($1 = '' OR t.payer_id::text = $1)
			  ORDER BY t.created_at DESC, t.id`
	rows, err := s.DB.QueryContext(ctx, query, actorID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	result := []models.SubscriptionPayment{}
	for rows.Next() {
		var p models.SubscriptionPayment
		if err := rows.Scan(&p.ID, &p.ActorID, &p.Role, &p.AmountMinor, &p.SubscriptionType,
			&p.ExternalRef, &p.Status, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
