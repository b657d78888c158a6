// Package repository реализует хранилище маркетплейса на PostgreSQL:
// участники, вакансии, отклики, заявки на найм, запросы оплаты,
// платёжные транзакции, профили и отзывы. Переходы статусов выполняются
// условными UPDATE по версии записи, многошаговые изменения идут
// в одной транзакции.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/job-marketplace/internal/lib/apperrors"
)

// ErrSchemaMissing означает, что миграции еще не применены.
var ErrSchemaMissing = errors.New("database schema is not migrated")

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// Ping проверяет доступность базы.
func (s *Storage) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// Close закрывает пул соединений.
func (s *Storage) Close() error {
	return s.DB.Close()
}

// CheckDatabaseReady проверяет, что схема уже создана: процессы, которые
// не применяют миграции сами, должны стартовать после API.
func CheckDatabaseReady(ctx context.Context, storage *Storage) error {
	const op = "storage.repository.CheckDatabaseReady"

	var exists bool
	err := storage.DB.QueryRowContext(ctx, `SELECT EXISTS (
		SELECT FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name = 'payment_transactions'
	)`).Scan(&exists)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return fmt.Errorf("%s: %w", op, ErrSchemaMissing)
	}
	return nil
}

// queryer — общее подмножество *sql.DB и *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// withTx выполняет fn в транзакции. Ошибка fn откатывает все изменения.
func (s *Storage) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == pgerrcode.UniqueViolation
}

func isForeignKeyViolation(err error) bool {
	return pgErrorCode(err) == pgerrcode.ForeignKeyViolation
}

func isInvalidText(err error) bool {
	return pgErrorCode(err) == pgerrcode.InvalidTextRepresentation
}

// notFoundOr переводит sql.ErrNoRows и некорректный UUID в NotFound.
func notFoundOr(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) || isInvalidText(err) {
		return apperrors.NotFound(what + " not found")
	}
	return err
}

// versionMiss вызывается, когда условный UPDATE не затронул ни одной строки:
// запись либо удалена, либо уже изменена конкурентом.
func versionMiss(ctx context.Context, q queryer, table, id, what string) error {
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, table)
	if err := q.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return notFoundOr(err, what)
	}
	if !exists {
		return apperrors.NotFound(what + " not found")
	}
	return apperrors.Conflict(what + " was modified concurrently")
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func collectStrings(rows *sql.Rows) ([]string, error) {
	defer func() {
		_ = rows.Close()
	}()
	result := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, rows.Err()
}
