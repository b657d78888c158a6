package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/job-marketplace/internal/migrations"
	"github.com/magabrotheeeer/job-marketplace/internal/models"
)

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test requires docker")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err, "failed to start container")

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(dsn)
	require.NoError(t, err)

	projectRoot, err := filepath.Abs("../../..")
	require.NoError(t, err)
	_, err = migrations.Run(storage.DB, filepath.Join(projectRoot, "migrations"))
	require.NoError(t, err)

	cleanup := func() {
		_ = storage.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
	return storage, cleanup
}

// TestDataFactory создаёт тестовые записи через методы хранилища.
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создаёт фабрику тестовых данных.
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

func (f *TestDataFactory) CreateActor(t *testing.T, role models.Role) models.Actor {
	t.Helper()
	id := uuid.NewString()
	a := models.Actor{
		ID:           id,
		Role:         role,
		Name:         "actor " + id[:8],
		Email:        id[:8] + "@example.com",
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, f.storage.CreateActor(context.Background(), a))
	return a
}

func (f *TestDataFactory) CreateJob(t *testing.T, clientID string) models.Job {
	t.Helper()
	j := models.Job{
		ID:          uuid.NewString(),
		ClientID:    clientID,
		Title:       "Go developer",
		Location:    "Addis Ababa",
		Type:        models.JobTypeContract,
		Description: "backend work",
		Category:    "software",
		Budget:      models.Budget{Min: 100, Max: 200},
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, f.storage.CreateJob(context.Background(), j))
	return j
}

func (f *TestDataFactory) CreateApplication(t *testing.T, jobID, workerID string) models.Application {
	t.Helper()
	a := models.Application{
		ID:        uuid.NewString(),
		JobID:     jobID,
		WorkerID:  workerID,
		Contact:   models.Contact{Name: "worker", Email: "worker@example.com"},
		Status:    models.ApplicationApplied,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, f.storage.CreateApplication(context.Background(), a))
	return a
}

func (f *TestDataFactory) CreateHireRequest(t *testing.T, clientID, workerID string) models.HireRequest {
	t.Helper()
	h := models.HireRequest{
		ID:        uuid.NewString(),
		ClientID:  clientID,
		WorkerID:  workerID,
		Message:   "let's work",
		Status:    models.HirePending,
		Progress:  models.ProgressOngoing,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, f.storage.CreateHireRequest(context.Background(), h))
	return h
}

// CreateAcceptedPaymentRequest создаёт запрос оплаты в статусе accepted.
func (f *TestDataFactory) CreateAcceptedPaymentRequest(t *testing.T, workerID, clientID string, amount int64) models.PaymentRequest {
	t.Helper()
	ctx := context.Background()
	p := models.PaymentRequest{
		ID:          uuid.NewString(),
		WorkerID:    workerID,
		ClientID:    clientID,
		AmountMinor: amount,
		Status:      models.PaymentRequestPending,
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, f.storage.CreatePaymentRequest(ctx, p))
	updated, err := f.storage.UpdatePaymentRequestStatus(ctx, p.ID, 1, models.PaymentRequestAccepted)
	require.NoError(t, err)
	return *updated
}

func (f *TestDataFactory) CreateProfile(t *testing.T, workerID string) {
	t.Helper()
	_, err := f.storage.UpsertProfile(context.Background(), models.WorkerProfile{
		UserID:             workerID,
		Bio:                "gopher",
		Skills:             []string{"go", "sql"},
		ExperienceYears:    3,
		AvailabilityStatus: models.AvailabilityAvailable,
	})
	require.NoError(t, err)
}

func (f *TestDataFactory) count(t *testing.T, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, f.storage.DB.QueryRow(query, args...).Scan(&n))
	return n
}
