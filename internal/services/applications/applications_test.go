package applications

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/job-marketplace/internal/lib/apperrors"
	"github.com/magabrotheeeer/job-marketplace/internal/metrics"
	"github.com/magabrotheeeer/job-marketplace/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetJob(ctx context.Context, id string) (*models.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *RepoMock) CreateApplication(ctx context.Context, a models.Application) error {
	return m.Called(ctx, a).Error(0)
}

func (m *RepoMock) HasApplied(ctx context.Context, jobID, workerID string) (bool, error) {
	args := m.Called(ctx, jobID, workerID)
	return args.Bool(0), args.Error(1)
}

func (m *RepoMock) GetApplication(ctx context.Context, id string) (*models.Application, string, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.Application), args.String(1), args.Error(2)
}

func (m *RepoMock) UpdateApplicationStatus(ctx context.Context, id string, expectedVersion int,
	status models.ApplicationStatus) (*models.Application, error) {
	args := m.Called(ctx, id, expectedVersion, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

func (m *RepoMock) DeleteApplication(ctx context.Context, id string, expectedVersion int) error {
	return m.Called(ctx, id, expectedVersion).Error(0)
}

func (m *RepoMock) ListApplicationsByJob(ctx context.Context, jobID string) ([]models.Application, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Application), args.Error(1)
}

func (m *RepoMock) ListApplicationsByWorker(ctx context.Context, workerID string) ([]models.Application, error) {
	args := m.Called(ctx, workerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Application), args.Error(1)
}

type JobCacheMock struct{ mock.Mock }

func (m *JobCacheMock) Invalidate(ctx context.Context, jobIDs ...string) {
	m.Called(ctx, jobIDs)
}

type NotifierMock struct{ mock.Mock }

func (m *NotifierMock) Workflow(ctx context.Context, actorID, subject, body string) {
	m.Called(ctx, actorID, subject, body)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

type fixture struct {
	svc      *Service
	repo     *RepoMock
	jobs     *JobCacheMock
	notifier *NotifierMock
}

func newFixture() fixture {
	f := fixture{repo: new(RepoMock), jobs: new(JobCacheMock), notifier: new(NotifierMock)}
	f.svc = New(newNoopLogger(), f.repo, f.jobs, f.notifier, metrics.Noop())
	return f
}

func (f fixture) assertExpectations(t *testing.T) {
	f.repo.AssertExpectations(t)
	f.jobs.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

var (
	owner    = models.Principal{ID: "c1", Role: models.RoleClient}
	stranger = models.Principal{ID: "c2", Role: models.RoleClient}
	worker   = models.Principal{ID: "w1", Role: models.RoleWorker}
	admin    = models.Principal{ID: "a1", Role: models.RoleAdmin}
	job      = &models.Job{ID: "j1", ClientID: "c1", Title: "Plumber"}
)

func TestService_Submit(t *testing.T) {
	input := SubmitInput{JobID: "j1", Contact: models.Contact{Name: "W", Email: "w@example.com"}, ResumeRef: "cv.pdf"}

	tests := []struct {
		name       string
		actor      models.Principal
		setupMocks func(f fixture)
		wantKind   apperrors.Kind
		wantErr    bool
	}{
		{
			name:  "worker applies",
			actor: worker,
			setupMocks: func(f fixture) {
				f.repo.On("GetJob", mock.Anything, "j1").Return(job, nil).Once()
				f.repo.On("HasApplied", mock.Anything, "j1", "w1").Return(false, nil).Once()
				f.repo.On("CreateApplication", mock.Anything, mock.MatchedBy(func(a models.Application) bool {
					return a.Status == models.ApplicationApplied && a.WorkerID == "w1" && a.Version == 1
				})).Return(nil).Once()
				f.jobs.On("Invalidate", mock.Anything, []string{"j1"}).Return().Once()
				f.notifier.On("Workflow", mock.Anything, "c1", "New application", mock.Anything).Return().Once()
			},
		},
		{
			name:     "client cannot apply",
			actor:    owner,
			wantKind: apperrors.KindUnauthorized,
			wantErr:  true,
		},
		{
			name:  "missing job",
			actor: worker,
			setupMocks: func(f fixture) {
				f.repo.On("GetJob", mock.Anything, "j1").Return(nil, apperrors.NotFound("job not found")).Once()
			},
			wantKind: apperrors.KindNotFound,
			wantErr:  true,
		},
		{
			name:  "second application",
			actor: worker,
			setupMocks: func(f fixture) {
				f.repo.On("GetJob", mock.Anything, "j1").Return(job, nil).Once()
				f.repo.On("HasApplied", mock.Anything, "j1", "w1").Return(true, nil).Once()
			},
			wantKind: apperrors.KindDuplicate,
			wantErr:  true,
		},
		{
			name:  "concurrent duplicate caught by index",
			actor: worker,
			setupMocks: func(f fixture) {
				f.repo.On("GetJob", mock.Anything, "j1").Return(job, nil).Once()
				f.repo.On("HasApplied", mock.Anything, "j1", "w1").Return(false, nil).Once()
				f.repo.On("CreateApplication", mock.Anything, mock.Anything).
					Return(apperrors.Duplicate("already applied to this job")).Once()
			},
			wantKind: apperrors.KindDuplicate,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.setupMocks != nil {
				tt.setupMocks(f)
			}

			app, err := f.svc.Submit(context.Background(), tt.actor, input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, apperrors.KindOf(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, models.ApplicationApplied, app.Status)
			}
			f.assertExpectations(t)
		})
	}
}

func TestService_Decide(t *testing.T) {
	applied := &models.Application{ID: "app1", JobID: "j1", WorkerID: "w1", Status: models.ApplicationApplied, Version: 1}
	accepted := &models.Application{ID: "app1", JobID: "j1", WorkerID: "w1", Status: models.ApplicationAccepted, Version: 2}

	tests := []struct {
		name       string
		actor      models.Principal
		to         models.ApplicationStatus
		setupMocks func(f fixture)
		wantKind   apperrors.Kind
		wantErr    bool
	}{
		{
			name:  "owner accepts",
			actor: owner,
			to:    models.ApplicationAccepted,
			setupMocks: func(f fixture) {
				f.repo.On("GetApplication", mock.Anything, "app1").Return(applied, "c1", nil).Once()
				f.repo.On("UpdateApplicationStatus", mock.Anything, "app1", 1, models.ApplicationAccepted).
					Return(accepted, nil).Once()
				f.jobs.On("Invalidate", mock.Anything, []string{"j1"}).Return().Once()
				f.notifier.On("Workflow", mock.Anything, "w1", "Application accepted", mock.Anything).Return().Once()
			},
		},
		{
			name:  "foreign client",
			actor: stranger,
			to:    models.ApplicationAccepted,
			setupMocks: func(f fixture) {
				f.repo.On("GetApplication", mock.Anything, "app1").Return(applied, "c1", nil).Once()
			},
			wantKind: apperrors.KindUnauthorized,
			wantErr:  true,
		},
		{
			name:  "same state is not an edge",
			actor: owner,
			to:    models.ApplicationAccepted,
			setupMocks: func(f fixture) {
				f.repo.On("GetApplication", mock.Anything, "app1").Return(accepted, "c1", nil).Once()
			},
			wantKind: apperrors.KindInvalidTransition,
			wantErr:  true,
		},
		{
			name:     "back to applied is rejected before lookup",
			actor:    owner,
			to:       models.ApplicationApplied,
			wantKind: apperrors.KindValidation,
			wantErr:  true,
		},
		{
			name:  "missing application",
			actor: owner,
			to:    models.ApplicationRejected,
			setupMocks: func(f fixture) {
				f.repo.On("GetApplication", mock.Anything, "app1").
					Return(nil, "", apperrors.NotFound("application not found")).Once()
			},
			wantKind: apperrors.KindNotFound,
			wantErr:  true,
		},
		{
			name:  "lost race",
			actor: owner,
			to:    models.ApplicationRejected,
			setupMocks: func(f fixture) {
				f.repo.On("GetApplication", mock.Anything, "app1").Return(applied, "c1", nil).Once()
				f.repo.On("UpdateApplicationStatus", mock.Anything, "app1", 1, models.ApplicationRejected).
					Return(nil, apperrors.Conflict("application was modified concurrently")).Once()
			},
			wantKind: apperrors.KindConflict,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.setupMocks != nil {
				tt.setupMocks(f)
			}

			got, err := f.svc.Decide(context.Background(), tt.actor, "app1", tt.to)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, apperrors.KindOf(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.to, got.Status)
			}
			f.assertExpectations(t)
		})
	}
}

func TestService_Withdraw(t *testing.T) {
	app := &models.Application{ID: "app1", JobID: "j1", WorkerID: "w1", Status: models.ApplicationApplied, Version: 3}

	t.Run("submitter withdraws", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetApplication", mock.Anything, "app1").Return(app, "c1", nil).Once()
		f.repo.On("DeleteApplication", mock.Anything, "app1", 3).Return(nil).Once()
		f.jobs.On("Invalidate", mock.Anything, []string{"j1"}).Return().Once()

		require.NoError(t, f.svc.Withdraw(context.Background(), worker, "app1"))
		f.assertExpectations(t)
	})

	t.Run("job owner cannot withdraw", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetApplication", mock.Anything, "app1").Return(app, "c1", nil).Once()

		err := f.svc.Withdraw(context.Background(), owner, "app1")
		assert.True(t, apperrors.Is(err, apperrors.KindUnauthorized))
		f.assertExpectations(t)
	})

	t.Run("storage failure", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetApplication", mock.Anything, "app1").Return(app, "c1", nil).Once()
		f.repo.On("DeleteApplication", mock.Anything, "app1", 3).Return(errors.New("db down")).Once()

		err := f.svc.Withdraw(context.Background(), worker, "app1")
		assert.ErrorContains(t, err, "db down")
		f.assertExpectations(t)
	})
}

func TestService_Lists(t *testing.T) {
	f := newFixture()
	f.repo.On("GetJob", mock.Anything, "j1").Return(job, nil).Times(3)
	f.repo.On("ListApplicationsByJob", mock.Anything, "j1").Return([]models.Application{{ID: "app1"}}, nil).Twice()
	f.repo.On("ListApplicationsByWorker", mock.Anything, "w1").Return([]models.Application{{ID: "app1"}}, nil).Once()

	got, err := f.svc.ListForJob(context.Background(), owner, "j1")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = f.svc.ListForJob(context.Background(), admin, "j1")
	require.NoError(t, err)

	_, err = f.svc.ListForJob(context.Background(), worker, "j1")
	assert.True(t, apperrors.Is(err, apperrors.KindUnauthorized))

	mine, err := f.svc.ListForWorker(context.Background(), worker, "w1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = f.svc.ListForWorker(context.Background(), worker, "w2")
	assert.True(t, apperrors.Is(err, apperrors.KindUnauthorized))

	f.assertExpectations(t)
}
