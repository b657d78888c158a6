// Package profiles реализует профили исполнителей и клиентов и отзывы клиентов.
package profiles

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/job-marketplace/internal/ledger"
	"github.com/magabrotheeeer/job-marketplace/internal/lib/apperrors"
	"github.com/magabrotheeeer/job-marketplace/internal/models"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Repository описывает контракт хранилища профилей и отзывов.
type Repository interface {
	UpsertProfile(ctx context.Context, p models.WorkerProfile) (*models.WorkerProfile, error)
	GetProfile(ctx context.Context, userID string) (*models.WorkerProfile, error)
	ListProfiles(ctx context.Context, limit, offset int) ([]models.WorkerProfile, error)
	UpsertReview(ctx context.Context, r models.Review) (*models.WorkerProfile, error)
	ListReviews(ctx context.Context, workerID string) ([]models.Review, error)

	GetActorByID(ctx context.Context, id string) (*models.Actor, error)
	ListActors(ctx context.Context, role models.Role) ([]models.Actor, error)
	UpdateClientProfile(ctx context.Context, actorID string, in models.ClientProfileUpdate) (*models.Actor, error)
}

// Notifier отправляет участнику уведомление о событии.
type Notifier interface {
	Workflow(ctx context.Context, actorID, subject, body string)
}

// ProfileInput — редактируемые поля профиля.
type ProfileInput struct {
	Bio                string
	Skills             []string
	ExperienceYears    int
	AvailabilityStatus models.Availability
}

// Service управляет профилями.
type Service struct {
	log      *slog.Logger
	repo     Repository
	notifier Notifier
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, repo Repository, notifier Notifier) *Service {
	return &Service{log: log, repo: repo, notifier: notifier}
}

func normalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

// UpsertProfile создаёт или обновляет профиль текущего исполнителя.
func (s *Service) UpsertProfile(ctx context.Context, p models.Principal, in ProfileInput) (*models.WorkerProfile, error) {
	const op = "profiles.UpsertProfile"

	if p.Role != models.RoleWorker {
		return nil, apperrors.InvalidRole("only workers have profiles")
	}
	if err := ledger.Authorize(p, ledger.OpProfileWrite, ledger.Target{WorkerID: p.ID}); err != nil {
		return nil, err
	}
	if in.ExperienceYears < 0 {
		return nil, apperrors.Validation("experience years must not be negative")
	}
	switch in.AvailabilityStatus {
	case "":
		in.AvailabilityStatus = models.AvailabilityAvailable
	case models.AvailabilityAvailable, models.AvailabilityBusy, models.AvailabilityOffline:
	default:
		return nil, apperrors.Validation("availability must be available, busy or offline")
	}

	saved, err := s.repo.UpsertProfile(ctx, models.WorkerProfile{
		UserID:             p.ID,
		Bio:                strings.TrimSpace(in.Bio),
		Skills:             normalizeSkills(in.Skills),
		ExperienceYears:    in.ExperienceYears,
		AvailabilityStatus: in.AvailabilityStatus,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return saved, nil
}

// GetProfile возвращает профиль исполнителя с отзывами.
func (s *Service) GetProfile(ctx context.Context, workerID string) (*models.WorkerProfile, error) {
	const op = "profiles.GetProfile"
	profile, err := s.repo.GetProfile(ctx, workerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return profile, nil
}

// ListProfiles возвращает профили по убыванию рейтинга.
func (s *Service) ListProfiles(ctx context.Context, limit, offset int) ([]models.WorkerProfile, error) {
	const op = "profiles.ListProfiles"
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	list, err := s.repo.ListProfiles(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// Review сохраняет отзыв клиента об исполнителе. Повторный отзыв того же
// клиента заменяет предыдущий, средний рейтинг пересчитывается в той же записи.
func (s *Service) Review(ctx context.Context, p models.Principal, workerID string, rating int, comment string) (*models.WorkerProfile, error) {
	const op = "profiles.Review"

	if p.Role != models.RoleClient {
		return nil, apperrors.InvalidRole("only clients can review workers")
	}
	if err := ledger.Authorize(p, ledger.OpReviewWrite, ledger.Target{ClientID: p.ID, WorkerID: workerID}); err != nil {
		return nil, err
	}
	if rating < 1 || rating > 5 {
		return nil, apperrors.Validation("rating must be between 1 and 5")
	}

	profile, err := s.repo.UpsertReview(ctx, models.Review{
		WorkerID: workerID,
		ClientID: p.ID,
		Rating:   rating,
		Comment:  strings.TrimSpace(comment),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.notifier.Workflow(ctx, workerID, "New review", fmt.Sprintf("You received a %d-star review.", rating))
	s.log.Info("review saved", slog.String("op", op), slog.String("worker_id", workerID),
		slog.Float64("rating_average", profile.RatingAverage))
	return profile, nil
}

// ListReviews возвращает отзывы об исполнителе.
func (s *Service) ListReviews(ctx context.Context, workerID string) ([]models.Review, error) {
	const op = "profiles.ListReviews"
	reviews, err := s.repo.ListReviews(ctx, workerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return reviews, nil
}

var genders = map[string]struct{}{"male": {}, "female": {}}

// UpdateClientProfile меняет имя, телефон и пол текущего клиента.
// Пустые поля остаются прежними.
func (s *Service) UpdateClientProfile(ctx context.Context, p models.Principal, in models.ClientProfileUpdate) (*models.Actor, error) {
	const op = "profiles.UpdateClientProfile"

	if err := ledger.Authorize(p, ledger.OpClientProfileWrite, ledger.Target{ClientID: p.ID}); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Gender = strings.ToLower(strings.TrimSpace(in.Gender))
	if in.Gender != "" {
		if _, ok := genders[in.Gender]; !ok {
			return nil, apperrors.Validation("gender must be male or female")
		}
	}

	actor, err := s.repo.UpdateClientProfile(ctx, p.ID, in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("client profile updated", slog.String("op", op), slog.String("actor_id", p.ID))
	return actor, nil
}

// GetClient возвращает клиента по идентификатору. Участник с другой ролью
// не находится.
func (s *Service) GetClient(ctx context.Context, p models.Principal, clientID string) (*models.Actor, error) {
	const op = "profiles.GetClient"

	if err := ledger.Authorize(p, ledger.OpClientProfileRead, ledger.Target{ClientID: clientID}); err != nil {
		return nil, err
	}
	actor, err := s.repo.GetActorByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if actor.Role != models.RoleClient {
		return nil, apperrors.NotFound("client not found")
	}
	return actor, nil
}

// ListClients возвращает всех клиентов, новые первыми.
func (s *Service) ListClients(ctx context.Context, p models.Principal) ([]models.Actor, error) {
	const op = "profiles.ListClients"

	if err := ledger.Authorize(p, ledger.OpClientProfileRead, ledger.Target{}); err != nil {
		return nil, err
	}
	list, err := s.repo.ListActors(ctx, models.RoleClient)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}
