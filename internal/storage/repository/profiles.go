package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/magabrotheeeer/job-marketplace/internal/lib/apperrors"
	"github.com/magabrotheeeer/job-marketplace/internal/models"
)

const profileColumns = `user_id, bio, skills, experience_years, availability_status,
			      rating_average, updated_at`

func scanProfile(row rowScanner) (*models.WorkerProfile, error) {
	var p models.WorkerProfile
	var skills []byte
	if err := row.Scan(&p.UserID, &p.Bio, &skills, &p.ExperienceYears, &p.AvailabilityStatus,
		&p.RatingAverage, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Skills = []string{}
	if len(skills) > 0 {
		if err := json.Unmarshal(skills, &p.Skills); err != nil {
			return nil, err
		}
	}
	p.Reviews = []models.Review{}
	return &p, nil
}

// UpsertProfile создаёт или обновляет профиль исполнителя. Рейтинг не меняется.
func (s *Storage) UpsertProfile(ctx context.Context, p models.WorkerProfile) (*models.WorkerProfile, error) {
	const op = "storage.UpsertProfile"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	skills, err := json.Marshal(p.Skills)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	query := `INSERT INTO worker_profiles (user_id, bio, skills, experience_years, availability_status, updated_at)
			  VALUES ($1, $2, $3::jsonb, $4, $5, NOW())
			  ON CONFLICT (user_id) DO UPDATE
			  SET bio = EXCLUDED.bio, skills = EXCLUDED.skills,
			      experience_years = EXCLUDED.experience_years,
			      availability_status = EXCLUDED.availability_status, updated_at = NOW()
			  RETURNING ` + profileColumns
	saved, err := scanProfile(s.DB.QueryRowContext(ctx, query, p.UserID, p.Bio, string(skills),
		p.ExperienceYears, p.AvailabilityStatus))
	if isForeignKeyViolation(err) {
		return nil, fmt.Errorf("%s: %w", op, apperrors.NotFound("actor not found"))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return saved, nil
}

// GetProfile возвращает профиль исполнителя вместе с отзывами.
func (s *Storage) GetProfile(ctx context.Context, userID string) (*models.WorkerProfile, error) {
	const op = "storage.GetProfile"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	p, err := scanProfile(s.DB.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM worker_profiles WHERE user_id = $1`, userID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFoundOr(err, "worker profile"))
	}
	if p.Reviews, err = listReviews(ctx, s.DB, userID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// ListProfiles возвращает профили исполнителей по убыванию рейтинга.
func (s *Storage) ListProfiles(ctx context.Context, limit, offset int) ([]models.WorkerProfile, error) {
	const op = "storage.ListProfiles"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+profileColumns+` FROM worker_profiles
		ORDER BY rating_average DESC, user_id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	result := []models.WorkerProfile{}
	for rows.Next() {
		p, err := scanProfile(rows)
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

// UpsertReview сохраняет отзыв клиента и пересчитывает средний рейтинг.
// Строка профиля блокируется на время транзакции, так что рейтинг всегда
// соответствует набору отзывов.
func (s *Storage) UpsertReview(ctx context.Context, r models.Review) (*models.WorkerProfile, error) {
	const op = "storage.UpsertReview"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var saved *models.WorkerProfile
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var locked string
		if err := tx.QueryRowContext(ctx,
			`SELECT user_id FROM worker_profiles WHERE user_id = $1 FOR UPDATE`, r.WorkerID).Scan(&locked); err != nil {
			return notFoundOr(err, "worker profile")
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO reviews (worker_id, client_id, rating, comment, created_at, updated_at)
			VALUES ($1, $2, $3, $4, NOW(), NOW())
			ON CONFLICT (worker_id, client_id) DO UPDATE
			SET rating = EXCLUDED.rating, comment = EXCLUDED.comment, updated_at = NOW()`,
			r.WorkerID, r.ClientID, r.Rating, r.Comment)
		if err != nil {
			return err
		}
		if err := recomputeRating(ctx, tx, r.WorkerID); err != nil {
			return err
		}
		p, err := scanProfile(tx.QueryRowContext(ctx,
			`SELECT `+profileColumns+` FROM worker_profiles WHERE user_id = $1`, r.WorkerID))
		if err != nil {
			return err
		}
		if p.Reviews, err = listReviews(ctx, tx, r.WorkerID); err != nil {
			return err
		}
		saved = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return saved, nil
}

// ListReviews возвращает отзывы об исполнителе.
func (s *Storage) ListReviews(ctx context.Context, workerID string) ([]models.Review, error) {
	const op = "storage.ListReviews"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	reviews, err := listReviews(ctx, s.DB, workerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFoundOr(err, "worker profile"))
	}
	return reviews, nil
}

func listReviews(ctx context.Context, q queryer, workerID string) ([]models.Review, error) {
	rows, err := q.QueryContext(ctx, `SELECT worker_id, client_id, rating, comment, created_at, updated_at
		FROM reviews WHERE worker_id = $1 ORDER BY updated_at DESC, client_id`, workerID)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()
	result := []models.Review{}
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(&r.WorkerID, &r.ClientID, &r.Rating, &r.Comment, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// recomputeRating выставляет rating_average равным среднему оценок, 0 без отзывов.
func recomputeRating(ctx context.Context, q queryer, workerID string) error {
	_, err := q.ExecContext(ctx, `UPDATE worker_profiles
		SET rating_average = COALESCE((SELECT AVG(rating)::float8 FROM reviews WHERE worker_id = $1), 0),
		    updated_at = NOW()
		WHERE user_id = $1`, workerID)
	return err
}
