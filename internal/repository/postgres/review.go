package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/repository"
)

type reviewRepository struct {
	BaseRepository
}

func NewReviewRepository(db *sqlx.DB) repository.ReviewRepository {
	return &reviewRepository{BaseRepository{db: db}}
}

const reviewColumns = `id, clinic_id, owner_name, rating, comment, response, is_published, created_at`

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	query := `
		INSERT INTO reviews (id, clinic_id, owner_name, rating, comment, is_published, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	review.ID = uuid.New()
	review.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		review.ID, review.ClinicID, review.OwnerName, review.Rating,
		review.Comment, review.IsPublished, review.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func (r *reviewRepository) Get(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	query := fmt.Sprintf(`SELECT %s FROM reviews WHERE id = $1`, reviewColumns)

	var review model.Review
	if err := r.db.GetContext(ctx, &review, query, id); err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return &review, nil
}

func (r *reviewRepository) List(ctx context.Context, clinicID *uuid.UUID, publishedOnly bool) ([]*model.Review, error) {
	query := fmt.Sprintf(`SELECT %s FROM reviews WHERE 1=1`, reviewColumns)
	args := []interface{}{}
	argCount := 1

	if clinicID != nil {
		query += fmt.Sprintf(" AND clinic_id = $%d", argCount)
		args = append(args, *clinicID)
		argCount++
	}
	if publishedOnly {
		query += " AND is_published = true"
	}

	query += " ORDER BY created_at DESC"

	var reviews []*model.Review
	if err := r.db.SelectContext(ctx, &reviews, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

func (r *reviewRepository) Respond(ctx context.Context, id uuid.UUID, response string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE reviews SET response = $1 WHERE id = $2`, response, id)
	if err != nil {
		return fmt.Errorf("failed to respond to review: %w", err)
	}
	return requireRowsAffected(result, "review")
}

func (r *reviewRepository) SetPublished(ctx context.Context, id uuid.UUID, published bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE reviews SET is_published = $1 WHERE id = $2`, published, id)
	if err != nil {
		return fmt.Errorf("failed to update review visibility: %w", err)
	}
	return requireRowsAffected(result, "review")
}
