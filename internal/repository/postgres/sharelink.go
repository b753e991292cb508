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

type shareLinkRepository struct {
	BaseRepository
}

func NewShareLinkRepository(db *sqlx.DB) repository.ShareLinkRepository {
	return &shareLinkRepository{BaseRepository{db: db}}
}

const shareLinkColumns = `id, animal_id, code, expires_at, max_access, access_count,
	   is_active, created_by, created_at, updated_at`

func (r *shareLinkRepository) Create(ctx context.Context, link *model.ShareLink) error {
	query := `
		INSERT INTO share_links (
			id, animal_id, code, expires_at, max_access, access_count,
			is_active, created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	link.ID = uuid.New()
	link.CreatedAt = time.Now()
	link.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		link.ID, link.AnimalID, link.Code, link.ExpiresAt, link.MaxAccess,
		link.AccessCount, link.IsActive, link.CreatedBy,
		link.CreatedAt, link.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create share link: %w", err)
	}
	return nil
}

func (r *shareLinkRepository) Get(ctx context.Context, id uuid.UUID) (*model.ShareLink, error) {
	query := fmt.Sprintf(`SELECT %s FROM share_links WHERE id = $1`, shareLinkColumns)

	var link model.ShareLink
	if err := r.db.GetContext(ctx, &link, query, id); err != nil {
		return nil, fmt.Errorf("failed to get share link: %w", err)
	}
	return &link, nil
}

func (r *shareLinkRepository) GetByCode(ctx context.Context, code string) (*model.ShareLink, error) {
	query := fmt.Sprintf(`SELECT %s FROM share_links WHERE code = $1`, shareLinkColumns)

	var link model.ShareLink
	if err := r.db.GetContext(ctx, &link, query, code); err != nil {
		return nil, fmt.Errorf("failed to get share link by code: %w", err)
	}
	return &link, nil
}

func (r *shareLinkRepository) List(ctx context.Context, clinicID *uuid.UUID) ([]*model.ShareLink, error) {
	query := fmt.Sprintf(`SELECT %s FROM share_links sl WHERE 1=1`, prefixColumns("sl", shareLinkColumns))
	args := []interface{}{}

	if clinicID != nil {
		query += " AND sl.animal_id IN (SELECT id FROM animals WHERE clinic_id = $1)"
		args = append(args, *clinicID)
	}
	query += " ORDER BY sl.created_at DESC"

	var links []*model.ShareLink
	if err := r.db.SelectContext(ctx, &links, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list share links: %w", err)
	}
	return links, nil
}

func (r *shareLinkRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.ShareLink, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM share_links sl
		WHERE sl.animal_id IN (SELECT id FROM animals WHERE owner_id = $1)
		ORDER BY sl.created_at DESC`, prefixColumns("sl", shareLinkColumns))

	var links []*model.ShareLink
	if err := r.db.SelectContext(ctx, &links, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list share links by owner: %w", err)
	}
	return links, nil
}

// Access consumes one access slot with a single guarded update, so two
// concurrent calls near the cap can never both take the last slot. Returns
// sql.ErrNoRows (wrapped) when no valid slot matched; the caller classifies
// why by re-reading the row.
func (r *shareLinkRepository) Access(ctx context.Context, code string, now time.Time) (*model.ShareLink, error) {
	query := fmt.Sprintf(`
		UPDATE share_links
		SET access_count = access_count + 1, updated_at = $1
		WHERE code = $2
		  AND is_active = true
		  AND expires_at > $3
		  AND (max_access IS NULL OR access_count < max_access)
		RETURNING %s
	`, shareLinkColumns)

	var link model.ShareLink
	if err := r.db.GetContext(ctx, &link, query, now, code, now); err != nil {
		return nil, fmt.Errorf("failed to access share link: %w", err)
	}
	return &link, nil
}

// Deactivate is idempotent: deactivating an inactive link still matches the
// row and leaves it inactive.
func (r *shareLinkRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE share_links SET is_active = false, updated_at = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate share link: %w", err)
	}
	return requireRowsAffected(result, "share link")
}
