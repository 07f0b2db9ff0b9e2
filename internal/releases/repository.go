package releases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hndlyt/releaseboard-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes release persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a release repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListByUser returns the user's releases re-sorted on every load:
// release_date ascending, ties broken by creation time.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Release, error) {
	var rows []models.Release
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("release_date ASC").
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// GetByID loads one release scoped to its owner.
func (r *Repository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Release, error) {
	var row models.Release
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Create inserts a new release row.
func (r *Repository) Create(ctx context.Context, release *models.Release) (*models.Release, error) {
	if err := r.db.WithContext(ctx).Create(release).Error; err != nil {
		return nil, err
	}
	return release, nil
}

// Update persists the full release row.
func (r *Repository) Update(ctx context.Context, release *models.Release) (*models.Release, error) {
	if err := r.db.WithContext(ctx).Save(release).Error; err != nil {
		return nil, err
	}
	return release, nil
}

// Delete removes the owner's release; missing rows surface as not found.
func (r *Repository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Release{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountCreatedSince counts the user's releases created at or after the given instant.
func (r *Repository) CountCreatedSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Release{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// DistinctArtists returns the user's distinct artist names, lowercased.
func (r *Repository) DistinctArtists(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var artists []string
	err := r.db.WithContext(ctx).
		Model(&models.Release{}).
		Where("user_id = ?", userID).
		Distinct("LOWER(artist)").
		Pluck("LOWER(artist)", &artists).Error
	if err != nil {
		return nil, err
	}
	return artists, nil
}
