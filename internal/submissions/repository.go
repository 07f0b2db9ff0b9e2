package submissions

import (
	"context"

	"github.com/google/uuid"
	"github.com/hndlyt/releaseboard-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes submission persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a submission repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListByUser returns the user's submissions re-sorted on every load:
// submission_date descending, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Submission, error) {
	var rows []models.Submission
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("submission_date DESC").
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// GetByID loads one submission scoped to its owner.
func (r *Repository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Submission, error) {
	var row models.Submission
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Create inserts a new submission row.
func (r *Repository) Create(ctx context.Context, submission *models.Submission) (*models.Submission, error) {
	if err := r.db.WithContext(ctx).Create(submission).Error; err != nil {
		return nil, err
	}
	return submission, nil
}

// Update persists the full submission row.
func (r *Repository) Update(ctx context.Context, submission *models.Submission) (*models.Submission, error) {
	if err := r.db.WithContext(ctx).Save(submission).Error; err != nil {
		return nil, err
	}
	return submission, nil
}

// Delete removes the owner's submission; missing rows surface as not found.
func (r *Repository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Submission{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DistinctArtists returns the user's distinct artist names, lowercased.
func (r *Repository) DistinctArtists(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var artists []string
	err := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("user_id = ?", userID).
		Distinct("LOWER(artist)").
		Pluck("LOWER(artist)", &artists).Error
	if err != nil {
		return nil, err
	}
	return artists, nil
}
