package subscriptions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hndlyt/releaseboard-backend/pkg/db/models"
	"github.com/hndlyt/releaseboard-backend/pkg/enums"
)

// Repository provides persistence for subscription rows. Activation
// writes go through the WithTx variants so a user never holds two
// active rows at once.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindCurrent returns the active subscription whose period contains now.
// When several qualify the one ending last wins; ties break on recency.
func (r *Repository) FindCurrent(ctx context.Context, userID uuid.UUID, now time.Time) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND active = ? AND current_period_start <= ? AND current_period_end >= ?", userID, true, now, now).
		Order("current_period_end DESC").
		Order("created_at DESC").
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// DeactivateAllWithTx flips every active row for the user to inactive.
func (r *Repository) DeactivateAllWithTx(tx *gorm.DB, userID uuid.UUID) error {
	return tx.Model(&models.Subscription{}).
		Where("user_id = ? AND active = ?", userID, true).
		Update("active", false).Error
}

// CreateWithTx inserts a new subscription row inside the caller's transaction.
func (r *Repository) CreateWithTx(tx *gorm.DB, sub *models.Subscription) error {
	return tx.Create(sub).Error
}

// ExpireLapsed deactivates every active row whose period ended before now
// and reports how many rows changed.
func (r *Repository) ExpireLapsed(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("active = ? AND current_period_end < ?", true, now).
		Update("active", false)
	return result.RowsAffected, result.Error
}

// TierCount is one row of the active-subscription breakdown.
type TierCount struct {
	Tier  enums.Tier `json:"tier"`
	Count int64      `json:"count"`
}

// CountActiveByTier breaks down the currently-active subscriptions per
// tier for the admin dashboard.
func (r *Repository) CountActiveByTier(ctx context.Context, now time.Time) ([]TierCount, error) {
	var rows []TierCount
	err := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Select("tier, COUNT(*) AS count").
		Where("active = ? AND current_period_start <= ? AND current_period_end >= ?", true, now, now).
		Group("tier").
		Order("tier").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DeactivateSuperseded flips any active row that a newer active row for
// the same user has replaced. Activation normally handles this in its
// transaction; this sweeps up drift.
func (r *Repository) DeactivateSuperseded(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE subscriptions s SET active = FALSE
		WHERE s.active AND EXISTS (
			SELECT 1 FROM subscriptions n
			WHERE n.user_id = s.user_id AND n.active
			  AND (n.created_at > s.created_at OR (n.created_at = s.created_at AND n.id > s.id))
		)`)
	return result.RowsAffected, result.Error
}
