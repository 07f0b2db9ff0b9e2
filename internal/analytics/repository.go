package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hndlyt/releaseboard-backend/pkg/db/models"
	"github.com/hndlyt/releaseboard-backend/pkg/enums"
	"github.com/hndlyt/releaseboard-backend/pkg/pagination"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Insert persists one event row. Called by the worker, never the API.
func (r *Repository) Insert(ctx context.Context, event *models.AnalyticsEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// ListQuery filters the event feed for one user.
type ListQuery struct {
	ReleaseID  *uuid.UUID
	Type       *enums.AnalyticsEventType
	From       *time.Time
	To         *time.Time
	Pagination pagination.Params
}

// EventRecord is one feed row. ReleaseName is nil when the release has
// since been deleted; events have no foreign key and outlive it.
type EventRecord struct {
	ID          uuid.UUID                `json:"id"`
	ReleaseID   uuid.UUID                `json:"release_id"`
	ReleaseName *string                  `json:"release_name"`
	Type        enums.AnalyticsEventType `json:"type"`
	CreatedAt   time.Time                `json:"created_at"`
}

// ListResult is one page of the event feed.
type ListResult struct {
	Events     []EventRecord `json:"events"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// List returns the user's events newest first with cursor pagination.
func (r *Repository) List(ctx context.Context, userID uuid.UUID, query ListQuery) (*ListResult, error) {
	pageSize := pagination.NormalizeLimit(query.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(query.Pagination.Limit)

	cursor, err := pagination.ParseCursor(query.Pagination.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).
		Table("analytics_events e").
		Select("e.id, e.release_id, r.name AS release_name, e.type, e.created_at").
		Joins("LEFT JOIN releases r ON r.id = e.release_id").
		Where("e.user_id = ?", userID)

	if query.ReleaseID != nil {
		qb = qb.Where("e.release_id = ?", *query.ReleaseID)
	}
	if query.Type != nil {
		qb = qb.Where("e.type = ?", *query.Type)
	}
	if query.From != nil {
		qb = qb.Where("e.created_at >= ?", *query.From)
	}
	if query.To != nil {
		qb = qb.Where("e.created_at < ?", *query.To)
	}
	if cursor != nil {
		qb = qb.Where("(e.created_at < ?) OR (e.created_at = ? AND e.id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	qb = qb.Order("e.created_at DESC").Order("e.id DESC").Limit(limitWithBuffer)

	var records []EventRecord
	if err := qb.Scan(&records).Error; err != nil {
		return nil, err
	}

	result := &ListResult{Events: records}
	if len(records) > pageSize {
		result.Events = records[:pageSize]
		last := result.Events[len(result.Events)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return result, nil
}

// TypeCount is one aggregate bucket of the summary.
type TypeCount struct {
	Type  enums.AnalyticsEventType `json:"type"`
	Count int64                    `json:"count"`
}

// CountByType aggregates the user's events per type within the window.
func (r *Repository) CountByType(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]TypeCount, error) {
	qb := r.db.WithContext(ctx).
		Model(&models.AnalyticsEvent{}).
		Select("type, COUNT(*) AS count").
		Where("user_id = ?", userID)
	if from != nil {
		qb = qb.Where("created_at >= ?", *from)
	}
	if to != nil {
		qb = qb.Where("created_at < ?", *to)
	}

	var counts []TypeCount
	if err := qb.Group("type").Order("type").Scan(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}
