package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/hndlyt/releaseboard-backend/pkg/enums"
)

// AnalyticsEvent is one tracked dashboard event tied to a release.
// Rows are written by the analytics worker, not the API process.
type AnalyticsEvent struct {
	ID        uuid.UUID                `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID                `gorm:"column:user_id;type:uuid;not null;index"`
	ReleaseID uuid.UUID                `gorm:"column:release_id;type:uuid;not null;index"`
	Type      enums.AnalyticsEventType `gorm:"column:type;type:analytics_event_type;not null"`
	CreatedAt time.Time                `gorm:"column:created_at;autoCreateTime"`
}
