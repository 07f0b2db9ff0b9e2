package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationPreferences stores a user's per-channel notification
// toggles. Absent rows mean defaults (everything on except push).
type NotificationPreferences struct {
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	Release     bool      `gorm:"column:release;not null;default:true"`
	Submission  bool      `gorm:"column:submission;not null;default:true"`
	Answer      bool      `gorm:"column:answer;not null;default:true"`
	Social      bool      `gorm:"column:social;not null;default:true"`
	PushEnabled bool      `gorm:"column:push_enabled;not null;default:false"`
	Email       bool      `gorm:"column:email;not null;default:true"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
