package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/hndlyt/releaseboard-backend/pkg/enums"
)

// Subscription persists an activated license tier per user. At most one
// active row per user is meaningful at resolution time; rows are only
// written through the activation flow.
type Subscription struct {
	ID                 uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID             uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Tier               enums.Tier `gorm:"column:tier;type:subscription_tier;not null" json:"tier"`
	Active             bool       `gorm:"column:active;not null;default:true" json:"active"`
	CurrentPeriodStart time.Time  `gorm:"column:current_period_start;not null" json:"current_period_start"`
	CurrentPeriodEnd   time.Time  `gorm:"column:current_period_end;not null" json:"current_period_end"`
	LicenseKey         string     `gorm:"column:license_key;not null" json:"-"`
	CreatedAt          time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
