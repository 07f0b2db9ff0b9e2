package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/hndlyt/releaseboard-backend/pkg/enums"
	"github.com/hndlyt/releaseboard-backend/pkg/types"
)

// Release is a scheduled release owned by exactly one user. ReleaseDate
// is the sole temporal anchor used by the calendar.
type Release struct {
	ID          uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Name        string            `gorm:"column:name;not null" json:"name"`
	Artist      string            `gorm:"column:artist;not null" json:"artist"`
	Type        enums.ReleaseType `gorm:"column:type;type:release_type;not null" json:"type"`
	Label       string            `gorm:"column:label;not null" json:"label"`
	ReleaseDate types.Date        `gorm:"column:release_date;type:date;not null" json:"release_date"`
	ArtworkURL  *string           `gorm:"column:artwork_url" json:"artwork_url,omitempty"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
