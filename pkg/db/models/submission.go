package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/hndlyt/releaseboard-backend/pkg/enums"
	"github.com/hndlyt/releaseboard-backend/pkg/types"
)

// Submission is a label submission with two temporal anchors; it can
// appear on the calendar under both its submission date and its
// expected-answer date.
type Submission struct {
	ID                 uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID             uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Name               string            `gorm:"column:name;not null" json:"name"`
	Artist             string            `gorm:"column:artist;not null" json:"artist"`
	Type               enums.ReleaseType `gorm:"column:type;type:release_type;not null" json:"type"`
	Label              string            `gorm:"column:label;not null" json:"label"`
	SubmissionDate     types.Date        `gorm:"column:submission_date;type:date;not null" json:"submission_date"`
	ExpectedAnswerDate types.Date        `gorm:"column:expected_answer_date;type:date;not null" json:"expected_answer_date"`
	ArtworkURL         *string           `gorm:"column:artwork_url" json:"artwork_url,omitempty"`
	CreatedAt          time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
