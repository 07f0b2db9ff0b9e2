package analytics

import (
	"time"

	"github.com/google/uuid"

	"github.com/hndlyt/releaseboard-backend/pkg/enums"
)

// Envelope is the wire format for one tracked event published to the
// analytics topic. The worker decodes it back and writes the row.
type Envelope struct {
	EventID    uuid.UUID                `json:"event_id"`
	UserID     uuid.UUID                `json:"user_id"`
	ReleaseID  uuid.UUID                `json:"release_id"`
	Type       enums.AnalyticsEventType `json:"type"`
	OccurredAt time.Time                `json:"occurred_at"`
}
