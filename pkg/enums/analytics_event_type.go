package enums

import "fmt"

// AnalyticsEventType maps to the analytics_event_type enum in Postgres.
type AnalyticsEventType string

const (
	AnalyticsEventView       AnalyticsEventType = "view"
	AnalyticsEventSubmission AnalyticsEventType = "submission"
	AnalyticsEventApproval   AnalyticsEventType = "approval"
	AnalyticsEventRejection  AnalyticsEventType = "rejection"
)

var validAnalyticsEventTypes = []AnalyticsEventType{
	AnalyticsEventView,
	AnalyticsEventSubmission,
	AnalyticsEventApproval,
	AnalyticsEventRejection,
}

// String implements fmt.Stringer.
func (a AnalyticsEventType) String() string {
	return string(a)
}

// IsValid reports whether the value matches the canonical analytics_event_type enum.
func (a AnalyticsEventType) IsValid() bool {
	for _, candidate := range validAnalyticsEventTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAnalyticsEventType converts raw input into AnalyticsEventType.
func ParseAnalyticsEventType(value string) (AnalyticsEventType, error) {
	for _, candidate := range validAnalyticsEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid analytics event type %q", value)
}
