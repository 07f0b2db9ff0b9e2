package enums

import "fmt"

// ReleaseType maps to the release_type enum in Postgres. The same
// values apply to label submissions.
type ReleaseType string

const (
	ReleaseTypeSingle ReleaseType = "Single"
	ReleaseTypeEP     ReleaseType = "EP"
	ReleaseTypeAlbum  ReleaseType = "Album"
)

var validReleaseTypes = []ReleaseType{
	ReleaseTypeSingle,
	ReleaseTypeEP,
	ReleaseTypeAlbum,
}

// String implements fmt.Stringer.
func (r ReleaseType) String() string {
	return string(r)
}

// IsValid reports whether the value matches the canonical release_type enum.
func (r ReleaseType) IsValid() bool {
	for _, candidate := range validReleaseTypes {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseReleaseType converts raw input into ReleaseType.
func ParseReleaseType(value string) (ReleaseType, error) {
	for _, candidate := range validReleaseTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid release type %q", value)
}
