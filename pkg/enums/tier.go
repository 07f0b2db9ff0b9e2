package enums

import "fmt"

// Tier maps to the subscription_tier enum in Postgres.
type Tier string

const (
	TierBasic Tier = "basic"
	TierPro   Tier = "pro"
	TierLabel Tier = "label"
)

var validTiers = []Tier{
	TierBasic,
	TierPro,
	TierLabel,
}

// tierRanks defines the total order basic < pro < label.
var tierRanks = map[Tier]int{
	TierBasic: 0,
	TierPro:   1,
	TierLabel: 2,
}

// String implements fmt.Stringer.
func (t Tier) String() string {
	return string(t)
}

// IsValid reports whether the value matches the canonical subscription_tier enum.
func (t Tier) IsValid() bool {
	_, ok := tierRanks[t]
	return ok
}

// Rank returns the tier's position in the access ordering. Unknown
// tiers rank lowest so a corrupt row can never grant extra access.
func (t Tier) Rank() int {
	if rank, ok := tierRanks[t]; ok {
		return rank
	}
	return -1
}

// HasAccess reports whether a holder of tier t may use a feature
// gated at the required tier.
func (t Tier) HasAccess(required Tier) bool {
	return t.IsValid() && required.IsValid() && t.Rank() >= required.Rank()
}

// ParseTier converts raw input into Tier.
func ParseTier(value string) (Tier, error) {
	for _, candidate := range validTiers {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid tier %q", value)
}
