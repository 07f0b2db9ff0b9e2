package enums

import "testing"

func TestTierRankOrdering(t *testing.T) {
	if !(TierBasic.Rank() < TierPro.Rank() && TierPro.Rank() < TierLabel.Rank()) {
		t.Fatalf("expected basic < pro < label, got %d %d %d", TierBasic.Rank(), TierPro.Rank(), TierLabel.Rank())
	}
	if Tier("enterprise").Rank() != -1 {
		t.Fatalf("unknown tier should rank below basic")
	}
}

func TestHasAccess(t *testing.T) {
	tests := []struct {
		current  Tier
		required Tier
		want     bool
	}{
		{TierPro, TierBasic, true},
		{TierBasic, TierPro, false},
		{TierLabel, TierLabel, true},
		{TierBasic, TierBasic, true},
		{TierLabel, TierBasic, true},
		{TierBasic, TierLabel, false},
		{Tier("bogus"), TierBasic, false},
		{TierLabel, Tier("bogus"), false},
	}
	for _, tt := range tests {
		if got := tt.current.HasAccess(tt.required); got != tt.want {
			t.Fatalf("HasAccess(%s, %s) = %v, want %v", tt.current, tt.required, got, tt.want)
		}
	}
}

func TestParseTier(t *testing.T) {
	tier, err := ParseTier("pro")
	if err != nil {
		t.Fatalf("ParseTier returned error: %v", err)
	}
	if tier != TierPro {
		t.Fatalf("expected pro, got %s", tier)
	}
	if _, err := ParseTier("PRO"); err == nil {
		t.Fatal("tier values are case sensitive; expected error")
	}
}

func TestParseReleaseType(t *testing.T) {
	for _, raw := range []string{"Single", "EP", "Album"} {
		if _, err := ParseReleaseType(raw); err != nil {
			t.Fatalf("expected %q to parse: %v", raw, err)
		}
	}
	if _, err := ParseReleaseType("Mixtape"); err == nil {
		t.Fatal("expected error for unknown release type")
	}
}
