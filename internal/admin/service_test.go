package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hndlyt/releaseboard-backend/internal/subscriptions"
	"github.com/hndlyt/releaseboard-backend/internal/users"
	"github.com/hndlyt/releaseboard-backend/pkg/db/models"
	"github.com/hndlyt/releaseboard-backend/pkg/enums"
	pkgerrors "github.com/hndlyt/releaseboard-backend/pkg/errors"
	"github.com/hndlyt/releaseboard-backend/pkg/pagination"
)

type stubUsersRepo struct {
	list      *users.ListResult
	listErr   error
	active    int64
	activeErr error
}

func (s *stubUsersRepo) ListRecent(ctx context.Context, params pagination.Params) (*users.ListResult, error) {
	return s.list, s.listErr
}

func (s *stubUsersRepo) CountActive(ctx context.Context) (int64, error) {
	return s.active, s.activeErr
}

type stubSubsRepo struct {
	counts []subscriptions.TierCount
	err    error
}

func (s *stubSubsRepo) CountActiveByTier(ctx context.Context, now time.Time) ([]subscriptions.TierCount, error) {
	return s.counts, s.err
}

func newTestService(t *testing.T, usersRepo usersRepository, subsRepo subscriptionsRepository) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Users: usersRepo, Subscriptions: subsRepo})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestOverviewComputesRevenueFromListPrices(t *testing.T) {
	svc := newTestService(t, &stubUsersRepo{active: 42}, &stubSubsRepo{counts: []subscriptions.TierCount{
		{Tier: enums.TierBasic, Count: 30},
		{Tier: enums.TierPro, Count: 10},
		{Tier: enums.TierLabel, Count: 2},
	}})

	overview, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if overview.ActiveUsers != 42 {
		t.Fatalf("expected 42 active users, got %d", overview.ActiveUsers)
	}
	// 10 * 9.99 + 2 * 29.99 = 159.88; basic rows are free.
	if got := overview.MonthlyRecurringRevenue.StringFixed(2); got != "159.88" {
		t.Fatalf("expected MRR 159.88, got %s", got)
	}
	if len(overview.SubscriptionsByTier) != 3 {
		t.Fatalf("expected 3 tier rows, got %d", len(overview.SubscriptionsByTier))
	}
}

func TestRevenueBreakdown(t *testing.T) {
	svc := newTestService(t, &stubUsersRepo{}, &stubSubsRepo{counts: []subscriptions.TierCount{
		{Tier: enums.TierPro, Count: 3},
		{Tier: enums.TierLabel, Count: 1},
	}})

	revenue, err := svc.Revenue(context.Background())
	if err != nil {
		t.Fatalf("Revenue: %v", err)
	}
	// 3 * 9.99 + 1 * 29.99 = 59.96
	if got := revenue.MonthlyRecurringRevenue.StringFixed(2); got != "59.96" {
		t.Fatalf("expected MRR 59.96, got %s", got)
	}
	if len(revenue.SubscriptionsByTier) != 2 {
		t.Fatalf("expected 2 tier rows, got %d", len(revenue.SubscriptionsByTier))
	}
}

func TestRevenuePropagatesStoreError(t *testing.T) {
	svc := newTestService(t, &stubUsersRepo{}, &stubSubsRepo{err: errors.New("boom")})

	if _, err := svc.Revenue(context.Background()); pkgerrors.As(err).Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestOverviewZeroRevenueWithoutPaidPlans(t *testing.T) {
	svc := newTestService(t, &stubUsersRepo{active: 5}, &stubSubsRepo{counts: []subscriptions.TierCount{
		{Tier: enums.TierBasic, Count: 5},
	}})

	overview, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if !overview.MonthlyRecurringRevenue.IsZero() {
		t.Fatalf("expected zero MRR, got %s", overview.MonthlyRecurringRevenue)
	}
}

func TestOverviewSurfacesLookupFailures(t *testing.T) {
	svc := newTestService(t, &stubUsersRepo{activeErr: errors.New("db down")}, &stubSubsRepo{})

	_, err := svc.Overview(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if code := pkgerrors.As(err).Code(); code != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %s", code)
	}
}

func TestListUsersMapsToDTOs(t *testing.T) {
	hash := "argon2id$..."
	svc := newTestService(t, &stubUsersRepo{list: &users.ListResult{
		Users: []models.User{{
			ID:           uuid.New(),
			Email:        "artist@example.com",
			PasswordHash: hash,
			ArtistName:   "Moss Garden",
			IsActive:     true,
		}},
		NextCursor: "next",
	}}, &stubSubsRepo{})

	page, err := svc.ListUsers(context.Background(), pagination.Params{Limit: 25})
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(page.Users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(page.Users))
	}
	if page.Users[0].Email != "artist@example.com" {
		t.Fatalf("unexpected email %s", page.Users[0].Email)
	}
	if page.NextCursor != "next" {
		t.Fatalf("expected cursor passthrough, got %q", page.NextCursor)
	}
}

func TestListUsersRejectsMalformedCursor(t *testing.T) {
	svc := newTestService(t, &stubUsersRepo{}, &stubSubsRepo{})

	_, err := svc.ListUsers(context.Background(), pagination.Params{Cursor: "not-base64!!"})
	if err == nil {
		t.Fatal("expected error")
	}
	if code := pkgerrors.As(err).Code(); code != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %s", code)
	}
}
