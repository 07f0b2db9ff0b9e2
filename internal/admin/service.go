package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hndlyt/releaseboard-backend/internal/subscriptions"
	"github.com/hndlyt/releaseboard-backend/internal/users"
	pkgerrors "github.com/hndlyt/releaseboard-backend/pkg/errors"
	"github.com/hndlyt/releaseboard-backend/pkg/pagination"
)

// Monthly list prices per tier. Basic is the free default and
// contributes nothing to recurring revenue.
var tierMonthlyPrices = map[string]decimal.Decimal{
	"pro":   decimal.New(999, -2),
	"label": decimal.New(2999, -2),
}

type usersRepository interface {
	ListRecent(ctx context.Context, params pagination.Params) (*users.ListResult, error)
	CountActive(ctx context.Context) (int64, error)
}

type subscriptionsRepository interface {
	CountActiveByTier(ctx context.Context, now time.Time) ([]subscriptions.TierCount, error)
}

// Service backs the read-only operations dashboard.
type Service interface {
	Overview(ctx context.Context) (*Overview, error)
	Revenue(ctx context.Context) (*Revenue, error)
	ListUsers(ctx context.Context, params pagination.Params) (*UserPage, error)
}

// Overview aggregates the headline dashboard numbers. Revenue is an
// estimate from list prices, not a billing-system figure.
type Overview struct {
	ActiveUsers             int64                     `json:"active_users"`
	SubscriptionsByTier     []subscriptions.TierCount `json:"subscriptions_by_tier"`
	MonthlyRecurringRevenue decimal.Decimal           `json:"monthly_recurring_revenue"`
}

// Revenue is the subscription income breakdown served on its own route.
type Revenue struct {
	SubscriptionsByTier     []subscriptions.TierCount `json:"subscriptions_by_tier"`
	MonthlyRecurringRevenue decimal.Decimal           `json:"monthly_recurring_revenue"`
}

// UserPage is one page of the dashboard user listing.
type UserPage struct {
	Users      []users.UserDTO `json:"users"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

type service struct {
	users usersRepository
	subs  subscriptionsRepository
	now   func() time.Time
}

// ServiceParams lists the dependencies the admin service needs.
type ServiceParams struct {
	Users         usersRepository
	Subscriptions subscriptionsRepository
}

func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if params.Subscriptions == nil {
		return nil, fmt.Errorf("subscriptions repository required")
	}
	return &service{
		users: params.Users,
		subs:  params.Subscriptions,
		now:   time.Now,
	}, nil
}

func (s *service) Overview(ctx context.Context) (*Overview, error) {
	activeUsers, err := s.users.CountActive(ctx)
	if err != nil {
		return nil, pkgerrors.FromStore(err, "count active users")
	}

	byTier, revenue, err := s.revenueByTier(ctx)
	if err != nil {
		return nil, err
	}

	return &Overview{
		ActiveUsers:             activeUsers,
		SubscriptionsByTier:     byTier,
		MonthlyRecurringRevenue: revenue,
	}, nil
}

func (s *service) Revenue(ctx context.Context) (*Revenue, error) {
	byTier, revenue, err := s.revenueByTier(ctx)
	if err != nil {
		return nil, err
	}
	return &Revenue{
		SubscriptionsByTier:     byTier,
		MonthlyRecurringRevenue: revenue,
	}, nil
}

func (s *service) revenueByTier(ctx context.Context) ([]subscriptions.TierCount, decimal.Decimal, error) {
	byTier, err := s.subs.CountActiveByTier(ctx, s.now().UTC())
	if err != nil {
		return nil, decimal.Zero, pkgerrors.FromStore(err, "count subscriptions by tier")
	}

	revenue := decimal.Zero
	for _, row := range byTier {
		price, ok := tierMonthlyPrices[string(row.Tier)]
		if !ok {
			continue
		}
		revenue = revenue.Add(price.Mul(decimal.NewFromInt(row.Count)))
	}
	return byTier, revenue, nil
}

func (s *service) ListUsers(ctx context.Context, params pagination.Params) (*UserPage, error) {
	if _, err := pagination.ParseCursor(params.Cursor); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	result, err := s.users.ListRecent(ctx, params)
	if err != nil {
		return nil, pkgerrors.FromStore(err, "list users")
	}

	page := &UserPage{
		Users:      make([]users.UserDTO, 0, len(result.Users)),
		NextCursor: result.NextCursor,
	}
	for i := range result.Users {
		page.Users = append(page.Users, *users.FromModel(&result.Users[i]))
	}
	return page, nil
}
