package subscriptions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hndlyt/releaseboard-backend/pkg/config"
	"github.com/hndlyt/releaseboard-backend/pkg/db/models"
	"github.com/hndlyt/releaseboard-backend/pkg/enums"
	pkgerrors "github.com/hndlyt/releaseboard-backend/pkg/errors"
)

// testKeyPrefix short-circuits vendor verification for development keys.
const testKeyPrefix = "TEST-"

type subscriptionsRepository interface {
	FindCurrent(ctx context.Context, userID uuid.UUID, now time.Time) (*models.Subscription, error)
	DeactivateAllWithTx(tx *gorm.DB, userID uuid.UUID) error
	CreateWithTx(tx *gorm.DB, sub *models.Subscription) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type licenseVerifier interface {
	Verify(ctx context.Context, licenseKey string) (*VerifyResult, error)
}

type releasesReader interface {
	CountCreatedSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error)
	DistinctArtists(ctx context.Context, userID uuid.UUID) ([]string, error)
}

type submissionsReader interface {
	DistinctArtists(ctx context.Context, userID uuid.UUID) ([]string, error)
}

// Service resolves effective tiers, enforces the submit-time quotas built
// on top of them, and runs the license activation flow.
type Service interface {
	ResolveTier(ctx context.Context, userID uuid.UUID) enums.Tier
	HasAccess(ctx context.Context, userID uuid.UUID, required enums.Tier) bool
	GetCurrent(ctx context.Context, userID uuid.UUID) (*models.Subscription, error)
	Activate(ctx context.Context, userID uuid.UUID, licenseKey string) (*models.Subscription, error)
	CheckReleaseLimit(ctx context.Context, userID uuid.UUID, now time.Time) error
	CheckArtistLimit(ctx context.Context, userID uuid.UUID, artist string) error
}

// ServiceParams groups dependencies for the subscription service.
type ServiceParams struct {
	Repo              subscriptionsRepository
	Verifier          licenseVerifier
	Releases          releasesReader
	Submissions       submissionsReader
	TransactionRunner txRunner
	Quota             config.QuotaConfig
}

type service struct {
	repo        subscriptionsRepository
	verifier    licenseVerifier
	releases    releasesReader
	submissions submissionsReader
	txRunner    txRunner
	quota       config.QuotaConfig
	now         func() time.Time
}

// NewService constructs the subscription service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("subscriptions repository required")
	}
	if params.Verifier == nil {
		return nil, fmt.Errorf("license verifier required")
	}
	if params.Releases == nil {
		return nil, fmt.Errorf("releases reader required")
	}
	if params.Submissions == nil {
		return nil, fmt.Errorf("submissions reader required")
	}
	if params.TransactionRunner == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:        params.Repo,
		verifier:    params.Verifier,
		releases:    params.Releases,
		submissions: params.Submissions,
		txRunner:    params.TransactionRunner,
		quota:       params.Quota,
		now:         time.Now,
	}, nil
}

// ResolveTier returns the user's effective tier. Absent rows, expired
// windows, and lookup failures all resolve to basic; a gate must never
// hard-fail on a tier read.
func (s *service) ResolveTier(ctx context.Context, userID uuid.UUID) enums.Tier {
	if userID == uuid.Nil {
		return enums.TierBasic
	}
	sub, err := s.repo.FindCurrent(ctx, userID, s.now())
	if err != nil {
		return enums.TierBasic
	}
	if !sub.Tier.IsValid() {
		return enums.TierBasic
	}
	return sub.Tier
}

// HasAccess reports whether the user's effective tier meets the required one.
func (s *service) HasAccess(ctx context.Context, userID uuid.UUID, required enums.Tier) bool {
	return s.ResolveTier(ctx, userID).HasAccess(required)
}

// GetCurrent returns the active subscription row backing the effective tier.
func (s *service) GetCurrent(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	sub, err := s.repo.FindCurrent(ctx, userID, s.now())
	if err != nil {
		return nil, pkgerrors.FromStore(err, "loading subscription")
	}
	return sub, nil
}

// Activate verifies the license key, resolves its tier, and atomically
// replaces the user's active subscription. A failed verification leaves
// the stored tier untouched.
func (s *service) Activate(ctx context.Context, userID uuid.UUID, licenseKey string) (*models.Subscription, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	key := strings.TrimSpace(licenseKey)
	if key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "license_key is required")
	}

	now := s.now()
	tier, expiresAt, err := s.verifyKey(ctx, key, now)
	if err != nil {
		return nil, err
	}

	sub := &models.Subscription{
		UserID:             userID,
		Tier:               tier,
		Active:             true,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   expiresAt,
		LicenseKey:         key,
	}
	err = s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.DeactivateAllWithTx(tx, userID); err != nil {
			return err
		}
		return s.repo.CreateWithTx(tx, sub)
	})
	if err != nil {
		return nil, pkgerrors.FromStore(err, "persisting subscription")
	}
	return sub, nil
}

func (s *service) verifyKey(ctx context.Context, key string, now time.Time) (enums.Tier, time.Time, error) {
	if strings.HasPrefix(strings.ToUpper(key), testKeyPrefix) {
		upper := strings.ToUpper(key)
		var tier enums.Tier
		switch {
		case strings.Contains(upper, "BASIC"):
			tier = enums.TierBasic
		case strings.Contains(upper, "PRO"):
			tier = enums.TierPro
		case strings.Contains(upper, "LABEL"):
			tier = enums.TierLabel
		default:
			return "", time.Time{}, pkgerrors.New(pkgerrors.CodeVerification, "test key does not name a tier")
		}
		return tier, now.AddDate(1, 0, 0), nil
	}

	result, err := s.verifier.Verify(ctx, key)
	if err != nil {
		return "", time.Time{}, err
	}
	expiresAt := now.AddDate(1, 0, 0)
	if result.ExpiresAt != nil {
		expiresAt = *result.ExpiresAt
	}
	return tierFromVariant(result.VariantName), expiresAt, nil
}

// tierFromVariant maps the vendor's variant naming onto a tier. Unknown
// variants fall back to basic rather than failing the activation.
func tierFromVariant(variant string) enums.Tier {
	lower := strings.ToLower(variant)
	switch {
	case strings.Contains(lower, "label"):
		return enums.TierLabel
	case strings.Contains(lower, "pro"):
		return enums.TierPro
	default:
		return enums.TierBasic
	}
}

// CheckReleaseLimit rejects a new release when a basic-tier user has
// already hit the monthly cap. Pro and label are unlimited. The check is
// read-then-write with no transactional guard.
func (s *service) CheckReleaseLimit(ctx context.Context, userID uuid.UUID, now time.Time) error {
	if s.ResolveTier(ctx, userID) != enums.TierBasic {
		return nil
	}
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	count, err := s.releases.CountCreatedSince(ctx, userID, monthStart)
	if err != nil {
		return pkgerrors.FromStore(err, "counting releases for quota")
	}
	if count >= int64(s.quota.BasicMonthlyReleases) {
		return pkgerrors.New(pkgerrors.CodeQuota,
			fmt.Sprintf("basic tier allows %d releases per month", s.quota.BasicMonthlyReleases))
	}
	return nil
}

// CheckArtistLimit rejects a write that would push the user's distinct
// artist count past the tier cap. Artists compare case-insensitively and
// span both releases and submissions; reusing an existing artist never
// trips the check.
func (s *service) CheckArtistLimit(ctx context.Context, userID uuid.UUID, artist string) error {
	tier := s.ResolveTier(ctx, userID)

	var limit int
	switch tier {
	case enums.TierBasic:
		limit = s.quota.BasicArtists
	case enums.TierPro:
		limit = s.quota.ProArtists
	default:
		return nil
	}

	fromReleases, err := s.releases.DistinctArtists(ctx, userID)
	if err != nil {
		return pkgerrors.FromStore(err, "listing release artists for quota")
	}
	fromSubmissions, err := s.submissions.DistinctArtists(ctx, userID)
	if err != nil {
		return pkgerrors.FromStore(err, "listing submission artists for quota")
	}

	seen := make(map[string]struct{}, len(fromReleases)+len(fromSubmissions)+1)
	for _, name := range fromReleases {
		seen[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}
	for _, name := range fromSubmissions {
		seen[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}
	seen[strings.ToLower(strings.TrimSpace(artist))] = struct{}{}

	if len(seen) > limit {
		return pkgerrors.New(pkgerrors.CodeQuota,
			fmt.Sprintf("%s tier allows %d distinct artists", tier, limit))
	}
	return nil
}
