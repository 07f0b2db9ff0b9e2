package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hndlyt/releaseboard-backend/internal/calendar"
	"github.com/hndlyt/releaseboard-backend/internal/releases"
	"github.com/hndlyt/releaseboard-backend/internal/subscriptions"
	pkgAuth "github.com/hndlyt/releaseboard-backend/pkg/auth"
	"github.com/hndlyt/releaseboard-backend/pkg/auth/session"
	"github.com/hndlyt/releaseboard-backend/pkg/config"
	"github.com/hndlyt/releaseboard-backend/pkg/db/models"
	"github.com/hndlyt/releaseboard-backend/pkg/enums"
	"github.com/hndlyt/releaseboard-backend/pkg/types"
)

type stubSessionChecker struct{ ok bool }

func (s stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return s.ok, nil
}

type stubReleasesService struct{}

func (stubReleasesService) List(ctx context.Context, userID uuid.UUID) ([]models.Release, error) {
	return []models.Release{}, nil
}

func (stubReleasesService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Release, error) {
	return &models.Release{ID: id, UserID: userID}, nil
}

func (stubReleasesService) Create(ctx context.Context, userID uuid.UUID, input releases.CreateInput) (*models.Release, error) {
	return &models.Release{UserID: userID}, nil
}

func (stubReleasesService) Update(ctx context.Context, userID, id uuid.UUID, input releases.UpdateInput) (*models.Release, error) {
	return &models.Release{ID: id, UserID: userID}, nil
}

func (stubReleasesService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return nil
}

type stubSubscriptionsService struct {
	tier enums.Tier
}

func (s stubSubscriptionsService) ResolveTier(ctx context.Context, userID uuid.UUID) enums.Tier {
	return s.tier
}

func (s stubSubscriptionsService) HasAccess(ctx context.Context, userID uuid.UUID, required enums.Tier) bool {
	return s.tier.HasAccess(required)
}

func (s stubSubscriptionsService) GetCurrent(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	return &models.Subscription{UserID: userID, Tier: s.tier, Active: true}, nil
}

func (s stubSubscriptionsService) Activate(ctx context.Context, userID uuid.UUID, licenseKey string) (*models.Subscription, error) {
	return &models.Subscription{UserID: userID, Tier: s.tier, Active: true}, nil
}

func (s stubSubscriptionsService) CheckReleaseLimit(ctx context.Context, userID uuid.UUID, now time.Time) error {
	return nil
}

func (s stubSubscriptionsService) CheckArtistLimit(ctx context.Context, userID uuid.UUID, artist string) error {
	return nil
}

type stubCalendarService struct{}

func (stubCalendarService) MonthView(ctx context.Context, userID uuid.UUID, year int, month time.Month) (*calendar.Grid, error) {
	return &calendar.Grid{Year: year, Month: int(month)}, nil
}

func (stubCalendarService) DayView(ctx context.Context, userID uuid.UUID, date types.Date) (*calendar.DayBucket, error) {
	return &calendar.DayBucket{Date: date}, nil
}

func testRouter(t *testing.T, tier enums.Tier) (http.Handler, config.JWTConfig) {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT = config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}

	router := NewRouter(Deps{
		Config:        cfg,
		Session:       stubSessionChecker{ok: true},
		Releases:      stubReleasesService{},
		Calendar:      stubCalendarService{},
		Subscriptions: stubSubscriptionsService{tier: tier},
	})
	return router, cfg.JWT
}

func mintToken(t *testing.T, cfg config.JWTConfig, role *string) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:     uuid.New(),
		ArtistName: "Moss Garden",
		SystemRole: role,
		JTI:        session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router, _ := testRouter(t, enums.TierBasic)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestPublicPing(t *testing.T) {
	router, _ := testRouter(t, enums.TierBasic)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/public/ping", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestReleasesRequireAuth(t *testing.T) {
	router, _ := testRouter(t, enums.TierBasic)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/releases", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestReleasesWithValidToken(t *testing.T) {
	router, jwtCfg := testRouter(t, enums.TierBasic)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/releases", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, jwtCfg, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAnalyticsGatedByTier(t *testing.T) {
	router, jwtCfg := testRouter(t, enums.TierBasic)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/summary", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, jwtCfg, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for basic tier, got %d", resp.Code)
	}
}

func TestCalendarOpenToBasicTier(t *testing.T) {
	router, jwtCfg := testRouter(t, enums.TierBasic)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/calendar/2026-03", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, jwtCfg, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for basic tier, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAdminRoutesRequireRole(t *testing.T) {
	router, jwtCfg := testRouter(t, enums.TierBasic)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, jwtCfg, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without admin role, got %d", resp.Code)
	}

	role := "admin"
	req = httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, jwtCfg, &role))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with admin role, got %d", resp.Code)
	}
}

var _ subscriptions.Service = stubSubscriptionsService{}
var _ releases.Service = stubReleasesService{}
var _ calendar.Service = stubCalendarService{}
