package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hndlyt/releaseboard-backend/api/middleware"
	"github.com/hndlyt/releaseboard-backend/pkg/db/models"
	"github.com/hndlyt/releaseboard-backend/pkg/enums"
	pkgerrors "github.com/hndlyt/releaseboard-backend/pkg/errors"
)

type stubSubscriptionService struct {
	tier        enums.Tier
	current     *models.Subscription
	currentErr  error
	activated   *models.Subscription
	activateErr error

	lastLicenseKey string
}

func (s *stubSubscriptionService) ResolveTier(ctx context.Context, userID uuid.UUID) enums.Tier {
	return s.tier
}

func (s *stubSubscriptionService) HasAccess(ctx context.Context, userID uuid.UUID, required enums.Tier) bool {
	return s.tier.HasAccess(required)
}

func (s *stubSubscriptionService) GetCurrent(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	return s.current, s.currentErr
}

func (s *stubSubscriptionService) Activate(ctx context.Context, userID uuid.UUID, licenseKey string) (*models.Subscription, error) {
	s.lastLicenseKey = licenseKey
	return s.activated, s.activateErr
}

func (s *stubSubscriptionService) CheckReleaseLimit(ctx context.Context, userID uuid.UUID, now time.Time) error {
	return nil
}

func (s *stubSubscriptionService) CheckArtistLimit(ctx context.Context, userID uuid.UUID, artist string) error {
	return nil
}

func withUser(req *http.Request) *http.Request {
	return req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
}

func TestSubscriptionMeFreeDefault(t *testing.T) {
	svc := &stubSubscriptionService{tier: enums.TierBasic, currentErr: gorm.ErrRecordNotFound}
	handler := SubscriptionMe(svc, nil)

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions/me", nil))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data struct {
			Tier         enums.Tier           `json:"tier"`
			Subscription *models.Subscription `json:"subscription"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Tier != enums.TierBasic {
		t.Fatalf("expected basic tier, got %s", envelope.Data.Tier)
	}
	if envelope.Data.Subscription != nil {
		t.Fatal("expected nil subscription for free default")
	}
}

func TestSubscriptionMeWithActiveRow(t *testing.T) {
	sub := &models.Subscription{ID: uuid.New(), Tier: enums.TierPro}
	svc := &stubSubscriptionService{tier: enums.TierPro, current: sub}
	handler := SubscriptionMe(svc, nil)

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions/me", nil))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data struct {
			Tier         enums.Tier           `json:"tier"`
			Subscription *models.Subscription `json:"subscription"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Subscription == nil || envelope.Data.Subscription.ID != sub.ID {
		t.Fatal("expected active subscription in response")
	}
}

func TestSubscriptionMeUnauthenticated(t *testing.T) {
	handler := SubscriptionMe(&stubSubscriptionService{tier: enums.TierBasic}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions/me", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestSubscriptionActivateSuccess(t *testing.T) {
	svc := &stubSubscriptionService{activated: &models.Subscription{ID: uuid.New(), Tier: enums.TierPro}}
	handler := SubscriptionActivate(svc, nil)

	req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions/activate", bytes.NewReader([]byte(`{"license_key":"TEST-PRO-1"}`))))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastLicenseKey != "TEST-PRO-1" {
		t.Fatalf("expected license key forwarded, got %q", svc.lastLicenseKey)
	}
}

func TestSubscriptionActivateRejectsEmptyKey(t *testing.T) {
	handler := SubscriptionActivate(&stubSubscriptionService{}, nil)

	req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions/activate", bytes.NewReader([]byte(`{"license_key":""}`))))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestSubscriptionActivateVerificationFailure(t *testing.T) {
	svc := &stubSubscriptionService{activateErr: pkgerrors.New(pkgerrors.CodeVerification, "license key rejected")}
	handler := SubscriptionActivate(svc, nil)

	req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions/activate", bytes.NewReader([]byte(`{"license_key":"BAD-KEY"}`))))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}
