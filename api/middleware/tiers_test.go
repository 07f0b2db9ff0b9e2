package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/hndlyt/releaseboard-backend/pkg/enums"
)

type stubTierChecker struct {
	allow    bool
	required enums.Tier
	userID   uuid.UUID
}

func (s *stubTierChecker) HasAccess(ctx context.Context, userID uuid.UUID, required enums.Tier) bool {
	s.userID = userID
	s.required = required
	return s.allow
}

func TestRequireTierAllowsQualifyingPlan(t *testing.T) {
	checker := &stubTierChecker{allow: true}
	userID := uuid.New()
	handler := RequireTier(checker, enums.TierPro, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUserID(req.Context(), userID.String()))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if checker.userID != userID {
		t.Fatalf("expected resolver called with %s, got %s", userID, checker.userID)
	}
	if checker.required != enums.TierPro {
		t.Fatalf("expected pro requirement, got %s", checker.required)
	}
}

func TestRequireTierRejectsInsufficientPlan(t *testing.T) {
	handler := RequireTier(&stubTierChecker{allow: false}, enums.TierPro, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUserID(req.Context(), uuid.NewString()))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestRequireTierRejectsMissingIdentity(t *testing.T) {
	handler := RequireTier(&stubTierChecker{allow: true}, enums.TierPro, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole("admin", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithSystemRole(req.Context(), "admin"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}
