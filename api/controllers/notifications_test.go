package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/hndlyt/releaseboard-backend/internal/notifications"
)

type stubNotificationsService struct {
	prefs *notifications.Preferences

	lastUpdate notifications.Preferences
}

func (s *stubNotificationsService) Get(ctx context.Context, userID uuid.UUID) (*notifications.Preferences, error) {
	return s.prefs, nil
}

func (s *stubNotificationsService) Update(ctx context.Context, userID uuid.UUID, prefs notifications.Preferences) (*notifications.Preferences, error) {
	s.lastUpdate = prefs
	return &prefs, nil
}

func TestNotificationPreferencesGetDefaults(t *testing.T) {
	defaults := notifications.DefaultPreferences()
	handler := NotificationPreferencesGet(&stubNotificationsService{prefs: &defaults}, nil)

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/v1/notifications/preferences", nil))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data notifications.Preferences `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.Release || !envelope.Data.Email {
		t.Fatalf("expected default channels on, got %+v", envelope.Data)
	}
	if envelope.Data.PushEnabled {
		t.Fatal("push must default to off")
	}
}

func TestNotificationPreferencesUpdateRoundTrip(t *testing.T) {
	svc := &stubNotificationsService{}
	handler := NotificationPreferencesUpdate(svc, nil)

	payload := `{"release":true,"submission":false,"answer":true,"social":false,"push_enabled":true,"email":false}`
	req := withUser(httptest.NewRequest(http.MethodPut, "/api/v1/notifications/preferences", bytes.NewReader([]byte(payload))))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	want := notifications.Preferences{Release: true, Answer: true, PushEnabled: true}
	if svc.lastUpdate != want {
		t.Fatalf("unexpected stored preferences %+v", svc.lastUpdate)
	}

	var envelope struct {
		Data notifications.Preferences `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data != want {
		t.Fatalf("unexpected echoed preferences %+v", envelope.Data)
	}
}

func TestNotificationPreferencesUpdateRejectsPartialBody(t *testing.T) {
	handler := NotificationPreferencesUpdate(&stubNotificationsService{}, nil)

	// email toggle missing
	payload := `{"release":true,"submission":true,"answer":true,"social":true,"push_enabled":false}`
	req := withUser(httptest.NewRequest(http.MethodPut, "/api/v1/notifications/preferences", bytes.NewReader([]byte(payload))))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
