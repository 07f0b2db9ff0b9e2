package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hndlyt/releaseboard-backend/internal/calendar"
	"github.com/hndlyt/releaseboard-backend/pkg/types"
)

type stubCalendarService struct {
	grid   *calendar.Grid
	bucket *calendar.DayBucket

	lastYear  int
	lastMonth time.Month
	lastDate  types.Date
}

func (s *stubCalendarService) MonthView(ctx context.Context, userID uuid.UUID, year int, month time.Month) (*calendar.Grid, error) {
	s.lastYear = year
	s.lastMonth = month
	return s.grid, nil
}

func (s *stubCalendarService) DayView(ctx context.Context, userID uuid.UUID, date types.Date) (*calendar.DayBucket, error) {
	s.lastDate = date
	return s.bucket, nil
}

func calendarRouter(svc calendar.Service) http.Handler {
	r := chi.NewRouter()
	r.Get("/calendar/day/{date}", CalendarDay(svc, nil))
	r.Get("/calendar/{month}", CalendarMonth(svc, nil))
	return r
}

func TestCalendarMonthParsesPath(t *testing.T) {
	svc := &stubCalendarService{grid: &calendar.Grid{Year: 2026, Month: 3}}
	router := calendarRouter(svc)

	req := withUser(httptest.NewRequest(http.MethodGet, "/calendar/2026-03", nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastYear != 2026 || svc.lastMonth != time.March {
		t.Fatalf("expected 2026-03 forwarded, got %d-%d", svc.lastYear, svc.lastMonth)
	}

	var envelope struct {
		Data calendar.Grid `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Year != 2026 {
		t.Fatalf("unexpected year %d", envelope.Data.Year)
	}
}

func TestCalendarMonthRejectsMalformedMonth(t *testing.T) {
	router := calendarRouter(&stubCalendarService{})

	req := withUser(httptest.NewRequest(http.MethodGet, "/calendar/march-2026", nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCalendarDayParsesDate(t *testing.T) {
	svc := &stubCalendarService{bucket: &calendar.DayBucket{Date: types.NewDate(2026, time.March, 14)}}
	router := calendarRouter(svc)

	req := withUser(httptest.NewRequest(http.MethodGet, "/calendar/day/2026-03-14", nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastDate.String() != "2026-03-14" {
		t.Fatalf("expected date forwarded, got %s", svc.lastDate)
	}
}

func TestCalendarDayRejectsMalformedDate(t *testing.T) {
	router := calendarRouter(&stubCalendarService{})

	req := withUser(httptest.NewRequest(http.MethodGet, "/calendar/day/14-03-2026", nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
