package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hndlyt/releaseboard-backend/pkg/enums"
	pkgerrors "github.com/hndlyt/releaseboard-backend/pkg/errors"
	"github.com/hndlyt/releaseboard-backend/pkg/pagination"
)

type stubPublisher struct {
	data  [][]byte
	attrs []map[string]string
	err   error
}

func (s *stubPublisher) Publish(ctx context.Context, data []byte, attributes map[string]string) error {
	if s.err != nil {
		return s.err
	}
	s.data = append(s.data, data)
	s.attrs = append(s.attrs, attributes)
	return nil
}

type stubEventsRepo struct {
	listResult *ListResult
	counts     []TypeCount
	err        error
	lastQuery  ListQuery
}

func (s *stubEventsRepo) List(ctx context.Context, userID uuid.UUID, query ListQuery) (*ListResult, error) {
	s.lastQuery = query
	if s.err != nil {
		return nil, s.err
	}
	return s.listResult, nil
}

func (s *stubEventsRepo) CountByType(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]TypeCount, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.counts, nil
}

func newAnalyticsService(t *testing.T, publisher *stubPublisher, repo *stubEventsRepo) *service {
	t.Helper()
	svc, err := NewService(publisher, repo)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc.(*service)
}

func TestTrackPublishesEnvelope(t *testing.T) {
	publisher := &stubPublisher{}
	svc := newAnalyticsService(t, publisher, &stubEventsRepo{})
	now := time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	userID := uuid.New()
	releaseID := uuid.New()
	if err := svc.Track(context.Background(), userID, releaseID, enums.AnalyticsEventView); err != nil {
		t.Fatalf("Track returned error: %v", err)
	}

	if len(publisher.data) != 1 {
		t.Fatalf("expected one published message, got %d", len(publisher.data))
	}
	var envelope Envelope
	if err := json.Unmarshal(publisher.data[0], &envelope); err != nil {
		t.Fatalf("decoding published envelope: %v", err)
	}
	if envelope.UserID != userID || envelope.ReleaseID != releaseID {
		t.Fatalf("unexpected envelope %+v", envelope)
	}
	if envelope.Type != enums.AnalyticsEventView {
		t.Fatalf("unexpected type %s", envelope.Type)
	}
	if envelope.EventID == uuid.Nil {
		t.Fatal("expected generated event id")
	}
	if !envelope.OccurredAt.Equal(now) {
		t.Fatalf("unexpected occurred_at %v", envelope.OccurredAt)
	}
	if publisher.attrs[0]["event_type"] != "view" {
		t.Fatalf("unexpected attributes %v", publisher.attrs[0])
	}
}

func TestTrackValidation(t *testing.T) {
	svc := newAnalyticsService(t, &stubPublisher{}, &stubEventsRepo{})
	userID := uuid.New()

	if err := svc.Track(context.Background(), uuid.Nil, uuid.New(), enums.AnalyticsEventView); pkgerrors.As(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if err := svc.Track(context.Background(), userID, uuid.Nil, enums.AnalyticsEventView); pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing release, got %v", err)
	}
	if err := svc.Track(context.Background(), userID, uuid.New(), enums.AnalyticsEventType("click")); pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for unknown type, got %v", err)
	}
}

func TestTrackPublisherFailure(t *testing.T) {
	publisher := &stubPublisher{err: fmt.Errorf("broker down")}
	svc := newAnalyticsService(t, publisher, &stubEventsRepo{})

	err := svc.Track(context.Background(), uuid.New(), uuid.New(), enums.AnalyticsEventView)
	if pkgerrors.As(err).Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestQueryValidatesCursorAndRange(t *testing.T) {
	repo := &stubEventsRepo{listResult: &ListResult{}}
	svc := newAnalyticsService(t, &stubPublisher{}, repo)
	userID := uuid.New()

	_, err := svc.Query(context.Background(), userID, ListQuery{Pagination: pagination.Params{Cursor: "not-base64!"}})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for bad cursor, got %v", err)
	}

	from := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -1)
	_, err = svc.Query(context.Background(), userID, ListQuery{From: &from, To: &to})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for inverted range, got %v", err)
	}

	if _, err := svc.Query(context.Background(), userID, ListQuery{}); err != nil {
		t.Fatalf("expected valid query to pass, got %v", err)
	}
}

func TestSummaryReturnsCounts(t *testing.T) {
	repo := &stubEventsRepo{counts: []TypeCount{
		{Type: enums.AnalyticsEventView, Count: 12},
		{Type: enums.AnalyticsEventSubmission, Count: 3},
	}}
	svc := newAnalyticsService(t, &stubPublisher{}, repo)

	counts, err := svc.Summary(context.Background(), uuid.New(), nil, nil)
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if len(counts) != 2 || counts[0].Count != 12 {
		t.Fatalf("unexpected counts %+v", counts)
	}
}
