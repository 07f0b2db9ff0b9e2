package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/hndlyt/releaseboard-backend/pkg/enums"
	pkgerrors "github.com/hndlyt/releaseboard-backend/pkg/errors"
	"github.com/hndlyt/releaseboard-backend/pkg/pagination"
)

type eventPublisher interface {
	Publish(ctx context.Context, data []byte, attributes map[string]string) error
}

type eventsRepository interface {
	List(ctx context.Context, userID uuid.UUID, query ListQuery) (*ListResult, error)
	CountByType(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]TypeCount, error)
}

// Service tracks dashboard events and serves the analytics feed. Track
// only publishes; the worker owns the write path, so a slow insert never
// blocks the request.
type Service interface {
	Track(ctx context.Context, userID, releaseID uuid.UUID, eventType enums.AnalyticsEventType) error
	Query(ctx context.Context, userID uuid.UUID, query ListQuery) (*ListResult, error)
	Summary(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]TypeCount, error)
}

type service struct {
	publisher eventPublisher
	repo      eventsRepository
	now       func() time.Time
}

// NewService constructs the analytics service.
func NewService(publisher eventPublisher, repo eventsRepository) (Service, error) {
	if publisher == nil {
		return nil, fmt.Errorf("event publisher required")
	}
	if repo == nil {
		return nil, fmt.Errorf("events repository required")
	}
	return &service{
		publisher: publisher,
		repo:      repo,
		now:       time.Now,
	}, nil
}

func (s *service) Track(ctx context.Context, userID, releaseID uuid.UUID, eventType enums.AnalyticsEventType) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if releaseID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "release_id is required")
	}
	if !eventType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid event type")
	}

	envelope := Envelope{
		EventID:    uuid.New(),
		UserID:     userID,
		ReleaseID:  releaseID,
		Type:       eventType,
		OccurredAt: s.now().UTC(),
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding analytics envelope")
	}

	attrs := map[string]string{"event_type": eventType.String()}
	if err := s.publisher.Publish(ctx, data, attrs); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "publishing analytics event")
	}
	return nil
}

func (s *service) Query(ctx context.Context, userID uuid.UUID, query ListQuery) (*ListResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if _, err := pagination.ParseCursor(query.Pagination.Cursor); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	if query.From != nil && query.To != nil && query.To.Before(*query.From) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "time range end precedes start")
	}

	result, err := s.repo.List(ctx, userID, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing analytics events")
	}
	return result, nil
}

func (s *service) Summary(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]TypeCount, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "time range end precedes start")
	}

	counts, err := s.repo.CountByType(ctx, userID, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregating analytics events")
	}
	return counts, nil
}

// TopicPublisher adapts a Pub/Sub publisher to the eventPublisher
// interface and waits for the broker acknowledgment.
type TopicPublisher struct {
	publisher *gcppubsub.Publisher
}

func NewTopicPublisher(publisher *gcppubsub.Publisher) (*TopicPublisher, error) {
	if publisher == nil {
		return nil, fmt.Errorf("pubsub publisher required")
	}
	return &TopicPublisher{publisher: publisher}, nil
}

func (p *TopicPublisher) Publish(ctx context.Context, data []byte, attributes map[string]string) error {
	result := p.publisher.Publish(ctx, &gcppubsub.Message{Data: data, Attributes: attributes})
	_, err := result.Get(ctx)
	return err
}
