package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/hndlyt/releaseboard-backend/pkg/db/models"
	"github.com/hndlyt/releaseboard-backend/pkg/logger"
)

const workerConsumerName = "analytics-worker"

type eventInserter interface {
	Insert(ctx context.Context, event *models.AnalyticsEvent) error
}

type idempotencyChecker interface {
	CheckAndMarkProcessed(ctx context.Context, consumer string, eventID uuid.UUID) (bool, error)
	Delete(ctx context.Context, consumer string, eventID uuid.UUID) error
}

// Worker consumes tracked events from Pub/Sub and writes the rows,
// deduplicating redeliveries through Redis.
type Worker struct {
	subscription *gcppubsub.Subscriber
	repo         eventInserter
	manager      idempotencyChecker
	logg         *logger.Logger
}

// NewWorker builds the analytics worker.
func NewWorker(subscription *gcppubsub.Subscriber, repo eventInserter, manager idempotencyChecker, logg *logger.Logger) (*Worker, error) {
	if subscription == nil {
		return nil, errors.New("analytics subscription is required")
	}
	if repo == nil {
		return nil, errors.New("events repository is required")
	}
	if manager == nil {
		return nil, errors.New("idempotency manager is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &Worker{
		subscription: subscription,
		repo:         repo,
		manager:      manager,
		logg:         logg,
	}, nil
}

type processResult struct {
	nack bool
}

// Run consumes messages until the context is canceled.
func (w *Worker) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return w.subscription.Receive(ctx, func(innerCtx context.Context, msg *gcppubsub.Message) {
		if w.process(innerCtx, msg.Data, msg.ID).nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

func (w *Worker) process(ctx context.Context, data []byte, messageID string) processResult {
	logCtx := w.logg.WithField(ctx, "message_id", messageID)

	envelope, err := decodeEnvelope(data)
	if err != nil {
		// Malformed payloads can never succeed; ack so they stop redelivering.
		w.logg.Warn(w.logg.WithField(logCtx, "error", err.Error()), "invalid analytics envelope")
		return processResult{}
	}
	logCtx = w.logg.WithFields(logCtx, map[string]any{
		"event_id":   envelope.EventID.String(),
		"event_type": envelope.Type.String(),
		"user_id":    envelope.UserID.String(),
	})

	already, err := w.manager.CheckAndMarkProcessed(logCtx, workerConsumerName, envelope.EventID)
	if err != nil {
		w.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		w.logg.Info(logCtx, "event already processed")
		return processResult{}
	}

	row := &models.AnalyticsEvent{
		ID:        envelope.EventID,
		UserID:    envelope.UserID,
		ReleaseID: envelope.ReleaseID,
		Type:      envelope.Type,
		CreatedAt: envelope.OccurredAt,
	}
	if err := w.repo.Insert(logCtx, row); err != nil {
		w.logg.Error(logCtx, "inserting analytics event failed", err)
		_ = w.manager.Delete(logCtx, workerConsumerName, envelope.EventID)
		return processResult{nack: true}
	}

	w.logg.Info(logCtx, "analytics event recorded")
	return processResult{}
}

func decodeEnvelope(data []byte) (*Envelope, error) {
	var envelope Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if envelope.EventID == uuid.Nil {
		return nil, errors.New("event id missing")
	}
	if envelope.UserID == uuid.Nil {
		return nil, errors.New("user id missing")
	}
	if envelope.ReleaseID == uuid.Nil {
		return nil, errors.New("release id missing")
	}
	if !envelope.Type.IsValid() {
		return nil, fmt.Errorf("invalid event type %q", envelope.Type)
	}
	if envelope.OccurredAt.IsZero() {
		envelope.OccurredAt = time.Now().UTC()
	}
	return &envelope, nil
}
