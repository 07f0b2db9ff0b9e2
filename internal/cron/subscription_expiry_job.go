package cron

import (
	"context"
	"errors"
	"time"

	"go.uber.org/multierr"

	"github.com/hndlyt/releaseboard-backend/pkg/metrics"
)

const subscriptionExpiryJobName = "subscription-expiry"

type subscriptionsMaintenanceRepo interface {
	ExpireLapsed(ctx context.Context, now time.Time) (int64, error)
	DeactivateSuperseded(ctx context.Context) (int64, error)
}

// SubscriptionExpiryJobParams configure the subscription expiry job.
type SubscriptionExpiryJobParams struct {
	Repo    subscriptionsMaintenanceRepo
	Metrics *metrics.CronJobMetrics
}

// NewSubscriptionExpiryJob builds the job that flips lapsed subscription
// rows to inactive. Tier resolution already ignores expired windows, so
// the sweep only keeps the table honest; nothing user-facing depends on
// it running promptly.
func NewSubscriptionExpiryJob(params SubscriptionExpiryJobParams) (Job, error) {
	if params.Repo == nil {
		return nil, errors.New("subscriptions repository required")
	}
	return &subscriptionExpiryJob{
		repo:    params.Repo,
		metrics: params.Metrics,
		now:     time.Now,
	}, nil
}

type subscriptionExpiryJob struct {
	repo    subscriptionsMaintenanceRepo
	metrics *metrics.CronJobMetrics
	now     func() time.Time
}

func (j *subscriptionExpiryJob) Name() string { return subscriptionExpiryJobName }

func (j *subscriptionExpiryJob) Run(ctx context.Context) error {
	var errs error

	expired, err := j.repo.ExpireLapsed(ctx, j.now().UTC())
	if err != nil {
		errs = multierr.Append(errs, err)
	} else {
		j.addProcessed(int(expired))
	}

	superseded, err := j.repo.DeactivateSuperseded(ctx)
	if err != nil {
		errs = multierr.Append(errs, err)
	} else {
		j.addProcessed(int(superseded))
	}

	return errs
}

func (j *subscriptionExpiryJob) addProcessed(count int) {
	if j.metrics == nil || count <= 0 {
		return
	}
	j.metrics.AddProcessed(subscriptionExpiryJobName, count)
}
