package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hndlyt/releaseboard-backend/pkg/db/models"
	pkgerrors "github.com/hndlyt/releaseboard-backend/pkg/errors"
	"github.com/hndlyt/releaseboard-backend/pkg/types"
)

type releasesRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Release, error)
}

type submissionsRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Submission, error)
}

// Service exposes the calendar month and day views.
type Service interface {
	MonthView(ctx context.Context, userID uuid.UUID, year int, month time.Month) (*Grid, error)
	DayView(ctx context.Context, userID uuid.UUID, date types.Date) (*DayBucket, error)
}

type service struct {
	releases    releasesRepository
	submissions submissionsRepository
}

// NewService constructs the calendar service over the record repositories.
func NewService(releases releasesRepository, submissions submissionsRepository) (Service, error) {
	if releases == nil {
		return nil, fmt.Errorf("releases repository required")
	}
	if submissions == nil {
		return nil, fmt.Errorf("submissions repository required")
	}
	return &service{
		releases:    releases,
		submissions: submissions,
	}, nil
}

func (s *service) MonthView(ctx context.Context, userID uuid.UUID, year int, month time.Month) (*Grid, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if year < 1900 || year > 2200 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "year out of range")
	}
	if month < time.January || month > time.December {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "month must be between 1 and 12")
	}

	releases, submissions, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	grid := BuildGrid(year, month, releases, submissions)
	return &grid, nil
}

func (s *service) DayView(ctx context.Context, userID uuid.UUID, date types.Date) (*DayBucket, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if date.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date is required")
	}

	releases, submissions, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	bucket := BucketFor(date, releases, submissions)
	return &bucket, nil
}

func (s *service) load(ctx context.Context, userID uuid.UUID) ([]models.Release, []models.Submission, error) {
	releases, err := s.releases.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading releases")
	}
	submissions, err := s.submissions.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading submissions")
	}
	return releases, submissions, nil
}
