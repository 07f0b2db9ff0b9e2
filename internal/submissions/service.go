package submissions

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hndlyt/releaseboard-backend/pkg/db/models"
	"github.com/hndlyt/releaseboard-backend/pkg/enums"
	pkgerrors "github.com/hndlyt/releaseboard-backend/pkg/errors"
	"github.com/hndlyt/releaseboard-backend/pkg/types"
)

type submissionsRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Submission, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Submission, error)
	Create(ctx context.Context, submission *models.Submission) (*models.Submission, error)
	Update(ctx context.Context, submission *models.Submission) (*models.Submission, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type artistQuotaChecker interface {
	CheckArtistLimit(ctx context.Context, userID uuid.UUID, artist string) error
}

type snapshotPublisher interface {
	PublishSubmissions(userID uuid.UUID, submissions []models.Submission)
}

// Service exposes submission CRUD scoped to the owning user.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.Submission, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*models.Submission, error)
	Create(ctx context.Context, userID uuid.UUID, input Input) (*models.Submission, error)
	Update(ctx context.Context, userID, id uuid.UUID, input Input) (*models.Submission, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// Input carries the full field set for a submission create or update.
type Input struct {
	Name               string
	Artist             string
	Type               enums.ReleaseType
	Label              string
	SubmissionDate     types.Date
	ExpectedAnswerDate types.Date
	ArtworkURL         *string
}

type service struct {
	repo  submissionsRepository
	quota artistQuotaChecker
	live  snapshotPublisher
}

// NewService constructs the submission service.
func NewService(repo submissionsRepository, quota artistQuotaChecker, live snapshotPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("submissions repository required")
	}
	if quota == nil {
		return nil, fmt.Errorf("quota checker required")
	}
	if live == nil {
		return nil, fmt.Errorf("snapshot publisher required")
	}
	return &service{
		repo:  repo,
		quota: quota,
		live:  live,
	}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]models.Submission, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.FromStore(err, "listing submissions")
	}
	return rows, nil
}

func (s *service) Get(ctx context.Context, userID, id uuid.UUID) (*models.Submission, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "submission id is required")
	}
	row, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, pkgerrors.FromStore(err, "loading submission")
	}
	return row, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input Input) (*models.Submission, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if err := s.quota.CheckArtistLimit(ctx, userID, input.Artist); err != nil {
		return nil, err
	}

	submission := &models.Submission{
		UserID:             userID,
		Name:               strings.TrimSpace(input.Name),
		Artist:             strings.TrimSpace(input.Artist),
		Type:               input.Type,
		Label:              strings.TrimSpace(input.Label),
		SubmissionDate:     input.SubmissionDate,
		ExpectedAnswerDate: input.ExpectedAnswerDate,
		ArtworkURL:         input.ArtworkURL,
	}
	created, err := s.repo.Create(ctx, submission)
	if err != nil {
		return nil, pkgerrors.FromStore(err, "creating submission")
	}

	s.publishSnapshot(ctx, userID)
	return created, nil
}

func (s *service) Update(ctx context.Context, userID, id uuid.UUID, input Input) (*models.Submission, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "submission id is required")
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, pkgerrors.FromStore(err, "loading submission")
	}

	existing.Name = strings.TrimSpace(input.Name)
	existing.Artist = strings.TrimSpace(input.Artist)
	existing.Type = input.Type
	existing.Label = strings.TrimSpace(input.Label)
	existing.SubmissionDate = input.SubmissionDate
	existing.ExpectedAnswerDate = input.ExpectedAnswerDate
	existing.ArtworkURL = input.ArtworkURL

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, pkgerrors.FromStore(err, "updating submission")
	}

	s.publishSnapshot(ctx, userID)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "submission id is required")
	}
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return pkgerrors.FromStore(err, "deleting submission")
	}

	s.publishSnapshot(ctx, userID)
	return nil
}

func (s *service) publishSnapshot(ctx context.Context, userID uuid.UUID) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return
	}
	s.live.PublishSubmissions(userID, rows)
}

func validateInput(input Input) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(input.Artist) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "artist is required")
	}
	if strings.TrimSpace(input.Label) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "label is required")
	}
	if !input.Type.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid release type %q", input.Type))
	}
	if input.SubmissionDate.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "submission_date is required")
	}
	if input.ExpectedAnswerDate.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "expected_answer_date is required")
	}
	if input.ExpectedAnswerDate.Before(input.SubmissionDate) {
		return pkgerrors.New(pkgerrors.CodeValidation, "expected_answer_date cannot precede submission_date")
	}
	return nil
}
