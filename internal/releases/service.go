package releases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hndlyt/releaseboard-backend/pkg/db/models"
	"github.com/hndlyt/releaseboard-backend/pkg/enums"
	pkgerrors "github.com/hndlyt/releaseboard-backend/pkg/errors"
	"github.com/hndlyt/releaseboard-backend/pkg/types"
)

type releasesRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Release, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Release, error)
	Create(ctx context.Context, release *models.Release) (*models.Release, error)
	Update(ctx context.Context, release *models.Release) (*models.Release, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type quotaChecker interface {
	CheckReleaseLimit(ctx context.Context, userID uuid.UUID, now time.Time) error
	CheckArtistLimit(ctx context.Context, userID uuid.UUID, artist string) error
}

type snapshotPublisher interface {
	PublishReleases(userID uuid.UUID, releases []models.Release)
}

// Service exposes release CRUD scoped to the owning user.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.Release, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*models.Release, error)
	Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*models.Release, error)
	Update(ctx context.Context, userID, id uuid.UUID, input UpdateInput) (*models.Release, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type service struct {
	repo  releasesRepository
	quota quotaChecker
	live  snapshotPublisher
	now   func() time.Time
}

// NewService constructs the release service.
func NewService(repo releasesRepository, quota quotaChecker, live snapshotPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("releases repository required")
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
		now:   time.Now,
	}, nil
}

// CreateInput models the payload for a new release.
type CreateInput struct {
	Name        string
	Artist      string
	Type        enums.ReleaseType
	Label       string
	ReleaseDate types.Date
	ArtworkURL  *string
}

// UpdateInput carries the full replacement state for an existing release.
type UpdateInput struct {
	Name        string
	Artist      string
	Type        enums.ReleaseType
	Label       string
	ReleaseDate types.Date
	ArtworkURL  *string
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]models.Release, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.FromStore(err, "listing releases")
	}
	return rows, nil
}

func (s *service) Get(ctx context.Context, userID, id uuid.UUID) (*models.Release, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "release id is required")
	}
	row, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, pkgerrors.FromStore(err, "loading release")
	}
	return row, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*models.Release, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if err := validateFields(input.Name, input.Artist, input.Label, input.Type); err != nil {
		return nil, err
	}
	if input.ReleaseDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "release_date is required")
	}

	// Submit-time quota checks; read-then-write with no transactional guard,
	// so two concurrent creates can both pass.
	if err := s.quota.CheckReleaseLimit(ctx, userID, s.now()); err != nil {
		return nil, err
	}
	if err := s.quota.CheckArtistLimit(ctx, userID, input.Artist); err != nil {
		return nil, err
	}

	release := &models.Release{
		UserID:      userID,
		Name:        strings.TrimSpace(input.Name),
		Artist:      strings.TrimSpace(input.Artist),
		Type:        input.Type,
		Label:       strings.TrimSpace(input.Label),
		ReleaseDate: input.ReleaseDate,
		ArtworkURL:  input.ArtworkURL,
	}
	created, err := s.repo.Create(ctx, release)
	if err != nil {
		return nil, pkgerrors.FromStore(err, "creating release")
	}

	s.publishSnapshot(ctx, userID)
	return created, nil
}

func (s *service) Update(ctx context.Context, userID, id uuid.UUID, input UpdateInput) (*models.Release, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "release id is required")
	}
	if err := validateFields(input.Name, input.Artist, input.Label, input.Type); err != nil {
		return nil, err
	}
	if input.ReleaseDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "release_date is required")
	}

	existing, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, pkgerrors.FromStore(err, "loading release")
	}

	existing.Name = strings.TrimSpace(input.Name)
	existing.Artist = strings.TrimSpace(input.Artist)
	existing.Type = input.Type
	existing.Label = strings.TrimSpace(input.Label)
	existing.ReleaseDate = input.ReleaseDate
	existing.ArtworkURL = input.ArtworkURL

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, pkgerrors.FromStore(err, "updating release")
	}

	s.publishSnapshot(ctx, userID)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "release id is required")
	}
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return pkgerrors.FromStore(err, "deleting release")
	}

	s.publishSnapshot(ctx, userID)
	return nil
}

// publishSnapshot pushes the full current list to watchers. Best effort:
// a failed reload only skips the push, the write has already committed.
func (s *service) publishSnapshot(ctx context.Context, userID uuid.UUID) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return
	}
	s.live.PublishReleases(userID, rows)
}

func validateFields(name, artist, label string, releaseType enums.ReleaseType) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(artist) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "artist is required")
	}
	if strings.TrimSpace(label) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "label is required")
	}
	if !releaseType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid release type %q", releaseType))
	}
	return nil
}
