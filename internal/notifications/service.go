package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hndlyt/releaseboard-backend/pkg/db/models"
	pkgerrors "github.com/hndlyt/releaseboard-backend/pkg/errors"
)

type preferencesRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.NotificationPreferences, error)
	Upsert(ctx context.Context, prefs *models.NotificationPreferences) error
}

// Preferences is the transport shape of the per-channel toggles.
type Preferences struct {
	Release     bool `json:"release"`
	Submission  bool `json:"submission"`
	Answer      bool `json:"answer"`
	Social      bool `json:"social"`
	PushEnabled bool `json:"push_enabled"`
	Email       bool `json:"email"`
}

// DefaultPreferences are what a user gets before their first save:
// every channel on except push, which requires an explicit opt-in.
func DefaultPreferences() Preferences {
	return Preferences{
		Release:     true,
		Submission:  true,
		Answer:      true,
		Social:      true,
		PushEnabled: false,
		Email:       true,
	}
}

// Service reads and writes notification preferences.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*Preferences, error)
	Update(ctx context.Context, userID uuid.UUID, prefs Preferences) (*Preferences, error)
}

type service struct {
	repo preferencesRepository
}

// NewService constructs the notification preferences service.
func NewService(repo preferencesRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("preferences repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*Preferences, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	stored, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			defaults := DefaultPreferences()
			return &defaults, nil
		}
		return nil, pkgerrors.FromStore(err, "loading notification preferences")
	}
	prefs := fromModel(stored)
	return &prefs, nil
}

func (s *service) Update(ctx context.Context, userID uuid.UUID, prefs Preferences) (*Preferences, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	row := &models.NotificationPreferences{
		UserID:      userID,
		Release:     prefs.Release,
		Submission:  prefs.Submission,
		Answer:      prefs.Answer,
		Social:      prefs.Social,
		PushEnabled: prefs.PushEnabled,
		Email:       prefs.Email,
	}
	if err := s.repo.Upsert(ctx, row); err != nil {
		return nil, pkgerrors.FromStore(err, "saving notification preferences")
	}
	saved := fromModel(row)
	return &saved, nil
}

func fromModel(row *models.NotificationPreferences) Preferences {
	return Preferences{
		Release:     row.Release,
		Submission:  row.Submission,
		Answer:      row.Answer,
		Social:      row.Social,
		PushEnabled: row.PushEnabled,
		Email:       row.Email,
	}
}
