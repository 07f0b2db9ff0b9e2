package controllers

import (
	"net/http"

	"github.com/hndlyt/releaseboard-backend/api/responses"
	"github.com/hndlyt/releaseboard-backend/api/validators"
	"github.com/hndlyt/releaseboard-backend/internal/notifications"
	"github.com/hndlyt/releaseboard-backend/pkg/logger"
)

type preferencesRequest struct {
	Release     *bool  `json:"release" validate:"required"`
	Submission  *bool  `json:"submission" validate:"required"`
	Answer      *bool  `json:"answer" validate:"required"`
	Social      *bool  `json:"social" validate:"required"`
	PushEnabled *bool `json:"push_enabled" validate:"required"`
	Email       *bool `json:"email" validate:"required"`
}

// NotificationPreferencesGet returns the caller's preferences, falling
// back to the defaults when nothing has been saved yet.
func NotificationPreferencesGet(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		prefs, err := svc.Get(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, prefs)
	}
}

// NotificationPreferencesUpdate replaces the full preference row.
func NotificationPreferencesUpdate(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body preferencesRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		saved, err := svc.Update(r.Context(), userID, notifications.Preferences{
			Release:     *body.Release,
			Submission:  *body.Submission,
			Answer:      *body.Answer,
			Social:      *body.Social,
			PushEnabled: *body.PushEnabled,
			Email:       *body.Email,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, saved)
	}
}
