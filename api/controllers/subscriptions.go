package controllers

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/hndlyt/releaseboard-backend/api/responses"
	"github.com/hndlyt/releaseboard-backend/api/validators"
	"github.com/hndlyt/releaseboard-backend/internal/subscriptions"
	"github.com/hndlyt/releaseboard-backend/pkg/db/models"
	"github.com/hndlyt/releaseboard-backend/pkg/enums"
	pkgerrors "github.com/hndlyt/releaseboard-backend/pkg/errors"
	"github.com/hndlyt/releaseboard-backend/pkg/logger"
)

type activateRequest struct {
	LicenseKey string `json:"license_key" validate:"required"`
}

// subscriptionView is the caller-facing plan state. Subscription is nil
// for users on the free default with no activation history.
type subscriptionView struct {
	Tier         enums.Tier           `json:"tier"`
	Subscription *models.Subscription `json:"subscription"`
}

// SubscriptionMe reports the caller's effective tier and current row.
// No active row is not an error; it means the free default applies.
func SubscriptionMe(svc subscriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view := subscriptionView{Tier: svc.ResolveTier(r.Context(), userID)}

		current, err := svc.GetCurrent(r.Context(), userID)
		switch {
		case err == nil:
			view.Subscription = current
		case isNotFound(err):
			// free default
		default:
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// SubscriptionActivate exchanges a license key for a persisted tier.
func SubscriptionActivate(svc subscriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body activateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sub, err := svc.Activate(r.Context(), userID, body.LicenseKey)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, subscriptionView{Tier: sub.Tier, Subscription: sub})
	}
}

func isNotFound(err error) bool {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true
	}
	typed := pkgerrors.As(err)
	return typed != nil && typed.Code() == pkgerrors.CodeNotFound
}
