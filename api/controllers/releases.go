package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hndlyt/releaseboard-backend/api/middleware"
	"github.com/hndlyt/releaseboard-backend/api/responses"
	"github.com/hndlyt/releaseboard-backend/api/validators"
	"github.com/hndlyt/releaseboard-backend/internal/releases"
	"github.com/hndlyt/releaseboard-backend/pkg/enums"
	pkgerrors "github.com/hndlyt/releaseboard-backend/pkg/errors"
	"github.com/hndlyt/releaseboard-backend/pkg/logger"
	"github.com/hndlyt/releaseboard-backend/pkg/types"
)

// releaseRequest is the write payload for both create and update;
// updates replace the full field set.
type releaseRequest struct {
	Name        string     `json:"name" validate:"required,max=200"`
	Artist      string     `json:"artist" validate:"required,max=200"`
	Type        string     `json:"type" validate:"required,oneof=Single EP Album"`
	Label       string     `json:"label" validate:"required,max=200"`
	ReleaseDate types.Date `json:"release_date" validate:"required"`
	ArtworkURL  *string    `json:"artwork_url,omitempty" validate:"omitempty,url"`
}

func ReleaseList(svc releases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func ReleaseGet(svc releases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		releaseID, err := pathUUID(r, "releaseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Get(r.Context(), userID, releaseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func ReleaseCreate(svc releases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body releaseRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Create(r.Context(), userID, releases.CreateInput{
			Name:        body.Name,
			Artist:      body.Artist,
			Type:        enums.ReleaseType(body.Type),
			Label:       body.Label,
			ReleaseDate: body.ReleaseDate,
			ArtworkURL:  body.ArtworkURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func ReleaseUpdate(svc releases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		releaseID, err := pathUUID(r, "releaseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body releaseRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Update(r.Context(), userID, releaseID, releases.UpdateInput{
			Name:        body.Name,
			Artist:      body.Artist,
			Type:        enums.ReleaseType(body.Type),
			Label:       body.Label,
			ReleaseDate: body.ReleaseDate,
			ArtworkURL:  body.ArtworkURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func ReleaseDelete(svc releases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		releaseID, err := pathUUID(r, "releaseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), userID, releaseID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// authenticatedUserID pulls the caller's identity seeded by the auth
// middleware.
func authenticatedUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user identity")
	}
	return id, nil
}

func pathUUID(r *http.Request, key string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, key))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid id in path").WithDetails(map[string]any{"param": key})
	}
	return id, nil
}
