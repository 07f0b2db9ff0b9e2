package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/hndlyt/releaseboard-backend/api/responses"
	"github.com/hndlyt/releaseboard-backend/api/validators"
	"github.com/hndlyt/releaseboard-backend/internal/analytics"
	"github.com/hndlyt/releaseboard-backend/pkg/enums"
	pkgerrors "github.com/hndlyt/releaseboard-backend/pkg/errors"
	"github.com/hndlyt/releaseboard-backend/pkg/logger"
	"github.com/hndlyt/releaseboard-backend/pkg/pagination"
)

type trackRequest struct {
	ReleaseID uuid.UUID `json:"release_id" validate:"required"`
	Type      string    `json:"type" validate:"required,oneof=view submission approval rejection"`
}

// AnalyticsTrack enqueues one event; ingestion is asynchronous, so a 202
// only acknowledges the publish.
func AnalyticsTrack(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body trackRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Track(r.Context(), userID, body.ReleaseID, enums.AnalyticsEventType(body.Type)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]string{"status": "queued"})
	}
}

// AnalyticsQuery pages through the caller's event feed.
func AnalyticsQuery(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query, err := parseAnalyticsQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Query(r.Context(), userID, *query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AnalyticsSummary aggregates the caller's events per type.
func AnalyticsSummary(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		from, err := validators.ParseQueryTime(r, "from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := validators.ParseQueryTime(r, "to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		counts, err := svc.Summary(r.Context(), userID, from, to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"counts": counts})
	}
}

func parseAnalyticsQuery(r *http.Request) (*analytics.ListQuery, error) {
	query := analytics.ListQuery{}

	releaseID, err := validators.ParseQueryUUID(r, "release_id")
	if err != nil {
		return nil, err
	}
	query.ReleaseID = releaseID

	if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
		eventType, err := enums.ParseAnalyticsEventType(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid event type")
		}
		query.Type = &eventType
	}

	if query.From, err = validators.ParseQueryTime(r, "from"); err != nil {
		return nil, err
	}
	if query.To, err = validators.ParseQueryTime(r, "to"); err != nil {
		return nil, err
	}

	limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
	if err != nil {
		return nil, err
	}
	query.Pagination = pagination.Params{
		Limit:  limit,
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	}

	return &query, nil
}
