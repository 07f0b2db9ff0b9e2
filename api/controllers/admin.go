package controllers

import (
	"net/http"
	"strings"

	"github.com/hndlyt/releaseboard-backend/api/responses"
	"github.com/hndlyt/releaseboard-backend/api/validators"
	"github.com/hndlyt/releaseboard-backend/internal/admin"
	"github.com/hndlyt/releaseboard-backend/pkg/logger"
	"github.com/hndlyt/releaseboard-backend/pkg/pagination"
)

// AdminOverview serves the dashboard headline numbers.
func AdminOverview(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		overview, err := svc.Overview(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, overview)
	}
}

// AdminRevenue serves the subscription income breakdown.
func AdminRevenue(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		revenue, err := svc.Revenue(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, revenue)
	}
}

// AdminUsers pages through the user base newest first.
func AdminUsers(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListUsers(r.Context(), pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}
