package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hndlyt/releaseboard-backend/api/responses"
	"github.com/hndlyt/releaseboard-backend/internal/calendar"
	pkgerrors "github.com/hndlyt/releaseboard-backend/pkg/errors"
	"github.com/hndlyt/releaseboard-backend/pkg/logger"
	"github.com/hndlyt/releaseboard-backend/pkg/types"
)

const monthLayout = "2006-01"

// CalendarMonth serves the 7-column month grid addressed as yyyy-MM.
func CalendarMonth(svc calendar.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		raw := chi.URLParam(r, "month")
		month, err := time.Parse(monthLayout, raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "month must be formatted yyyy-MM"))
			return
		}

		grid, err := svc.MonthView(r.Context(), userID, month.Year(), month.Month())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, grid)
	}
}

// CalendarDay serves a single day bucket addressed as yyyy-MM-dd.
func CalendarDay(svc calendar.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		date, err := types.ParseDate(chi.URLParam(r, "date"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "date must be formatted yyyy-MM-dd"))
			return
		}

		bucket, err := svc.DayView(r.Context(), userID, date)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, bucket)
	}
}
