package controllers

import (
	"net/http"

	"github.com/hndlyt/releaseboard-backend/api/responses"
	"github.com/hndlyt/releaseboard-backend/api/validators"
	"github.com/hndlyt/releaseboard-backend/internal/submissions"
	"github.com/hndlyt/releaseboard-backend/pkg/enums"
	"github.com/hndlyt/releaseboard-backend/pkg/logger"
	"github.com/hndlyt/releaseboard-backend/pkg/types"
)

type submissionRequest struct {
	Name               string     `json:"name" validate:"required,max=200"`
	Artist             string     `json:"artist" validate:"required,max=200"`
	Type               string     `json:"type" validate:"required,oneof=Single EP Album"`
	Label              string     `json:"label" validate:"required,max=200"`
	SubmissionDate     types.Date `json:"submission_date" validate:"required"`
	ExpectedAnswerDate types.Date `json:"expected_answer_date" validate:"required"`
	ArtworkURL         *string    `json:"artwork_url,omitempty" validate:"omitempty,url"`
}

func (b submissionRequest) toInput() submissions.Input {
	return submissions.Input{
		Name:               b.Name,
		Artist:             b.Artist,
		Type:               enums.ReleaseType(b.Type),
		Label:              b.Label,
		SubmissionDate:     b.SubmissionDate,
		ExpectedAnswerDate: b.ExpectedAnswerDate,
		ArtworkURL:         b.ArtworkURL,
	}
}

func SubmissionList(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
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

func SubmissionGet(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		submissionID, err := pathUUID(r, "submissionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Get(r.Context(), userID, submissionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func SubmissionCreate(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body submissionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Create(r.Context(), userID, body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func SubmissionUpdate(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		submissionID, err := pathUUID(r, "submissionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body submissionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Update(r.Context(), userID, submissionID, body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func SubmissionDelete(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		submissionID, err := pathUUID(r, "submissionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), userID, submissionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
