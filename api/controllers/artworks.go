package controllers

import (
	"net/http"

	"github.com/hndlyt/releaseboard-backend/api/responses"
	"github.com/hndlyt/releaseboard-backend/api/validators"
	"github.com/hndlyt/releaseboard-backend/internal/artworks"
	"github.com/hndlyt/releaseboard-backend/pkg/logger"
)

type presignRequest struct {
	FileName    string `json:"file_name" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"required"`
	SizeBytes   int64  `json:"size_bytes" validate:"required,min=1"`
}

// ArtworkPresign hands the client a signed PUT URL for a cover upload.
func ArtworkPresign(svc artworks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body presignRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.PresignUpload(r.Context(), userID, artworks.PresignInput{
			FileName:    body.FileName,
			ContentType: body.ContentType,
			SizeBytes:   body.SizeBytes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
