package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/hndlyt/releaseboard-backend/api/responses"
	"github.com/hndlyt/releaseboard-backend/pkg/enums"
	pkgerrors "github.com/hndlyt/releaseboard-backend/pkg/errors"
	"github.com/hndlyt/releaseboard-backend/pkg/logger"
)

type tierChecker interface {
	HasAccess(ctx context.Context, userID uuid.UUID, required enums.Tier) bool
}

// RequireTier gates a route behind a minimum subscription tier. The tier is
// resolved on every request so a plan change applies without re-login.
func RequireTier(subs tierChecker, required enums.Tier, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := uuid.Parse(UserIDFromContext(r.Context()))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing"))
				return
			}
			if subs == nil || !subs.HasAccess(r.Context(), userID, required) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "your plan does not include this feature"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
