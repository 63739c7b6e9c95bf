package middleware

import (
	"errors"
	"net/http"

	"github.com/gradaid/gradaid-api/internal/api/shared"
	"github.com/gradaid/gradaid-api/internal/service/auth"
)

// AdminTokenHeader carries the shared secret for internal routes.
const AdminTokenHeader = "X-Admin-Token"

// TokenVerifier checks an internal admin token.
type TokenVerifier interface {
	Verify(token string) error
}

// RequireAdmin rejects requests whose admin token does not verify.
func RequireAdmin(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := verifier.Verify(r.Header.Get(AdminTokenHeader))
			switch {
			case err == nil:
				next.ServeHTTP(w, r)
			case errors.Is(err, auth.ErrMissingToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Admin token required")
			default:
				shared.RespondWithErrorAndLog(w, r, http.StatusForbidden, "Invalid admin token", err,
					shared.WithElevatedLogLevel())
			}
		})
	}
}
