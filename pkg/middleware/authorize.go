package middleware

import (
	"net/http"

	"campus-facility-report-system/pkg/response"
)

// RequireAdmin rejects callers without the administrator capability. Status
// and deadline edits and the statistics views go through this guard.
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromRequest(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "Unauthorized", "")
			return
		}

		if !claims.IsAdmin() {
			response.Error(w, http.StatusForbidden, "Forbidden", "Administrator access required")
			return
		}

		next(w, r)
	}
}
