package middleware

import (
	"net/http"

	"clinic-backend/pkg/response"
)

// RequireRole creates a middleware that checks if the caller has any of the required roles
// Roles are read from the caller set by AuthMiddleware from JWT claims
func RequireRole(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := GetCallerFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			if !caller.HasAnyRole(allowedRoles...) {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
