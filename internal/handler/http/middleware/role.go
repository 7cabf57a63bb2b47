package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/kmanek-hr/payroll-backend-go/internal/domain/auth"
	"github.com/kmanek-hr/payroll-backend-go/internal/handler/http/response"
)

// RequireAdmin requires the admin role. HR users can prepare a run but
// only admins may submit it or manage employee records.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, "Authentication required")
			return
		}

		role, ok := claims["role"].(string)
		if !ok || role != string(auth.RoleAdmin) {
			response.Forbidden(w, "Admin access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
