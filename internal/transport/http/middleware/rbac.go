package middleware

import (
	"net/http"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/application/authz"
	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

// RequireRole passes only principals whose role is in allowed. Admin is not implied.
// Assumes Auth() has already run.
func RequireRole(allowed domain.RoleSet, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}
			if err := authz.RequireRole(p, allowed); err != nil {
				gateDenials.WithLabelValues(domain.CodeOf(err)).Inc()
				writeErr(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireVerified blocks founders and investors without an approved verification.
func RequireVerified(writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}
			if err := authz.RequireVerified(p); err != nil {
				gateDenials.WithLabelValues(domain.CodeOf(err)).Inc()
				writeErr(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
