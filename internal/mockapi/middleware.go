package mockapi

import (
	"net/http"
	"strings"
)

// RequireAuth guards routes with a bearer session token. Only the profile
// update route uses it; the list collections stay open like the hosted mock.
func RequireAuth(svc *AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			if _, err := svc.VerifyToken(strings.TrimPrefix(header, "Bearer ")); err != nil {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
