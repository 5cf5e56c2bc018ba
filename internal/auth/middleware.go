package auth

import (
	"net/http"
	"os"
	"strings"
)

// AdminAuthMiddleware guards the admin configuration endpoints with a static
// bearer token from ADMIN_API_TOKEN. An unset token rejects everything.
func AdminAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		adminToken := os.Getenv("ADMIN_API_TOKEN")
		header := r.Header.Get("Authorization")
		if adminToken == "" || !strings.HasPrefix(header, "Bearer ") || strings.TrimPrefix(header, "Bearer ") != adminToken {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
