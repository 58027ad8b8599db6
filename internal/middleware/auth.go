package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mbtrace/mbcheckgo/internal/utils"
)

type contextKey string

// SessionContextKey holds the *utils.SessionClaims of the authenticated
// request.
const SessionContextKey contextKey = "session"

// Auth returns a middleware verifying Bearer session tokens against the
// given secret.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			// Bearer token
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := utils.ValidateSessionToken(parts[1], secret)
			if err != nil {
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), SessionContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext extracts the claims set by Auth, or nil.
func SessionFromContext(ctx context.Context) *utils.SessionClaims {
	claims, _ := ctx.Value(SessionContextKey).(*utils.SessionClaims)
	return claims
}
