package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/tandadapp/backend/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// AccountKey is the context key for storing the authenticated account name.
const AccountKey contextKey = "account"

// GetAccount extracts the authenticated account name from the context.
// Returns empty string if not found.
func GetAccount(ctx context.Context) string {
	account, _ := ctx.Value(AccountKey).(string)
	return account
}

// RequireAuth returns middleware that validates JWT bearer tokens and
// requires authentication. On success the account name is added to the
// request context; otherwise the request is rejected with 401.
func RequireAuth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := bearerClaims(jwtManager, r)
			if !ok {
				http.Error(w, "authorization token required", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), AccountKey, claims.Account)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth returns middleware that adds the account to the context
// when a valid token is present but lets unauthenticated requests
// through. Useful for lookups that default to the caller's account.
func OptionalAuth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claims, ok := bearerClaims(jwtManager, r); ok {
				ctx := context.WithValue(r.Context(), AccountKey, claims.Account)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerClaims parses and validates the Authorization header.
func bearerClaims(jwtManager *auth.JWTManager, r *http.Request) (*auth.Claims, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	claims, err := jwtManager.Validate(parts[1])
	if err != nil {
		return nil, false
	}
	return claims, true
}
