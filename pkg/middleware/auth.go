package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/ndthang/techmart/pkg/auth"
	"github.com/ndthang/techmart/pkg/cache"
	"github.com/ndthang/techmart/pkg/response"
)

type userIDKey struct{}
type roleKey struct{}
type tokenKey struct{}

// DenylistKey returns the Redis key under which a revoked token is parked
// until it would have expired anyway.
func DenylistKey(token string) string { return "techmart:token:denied:" + token }

// Auth validates the bearer token, rejects revoked tokens, and stores the
// caller's identity in the request context for handlers, rbac.HasRole and
// downstream services.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" {
			response.Unauthorized(w)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Error(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		// Tokens revoked by logout sit in Redis until natural expiry.
		if cache.Has(DenylistKey(token)) {
			response.Error(w, http.StatusUnauthorized, "Token revoked")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey{}, claims.UserID)
		ctx = context.WithValue(ctx, roleKey{}, claims.Role)
		ctx = context.WithValue(ctx, tokenKey{}, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromCtx returns the authenticated user's document ID.
func UserIDFromCtx(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(userIDKey{}).(string)
	return id, ok && id != ""
}

// RoleFromCtx returns the authenticated user's role.
func RoleFromCtx(r *http.Request) (string, bool) {
	role, ok := r.Context().Value(roleKey{}).(string)
	return role, ok && role != ""
}

// TokenFromCtx returns the raw bearer token the caller presented.
func TokenFromCtx(r *http.Request) (string, bool) {
	t, ok := r.Context().Value(tokenKey{}).(string)
	return t, ok && t != ""
}
