// Package middleware provides HTTP middleware for the assistant API.
package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/16880444c/V4/internal/service"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey string

const (
	// ContextKeySubject is the context key for the authenticated subject.
	ContextKeySubject contextKey = "sub"
	// ContextKeyRole is the context key for the authenticated role.
	ContextKeyRole contextKey = "role"
)

// SubjectFromContext extracts the subject from the request context.
// Returns empty string if not present.
func SubjectFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ContextKeySubject).(string)
	return v
}

// RoleFromContext extracts the role from the request context.
func RoleFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ContextKeyRole).(string)
	return v
}

// AuthMiddleware validates JWT tokens and injects claims into the request context.
//
// When authEnabled=true:
//   - Requires a valid JWT in the Authorization header (Bearer <token>)
//   - Extracts subject and role from JWT claims into context
//
// When authEnabled=false (local use):
//   - Sets subject="local" and role="admin" in context
func AuthMiddleware(authSvc *service.AuthService, authEnabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !authEnabled {
				ctx := context.WithValue(r.Context(), ContextKeySubject, "local")
				ctx = context.WithValue(ctx, ContextKeyRole, service.RoleAdmin)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeAuthError(w, http.StatusUnauthorized, "missing Authorization header")
				return
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeAuthError(w, http.StatusUnauthorized, "invalid Authorization header format (expected: Bearer <token>)")
				return
			}

			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenStr == "" {
				writeAuthError(w, http.StatusUnauthorized, "empty bearer token")
				return
			}

			claims, err := authSvc.VerifyToken(tokenStr)
			if err != nil {
				slog.Debug("JWT verification failed", "error", err)
				writeAuthError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySubject, claims.Subject)
			ctx = context.WithValue(ctx, ContextKeyRole, claims.Role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole returns middleware that checks the caller has one of the allowed roles.
// Must be used after AuthMiddleware.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if !allowed[role] {
				writeAuthError(w, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   http.StatusText(status),
		"message": message,
	})
}
