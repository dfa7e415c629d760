package middleware

import (
	"context"
	"net/http"

	"github.com/seatwise/server/internal/api/problem"
	"github.com/seatwise/server/internal/auth"
	"github.com/seatwise/server/internal/domain/users"
)

const claimsKey contextKey = "authClaims"

// Auth validates the Bearer token and stores the claims in the request
// context. Requests without a valid token get 401.
func Auth(manager *auth.JWTManager, env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.TokenFromHeader(r.Header.Get("Authorization"))
			if err != nil {
				problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Unauthorized", err, env)
				return
			}

			claims, err := manager.Validate(token)
			if err != nil {
				problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Unauthorized", err, env)
				return
			}

			ctx := contextWithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects authenticated requests whose role is not admin.
// It must run after Auth.
func RequireAdmin(env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Unauthorized", auth.ErrMissingToken, env)
				return
			}
			if claims.Role != users.RoleAdmin {
				problem.Write(w, r, http.StatusForbidden, problem.TypeForbidden, "Forbidden", nil, env)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func contextWithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ContextWithClaims adds auth claims to a context (exported for testing)
func ContextWithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return contextWithClaims(ctx, claims)
}

// ClaimsFromContext retrieves auth claims from the request context.
// Returns nil if the request was not authenticated.
func ClaimsFromContext(ctx context.Context) *auth.Claims {
	if ctx == nil {
		return nil
	}
	if claims, ok := ctx.Value(claimsKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}

// UserID returns the authenticated user's ID, or "" when unauthenticated.
func UserID(r *http.Request) string {
	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		return ""
	}
	return claims.Subject
}
