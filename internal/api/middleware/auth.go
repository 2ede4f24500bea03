package middleware

import (
	"context"
	"net/http"

	"github.com/eventbook/server/internal/api/respond"
	"github.com/eventbook/server/internal/auth"
)

type contextKey string

const claimsKey contextKey = "sessionClaims"

// RequireAuth is the single authentication enforcement point for owner
// routes. It extracts the bearer token, verifies it, and annotates the
// request context with the resolved identity. Any failure short-circuits
// with the same generic 401 so the caller learns nothing about which part
// of the credential was wrong.
func RequireAuth(tokens *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.TokenFromHeader(r.Header.Get("Authorization"))
			if err != nil {
				respond.Unauthorized(w, r, err)
				return
			}

			claims, err := tokens.Validate(token)
			if err != nil {
				respond.Unauthorized(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
		})
	}
}

// ContextWithClaims annotates ctx with verified session claims.
func ContextWithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the verified claims, or nil when the request
// did not pass through RequireAuth.
func ClaimsFromContext(ctx context.Context) *auth.Claims {
	if claims, ok := ctx.Value(claimsKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}
