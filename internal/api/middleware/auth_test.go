package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/eventbook/server/internal/auth"
	"github.com/stretchr/testify/require"
)

func TestRequireAuthPassesClaimsThrough(t *testing.T) {
	tokens := auth.NewJWTManager("gate-secret", time.Hour, "eventbook")
	token, err := tokens.Generate("user-1", "owner@example.com")
	require.NoError(t, err)

	var seen *auth.Claims
	handler := RequireAuth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, seen)
	require.Equal(t, "user-1", seen.Subject)
	require.Equal(t, "owner@example.com", seen.Email)
}

func TestRequireAuthRejects(t *testing.T) {
	tokens := auth.NewJWTManager("gate-secret", time.Hour, "eventbook")

	expiredManager := auth.NewJWTManager("gate-secret", -time.Minute, "eventbook")
	expired, err := expiredManager.Generate("user-1", "owner@example.com")
	require.NoError(t, err)

	foreignManager := auth.NewJWTManager("other-secret", time.Hour, "eventbook")
	foreign, err := foreignManager.Generate("user-1", "owner@example.com")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "wrong scheme", header: "Basic abc123"},
		{name: "bare token without scheme", header: "not-a-jwt"},
		{name: "garbage token", header: "Bearer not-a-jwt"},
		{name: "wrong signing secret", header: "Bearer " + foreign},
		{name: "expired token", header: "Bearer " + expired},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			handler := RequireAuth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			req := httptest.NewRequest(http.MethodGet, "/events", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.False(t, called, "protected handler must not run")
			require.JSONEq(t, `{"message":"Unauthorized"}`, rec.Body.String())
		})
	}
}

func TestClaimsFromContextWithoutAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	require.Nil(t, ClaimsFromContext(req.Context()))
}
