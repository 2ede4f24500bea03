package middleware

import (
	"context"
	"net/http"
	"time"
)

// Timeout bounds each request's execution. Storage operations are all
// single statements, so a deadline that fires mid-request cancels the
// query without leaving a partial write behind.
func Timeout(limit time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), limit)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
