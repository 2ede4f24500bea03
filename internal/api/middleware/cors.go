package middleware

import (
	"net/http"
	"strconv"

	"github.com/eventbook/server/internal/config"
	"github.com/rs/zerolog"
)

const preflightMaxAge = 24 * 60 * 60

// CORS handles cross-origin requests from the browser UI. With no
// configured whitelist every origin is allowed (development); in
// production CORS_ALLOWED_ORIGINS must list the UI origins explicitly.
func CORS(cfg config.CORSConfig, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			allowed := cfg.AllowAllOrigins
			if !allowed {
				for _, candidate := range cfg.AllowedOrigins {
					if candidate == origin {
						allowed = true
						break
					}
				}
			}

			if !allowed {
				logger.Warn().
					Str("origin", origin).
					Str("path", r.URL.Path).
					Str("method", r.Method).
					Msg("rejected cross-origin request")
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept")
			w.Header().Set("Access-Control-Max-Age", strconv.Itoa(preflightMaxAge))

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
