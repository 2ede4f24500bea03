package api

import (
	"net/http"

	"github.com/eventbook/server/internal/api/handlers"
	"github.com/eventbook/server/internal/api/middleware"
	"github.com/eventbook/server/internal/auth"
	"github.com/eventbook/server/internal/config"
	"github.com/eventbook/server/internal/domain/events"
	"github.com/eventbook/server/internal/domain/users"
	"github.com/eventbook/server/internal/metrics"
	"github.com/eventbook/server/internal/storage"
	"github.com/rs/zerolog"
)

// NewRouter wires the HTTP surface. The public share-resolution route is
// mounted outside the auth gate; every owner route sits behind it.
//
// The method is part of each pattern: "POST /events/{id}/share" and
// "GET /events/public/{token}" would conflict on ServeMux registration as
// plain paths (both match /events/public/share), but method-qualified
// patterns with different methods never do. Mismatched methods get the
// mux's own 405 with an Allow header.
func NewRouter(cfg config.Config, logger zerolog.Logger, repo storage.Repository, pinger handlers.Pinger) http.Handler {
	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry, cfg.Auth.JWTIssuer)
	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)

	usersService := users.NewService(repo.Users(), hasher, tokens)
	eventsService := events.NewService(repo.Events())

	authHandler := handlers.NewAuthHandler(usersService)
	eventsHandler := handlers.NewEventsHandler(eventsService)
	httpMetrics := metrics.New()

	requireAuth := middleware.RequireAuth(tokens)
	owned := func(h http.HandlerFunc) http.Handler {
		return requireAuth(h)
	}

	mux := http.NewServeMux()
	mux.Handle("GET /healthz", handlers.Healthz())
	mux.Handle("GET /readyz", handlers.Readyz(pinger))
	mux.Handle("GET /metrics", httpMetrics.Handler())

	mux.Handle("POST /auth/signup", http.HandlerFunc(authHandler.Signup))
	mux.Handle("POST /auth/login", http.HandlerFunc(authHandler.Login))

	mux.Handle("GET /events", owned(eventsHandler.List))
	mux.Handle("POST /events", owned(eventsHandler.Create))
	mux.Handle("GET /events/{id}", owned(eventsHandler.Get))
	mux.Handle("PUT /events/{id}", owned(eventsHandler.Update))
	mux.Handle("DELETE /events/{id}", owned(eventsHandler.Delete))
	mux.Handle("POST /events/{id}/share", owned(eventsHandler.Share))
	mux.Handle("GET /events/public/{token}", http.HandlerFunc(eventsHandler.Public))

	// The metrics middleware must wrap the mux with nothing in between:
	// the mux records the matched pattern on the exact *Request it is
	// handed, and any middleware that clones the request (WithContext)
	// would keep the pattern from reaching the recorder.
	var handler http.Handler = httpMetrics.Middleware(mux)
	handler = middleware.Timeout(cfg.Server.RequestTimeout)(handler)
	handler = middleware.CORS(cfg.CORS, logger)(handler)
	handler = middleware.RequestLogging(logger)(handler)
	handler = middleware.Tracing(handler)
	handler = middleware.CorrelationID(logger)(handler)
	return handler
}
