package handlers

import (
	"context"
	"net/http"

	"github.com/eventbook/server/internal/api/respond"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

func Healthz() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

func Readyz(pinger Pinger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if pinger != nil {
			if err := pinger.Ping(r.Context()); err != nil {
				respond.Error(w, r, http.StatusServiceUnavailable, "Not ready", err)
				return
			}
		}
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
}
