package storage

import (
	"github.com/eventbook/server/internal/domain/events"
	"github.com/eventbook/server/internal/domain/users"
)

// Repository aggregates the per-domain repositories backed by one store.
type Repository interface {
	Users() users.Repository
	Events() events.Repository
}
