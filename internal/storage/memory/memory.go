// Package memory implements storage.Repository with in-process maps.
// It mirrors the Postgres semantics (case-insensitive email uniqueness,
// id-and-owner conditional mutations under one lock) and backs handler
// and router tests that don't need a database.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/eventbook/server/internal/domain/events"
	"github.com/eventbook/server/internal/domain/users"
)

type Repository struct {
	mu         sync.Mutex
	usersByID  map[string]users.User
	eventsByID map[string]events.Event
	shares     map[string]string // event id -> token
}

func NewRepository() *Repository {
	return &Repository{
		usersByID:  make(map[string]users.User),
		eventsByID: make(map[string]events.Event),
		shares:     make(map[string]string),
	}
}

func (r *Repository) Users() users.Repository   { return (*userRepository)(r) }
func (r *Repository) Events() events.Repository { return (*eventRepository)(r) }

func (r *Repository) Ping(context.Context) error { return nil }

type userRepository Repository

func (r *userRepository) Create(_ context.Context, user users.User) (users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.usersByID {
		if strings.EqualFold(existing.Email, user.Email) {
			return users.User{}, users.ErrDuplicateEmail
		}
	}
	user.CreatedAt = time.Now()
	r.usersByID[user.ID] = user
	return user, nil
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.usersByID {
		if strings.EqualFold(user.Email, email) {
			found := user
			return &found, nil
		}
	}
	return nil, users.ErrNotFound
}

type eventRepository Repository

func (r *eventRepository) Create(_ context.Context, event events.Event) (events.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	r.eventsByID[event.ID] = event
	return event, nil
}

func (r *eventRepository) List(_ context.Context, ownerID string, filter events.Filter, now time.Time) ([]events.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]events.Event, 0)
	for _, event := range r.eventsByID {
		if event.OwnerID != ownerID {
			continue
		}
		switch filter {
		case events.FilterUpcoming:
			if event.OccursAt.Before(now) {
				continue
			}
		case events.FilterPast:
			if !event.OccursAt.Before(now) {
				continue
			}
		}
		items = append(items, event)
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].OccursAt.Equal(items[j].OccursAt) {
			return items[i].OccursAt.Before(items[j].OccursAt)
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (r *eventRepository) GetByID(_ context.Context, ownerID, eventID string) (*events.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.eventsByID[eventID]
	if !ok || event.OwnerID != ownerID {
		return nil, events.ErrNotFound
	}
	found := event
	return &found, nil
}

func (r *eventRepository) Update(_ context.Context, ownerID, eventID string, patch events.Patch) (*events.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.eventsByID[eventID]
	if !ok || event.OwnerID != ownerID {
		return nil, events.ErrNotFound
	}
	if patch.Title != nil {
		event.Title = *patch.Title
	}
	if patch.OccursAt != nil {
		event.OccursAt = *patch.OccursAt
	}
	if patch.Location != nil {
		event.Location = *patch.Location
	}
	if patch.Description != nil {
		event.Description = *patch.Description
	}
	event.UpdatedAt = time.Now()
	r.eventsByID[eventID] = event
	updated := event
	return &updated, nil
}

func (r *eventRepository) Delete(_ context.Context, ownerID, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.eventsByID[eventID]
	if !ok || event.OwnerID != ownerID {
		return events.ErrNotFound
	}
	delete(r.eventsByID, eventID)
	delete(r.shares, eventID)
	return nil
}

func (r *eventRepository) UpsertShare(_ context.Context, ownerID, eventID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.eventsByID[eventID]
	if !ok || event.OwnerID != ownerID {
		return events.ErrNotFound
	}
	r.shares[eventID] = token
	return nil
}

func (r *eventRepository) ResolveShare(_ context.Context, token string) (*events.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for eventID, stored := range r.shares {
		if stored == token {
			event := r.eventsByID[eventID]
			found := event
			return &found, nil
		}
	}
	return nil, events.ErrNotFound
}
