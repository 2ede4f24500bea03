package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound covers both true absence and ownership mismatch. Collapsing
// the two stops an authenticated caller from probing which ids exist.
var ErrNotFound = errors.New("event not found")

type Event struct {
	ID          string
	OwnerID     string
	Title       string
	OccursAt    time.Time
	Location    string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PublicEvent is the anonymous share-link projection. It deliberately
// carries no owner id and no mutation affordances.
type PublicEvent struct {
	ID          string
	Title       string
	OccursAt    time.Time
	Location    string
	Description string
}

func (e Event) Public() PublicEvent {
	return PublicEvent{
		ID:          e.ID,
		Title:       e.Title,
		OccursAt:    e.OccursAt,
		Location:    e.Location,
		Description: e.Description,
	}
}

type Filter string

const (
	FilterAll      Filter = "all"
	FilterUpcoming Filter = "upcoming"
	FilterPast     Filter = "past"
)

type FilterError struct {
	Field   string
	Message string
}

func (e FilterError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ParseFilter maps the ?filter= query value to a Filter. Empty means all.
func ParseFilter(value string) (Filter, error) {
	switch Filter(strings.TrimSpace(value)) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterUpcoming:
		return FilterUpcoming, nil
	case FilterPast:
		return FilterPast, nil
	default:
		return "", FilterError{Field: "filter", Message: "must be one of all, upcoming, past"}
	}
}

// Patch carries a partial update. Nil fields are left untouched so the
// storage layer can merge in a single conditional statement.
type Patch struct {
	Title       *string
	OccursAt    *time.Time
	Location    *string
	Description *string
}

func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.OccursAt == nil && p.Location == nil && p.Description == nil
}

type Repository interface {
	Create(ctx context.Context, event Event) (Event, error)

	// List returns the owner's events ascending by occurs-at. The filter is
	// evaluated against now using the server clock.
	List(ctx context.Context, ownerID string, filter Filter, now time.Time) ([]Event, error)

	// GetByID matches id and owner in one query; a foreign owner's event is
	// indistinguishable from a missing one (ErrNotFound either way).
	GetByID(ctx context.Context, ownerID, eventID string) (*Event, error)

	// Update merges the patch atomically, conditional on id AND owner id.
	Update(ctx context.Context, ownerID, eventID string, patch Patch) (*Event, error)

	// Delete removes the event, conditional on id AND owner id.
	Delete(ctx context.Context, ownerID, eventID string) error

	// UpsertShare installs token as the event's sole share token, replacing
	// any prior one, conditional on ownership in the same statement.
	UpsertShare(ctx context.Context, ownerID, eventID, token string) error

	// ResolveShare maps a share token back to its event.
	ResolveShare(ctx context.Context, token string) (*Event, error)
}
