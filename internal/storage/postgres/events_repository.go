package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eventbook/server/internal/domain/events"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ events.Repository = (*EventRepository)(nil)

type EventRepository struct {
	pool *pgxpool.Pool
}

type eventRow struct {
	ID          string
	OwnerID     string
	Title       string
	OccursAt    pgtype.Timestamptz
	Location    string
	Description string
	CreatedAt   pgtype.Timestamptz
	UpdatedAt   pgtype.Timestamptz
}

func (row eventRow) toDomain() events.Event {
	event := events.Event{
		ID:          row.ID,
		OwnerID:     row.OwnerID,
		Title:       row.Title,
		Location:    row.Location,
		Description: row.Description,
	}
	if row.OccursAt.Valid {
		event.OccursAt = row.OccursAt.Time
	}
	if row.CreatedAt.Valid {
		event.CreatedAt = row.CreatedAt.Time
	}
	if row.UpdatedAt.Valid {
		event.UpdatedAt = row.UpdatedAt.Time
	}
	return event
}

const eventColumns = `id, owner_id, title, occurs_at, location, description, created_at, updated_at`

func scanEvent(row pgx.Row) (events.Event, error) {
	var r eventRow
	if err := row.Scan(&r.ID, &r.OwnerID, &r.Title, &r.OccursAt, &r.Location, &r.Description, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return events.Event{}, err
	}
	return r.toDomain(), nil
}

func (r *EventRepository) Create(ctx context.Context, event events.Event) (events.Event, error) {
	created, err := scanEvent(r.pool.QueryRow(ctx, `
INSERT INTO events (id, owner_id, title, occurs_at, location, description)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING `+eventColumns+`
`, event.ID, event.OwnerID, event.Title, event.OccursAt, event.Location, event.Description))
	if err != nil {
		return events.Event{}, fmt.Errorf("create event: %w", err)
	}
	return created, nil
}

func (r *EventRepository) List(ctx context.Context, ownerID string, filter events.Filter, now time.Time) ([]events.Event, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+eventColumns+`
  FROM events
 WHERE owner_id = $1
   AND ($2 = 'all' OR ($2 = 'upcoming' AND occurs_at >= $3) OR ($2 = 'past' AND occurs_at < $3))
 ORDER BY occurs_at ASC, id ASC
`, ownerID, string(filter), now)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	items := make([]events.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan events: %w", err)
		}
		items = append(items, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return items, nil
}

// GetByID filters by id AND owner in one query. Absence and foreign
// ownership both come back as ErrNotFound so ids cannot be probed.
func (r *EventRepository) GetByID(ctx context.Context, ownerID, eventID string) (*events.Event, error) {
	event, err := scanEvent(r.pool.QueryRow(ctx, `
SELECT `+eventColumns+`
  FROM events
 WHERE id = $1 AND owner_id = $2
`, eventID, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, events.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &event, nil
}

// Update merges the patch with COALESCE in a single conditional UPDATE.
// Matching id and owner in the same statement rules out both the
// existence-probe leak and the read-then-write lost-update race.
func (r *EventRepository) Update(ctx context.Context, ownerID, eventID string, patch events.Patch) (*events.Event, error) {
	event, err := scanEvent(r.pool.QueryRow(ctx, `
UPDATE events
   SET title       = COALESCE($3, title),
       occurs_at   = COALESCE($4, occurs_at),
       location    = COALESCE($5, location),
       description = COALESCE($6, description),
       updated_at  = now()
 WHERE id = $1 AND owner_id = $2
RETURNING `+eventColumns+`
`, eventID, ownerID, patch.Title, patch.OccursAt, patch.Location, patch.Description))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, events.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return &event, nil
}

func (r *EventRepository) Delete(ctx context.Context, ownerID, eventID string) error {
	tag, err := r.pool.Exec(ctx, `
DELETE FROM events
 WHERE id = $1 AND owner_id = $2
`, eventID, ownerID)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return events.ErrNotFound
	}
	return nil
}

// UpsertShare installs the new token, rotating out any prior one. Ownership
// is checked by the SELECT feeding the INSERT, so an unauthorized caller
// gets the same ErrNotFound as a missing event and nothing is written.
func (r *EventRepository) UpsertShare(ctx context.Context, ownerID, eventID, token string) error {
	tag, err := r.pool.Exec(ctx, `
INSERT INTO event_shares (event_id, token)
SELECT id, $3
  FROM events
 WHERE id = $1 AND owner_id = $2
ON CONFLICT (event_id) DO UPDATE
   SET token = EXCLUDED.token,
       rotated_at = now()
`, eventID, ownerID, token)
	if err != nil {
		return fmt.Errorf("upsert share: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return events.ErrNotFound
	}
	return nil
}

func (r *EventRepository) ResolveShare(ctx context.Context, token string) (*events.Event, error) {
	event, err := scanEvent(r.pool.QueryRow(ctx, `
SELECT e.id, e.owner_id, e.title, e.occurs_at, e.location, e.description, e.created_at, e.updated_at
  FROM event_shares s
  JOIN events e ON e.id = s.event_id
 WHERE s.token = $1
`, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, events.ErrNotFound
		}
		return nil, fmt.Errorf("resolve share: %w", err)
	}
	return &event, nil
}
