package events

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/eventbook/server/internal/validation"
	"github.com/stretchr/testify/require"
)

// fakeRepo mirrors the storage contract: every mutation checks id AND owner
// under one lock, the way the SQL layer does in one conditional statement.
type fakeRepo struct {
	mu     sync.Mutex
	events map[string]Event
	shares map[string]string // event id -> token
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{events: make(map[string]Event), shares: make(map[string]string)}
}

func (r *fakeRepo) Create(_ context.Context, event Event) (Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt
	r.events[event.ID] = event
	return event, nil
}

func (r *fakeRepo) List(_ context.Context, ownerID string, filter Filter, now time.Time) ([]Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, event := range r.events {
		if event.OwnerID != ownerID {
			continue
		}
		switch filter {
		case FilterUpcoming:
			if event.OccursAt.Before(now) {
				continue
			}
		case FilterPast:
			if !event.OccursAt.Before(now) {
				continue
			}
		}
		out = append(out, event)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OccursAt.Before(out[j].OccursAt) })
	return out, nil
}

func (r *fakeRepo) GetByID(_ context.Context, ownerID, eventID string) (*Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[eventID]
	if !ok || event.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return &event, nil
}

func (r *fakeRepo) Update(_ context.Context, ownerID, eventID string, patch Patch) (*Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[eventID]
	if !ok || event.OwnerID != ownerID {
		return nil, ErrNotFound
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
	r.events[eventID] = event
	return &event, nil
}

func (r *fakeRepo) Delete(_ context.Context, ownerID, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[eventID]
	if !ok || event.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(r.events, eventID)
	delete(r.shares, eventID)
	return nil
}

func (r *fakeRepo) UpsertShare(_ context.Context, ownerID, eventID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[eventID]
	if !ok || event.OwnerID != ownerID {
		return ErrNotFound
	}
	r.shares[eventID] = token
	return nil
}

func (r *fakeRepo) ResolveShare(_ context.Context, token string) (*Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for eventID, stored := range r.shares {
		if stored == token {
			event := r.events[eventID]
			return &event, nil
		}
	}
	return nil, ErrNotFound
}

func strPtr(s string) *string { return &s }

func mustCreate(t *testing.T, svc *Service, ownerID, title, dateTime string) Event {
	t.Helper()
	event, err := svc.Create(context.Background(), ownerID, CreateInput{
		Title:    title,
		DateTime: dateTime,
		Location: "Room 1",
	})
	require.NoError(t, err)
	return event
}

func TestCreateValidationReportsAllFields(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Title:    "",
		DateTime: "tomorrow",
		Location: "",
	})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "title")
	require.Contains(t, verr.Fields, "dateTime")
	require.Contains(t, verr.Fields, "location")
}

func TestCreateSanitizesHTML(t *testing.T) {
	svc := NewService(newFakeRepo())

	event, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Title:       `<script>alert(1)</script>Standup`,
		DateTime:    "2025-01-01T10:00:00Z",
		Location:    "Room 1",
		Description: strPtr(`<p>notes</p><script>x()</script>`),
	})
	require.NoError(t, err)
	require.Equal(t, "Standup", event.Title)
	require.NotContains(t, event.Description, "script")
}

func TestListFilters(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	past := mustCreate(t, svc, "owner-1", "Retro", "2025-01-01T10:00:00Z")
	future := mustCreate(t, svc, "owner-1", "Planning", "2025-12-01T10:00:00Z")
	mustCreate(t, svc, "owner-2", "Other owner", "2025-12-02T10:00:00Z")

	all, err := svc.List(context.Background(), "owner-1", FilterAll)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, past.ID, all[0].ID, "ascending by occurs-at")
	require.Equal(t, future.ID, all[1].ID)

	upcoming, err := svc.List(context.Background(), "owner-1", FilterUpcoming)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	require.Equal(t, future.ID, upcoming[0].ID)

	pastOnly, err := svc.List(context.Background(), "owner-1", FilterPast)
	require.NoError(t, err)
	require.Len(t, pastOnly, 1)
	require.Equal(t, past.ID, pastOnly[0].ID)
}

func TestParseFilter(t *testing.T) {
	for value, want := range map[string]Filter{"": FilterAll, "all": FilterAll, "upcoming": FilterUpcoming, "past": FilterPast} {
		got, err := ParseFilter(value)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := ParseFilter("soon")
	require.Error(t, err)
}

func TestOwnershipBlind404(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()
	event := mustCreate(t, svc, "owner-1", "Standup", "2025-01-01T10:00:00Z")

	_, err := svc.Get(ctx, "owner-2", event.ID)
	require.ErrorIs(t, err, ErrNotFound)

	_, missingErr := svc.Get(ctx, "owner-2", "01J8ZQ7V9GT5W3YB1N4M2K6X8A")
	require.Equal(t, missingErr, err, "foreign and missing ids must be indistinguishable")

	_, err = svc.Update(ctx, "owner-2", event.ID, UpdateInput{Title: strPtr("Hijacked")})
	require.ErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, svc.Delete(ctx, "owner-2", event.ID), ErrNotFound)

	_, err = svc.Share(ctx, "owner-2", event.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePartialPreservesFields(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()
	event := mustCreate(t, svc, "owner-1", "Standup", "2025-01-01T10:00:00Z")

	updated, err := svc.Update(ctx, "owner-1", event.ID, UpdateInput{Location: strPtr("Room 2")})
	require.NoError(t, err)
	require.Equal(t, "Room 2", updated.Location)
	require.Equal(t, event.Title, updated.Title)
	require.Equal(t, event.OccursAt, updated.OccursAt)
	require.Equal(t, event.Description, updated.Description)
}

func TestUpdateEmptyPatchReturnsCurrent(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()
	event := mustCreate(t, svc, "owner-1", "Standup", "2025-01-01T10:00:00Z")

	current, err := svc.Update(ctx, "owner-1", event.ID, UpdateInput{})
	require.NoError(t, err)
	require.Equal(t, event.ID, current.ID)
	require.Equal(t, event.Title, current.Title)
}

func TestUpdateValidatesSuppliedFields(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()
	event := mustCreate(t, svc, "owner-1", "Standup", "2025-01-01T10:00:00Z")

	_, err := svc.Update(ctx, "owner-1", event.ID, UpdateInput{
		Title:    strPtr(""),
		DateTime: strPtr("not-a-date"),
	})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "title")
	require.Contains(t, verr.Fields, "dateTime")
}

func TestShareRotationKillsOldToken(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()
	event := mustCreate(t, svc, "owner-1", "Standup", "2025-01-01T10:00:00Z")

	first, err := svc.Share(ctx, "owner-1", event.ID)
	require.NoError(t, err)

	second, err := svc.Share(ctx, "owner-1", event.ID)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	_, err = svc.Resolve(ctx, first)
	require.ErrorIs(t, err, ErrNotFound, "rotated-out token must stop resolving")

	public, err := svc.Resolve(ctx, second)
	require.NoError(t, err)
	require.Equal(t, event.ID, public.ID)
}

func TestResolveHidesOwner(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()
	event := mustCreate(t, svc, "owner-1", "Standup", "2025-01-01T10:00:00Z")

	token, err := svc.Share(ctx, "owner-1", event.ID)
	require.NoError(t, err)

	public, err := svc.Resolve(ctx, token)
	require.NoError(t, err)
	require.Equal(t, event.Title, public.Title)
	// PublicEvent has no owner field at all; this guards the projection.
	require.Equal(t, PublicEvent{
		ID:       event.ID,
		Title:    event.Title,
		OccursAt: event.OccursAt,
		Location: event.Location,
	}, *public)
}

func TestResolveUnknownToken(t *testing.T) {
	svc := NewService(newFakeRepo())
	_, err := svc.Resolve(context.Background(), "no-such-token")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Resolve(context.Background(), "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestConcurrentUpdateAndDelete(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()
	event := mustCreate(t, svc, "owner-1", "Standup", "2025-01-01T10:00:00Z")

	var wg sync.WaitGroup
	var updateErr, deleteErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, updateErr = svc.Update(ctx, "owner-1", event.ID, UpdateInput{Title: strPtr("Renamed")})
	}()
	go func() {
		defer wg.Done()
		deleteErr = svc.Delete(ctx, "owner-1", event.ID)
	}()
	wg.Wait()

	// The delete either won before or after the update; in both cases the
	// event is gone and neither call may corrupt state.
	require.NoError(t, deleteErr)
	if updateErr != nil {
		require.ErrorIs(t, updateErr, ErrNotFound)
	}
	_, err := svc.Get(ctx, "owner-1", event.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestNewShareTokenEntropy(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := NewShareToken()
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(token), 43, "256 bits base64url-encoded")
		require.False(t, seen[token], "tokens must not repeat")
		seen[token] = true
	}
}
