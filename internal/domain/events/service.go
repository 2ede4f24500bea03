package events

import (
	"context"
	"fmt"
	"time"

	"github.com/eventbook/server/internal/domain/ids"
	"github.com/eventbook/server/internal/sanitize"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Create validates and persists a new event owned by ownerID. The owner id
// always comes from the verified session, never from the request body.
func (s *Service) Create(ctx context.Context, ownerID string, input CreateInput) (Event, error) {
	occursAt, verr := validateCreate(input)
	if verr != nil {
		return Event{}, verr
	}

	id, err := ids.NewULID()
	if err != nil {
		return Event{}, fmt.Errorf("mint event id: %w", err)
	}

	event := Event{
		ID:       id,
		OwnerID:  ownerID,
		Title:    sanitize.Text(input.Title),
		OccursAt: occursAt,
		Location: sanitize.Text(input.Location),
	}
	if input.Description != nil {
		event.Description = sanitize.HTML(*input.Description)
	}

	return s.repo.Create(ctx, event)
}

func (s *Service) List(ctx context.Context, ownerID string, filter Filter) ([]Event, error) {
	return s.repo.List(ctx, ownerID, filter, s.now())
}

func (s *Service) Get(ctx context.Context, ownerID, eventID string) (*Event, error) {
	return s.repo.GetByID(ctx, ownerID, eventID)
}

// Update applies a partial update. Unsupplied fields keep their stored
// values; the storage layer merges in one conditional statement so two
// concurrent writers cannot interleave.
func (s *Service) Update(ctx context.Context, ownerID, eventID string, input UpdateInput) (*Event, error) {
	patch, verr := validateUpdate(input)
	if verr != nil {
		return nil, verr
	}
	if patch.IsEmpty() {
		return s.repo.GetByID(ctx, ownerID, eventID)
	}
	return s.repo.Update(ctx, ownerID, eventID, sanitizePatch(patch))
}

func (s *Service) Delete(ctx context.Context, ownerID, eventID string) error {
	return s.repo.Delete(ctx, ownerID, eventID)
}

// Share mints a fresh capability token for the event and installs it,
// replacing any previous token. Prior share links stop resolving the moment
// the new token lands.
func (s *Service) Share(ctx context.Context, ownerID, eventID string) (string, error) {
	token, err := NewShareToken()
	if err != nil {
		return "", fmt.Errorf("mint share token: %w", err)
	}
	if err := s.repo.UpsertShare(ctx, ownerID, eventID, token); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve maps a share token to its event's public projection. No identity
// required; the owner id never leaves this layer.
func (s *Service) Resolve(ctx context.Context, token string) (*PublicEvent, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	event, err := s.repo.ResolveShare(ctx, token)
	if err != nil {
		return nil, err
	}
	public := event.Public()
	return &public, nil
}
