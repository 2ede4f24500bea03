package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/eventbook/server/internal/api/middleware"
	"github.com/eventbook/server/internal/api/respond"
	"github.com/eventbook/server/internal/domain/events"
	"github.com/eventbook/server/internal/validation"
)

type EventsHandler struct {
	Service *events.Service
}

func NewEventsHandler(service *events.Service) *EventsHandler {
	return &EventsHandler{Service: service}
}

type eventResponse struct {
	ID          string `json:"id"`
	OwnerID     string `json:"ownerId"`
	Title       string `json:"title"`
	DateTime    string `json:"dateTime"`
	Location    string `json:"location"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// publicEventResponse is the anonymous share-link payload. It has no owner
// field by construction.
type publicEventResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	DateTime    string `json:"dateTime"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

func toEventResponse(event events.Event) eventResponse {
	return eventResponse{
		ID:          event.ID,
		OwnerID:     event.OwnerID,
		Title:       event.Title,
		DateTime:    event.OccursAt.UTC().Format(time.RFC3339),
		Location:    event.Location,
		Description: event.Description,
		CreatedAt:   event.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   event.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toPublicEventResponse(event events.PublicEvent) publicEventResponse {
	return publicEventResponse{
		ID:          event.ID,
		Title:       event.Title,
		DateTime:    event.OccursAt.UTC().Format(time.RFC3339),
		Location:    event.Location,
		Description: event.Description,
	}
}

// ownerID resolves the caller's identity from the verified session claims
// installed by the auth middleware. Identity never comes from the body.
func ownerID(r *http.Request) (string, bool) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}

func (h *EventsHandler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error
	var ferr events.FilterError
	switch {
	case errors.As(err, &verr):
		respond.ValidationErrors(w, verr.Fields)
	case errors.As(err, &ferr):
		respond.ValidationErrors(w, map[string]string{ferr.Field: ferr.Message})
	case errors.Is(err, events.ErrNotFound):
		respond.NotFound(w, r)
	default:
		respond.InternalError(w, r, err)
	}
}

// Create handles POST /events.
func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Service == nil {
		respond.InternalError(w, r, nil)
		return
	}
	owner, ok := ownerID(r)
	if !ok {
		respond.Unauthorized(w, r, nil)
		return
	}

	var input events.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	event, err := h.Service.Create(r.Context(), owner, input)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, toEventResponse(event))
}

// List handles GET /events?filter=all|upcoming|past.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Service == nil {
		respond.InternalError(w, r, nil)
		return
	}
	owner, ok := ownerID(r)
	if !ok {
		respond.Unauthorized(w, r, nil)
		return
	}

	filter, err := events.ParseFilter(r.URL.Query().Get("filter"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	items, err := h.Service.List(r.Context(), owner, filter)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	payload := make([]eventResponse, 0, len(items))
	for _, event := range items {
		payload = append(payload, toEventResponse(event))
	}
	respond.JSON(w, http.StatusOK, payload)
}

// Get handles GET /events/{id}.
func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Service == nil {
		respond.InternalError(w, r, nil)
		return
	}
	owner, ok := ownerID(r)
	if !ok {
		respond.Unauthorized(w, r, nil)
		return
	}

	eventID := strings.TrimSpace(r.PathValue("id"))
	if eventID == "" {
		respond.NotFound(w, r)
		return
	}

	event, err := h.Service.Get(r.Context(), owner, eventID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, toEventResponse(*event))
}

// Update handles PUT /events/{id} with partial fields.
func (h *EventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Service == nil {
		respond.InternalError(w, r, nil)
		return
	}
	owner, ok := ownerID(r)
	if !ok {
		respond.Unauthorized(w, r, nil)
		return
	}

	eventID := strings.TrimSpace(r.PathValue("id"))
	if eventID == "" {
		respond.NotFound(w, r)
		return
	}

	var input events.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	event, err := h.Service.Update(r.Context(), owner, eventID, input)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, toEventResponse(*event))
}

// Delete handles DELETE /events/{id}.
func (h *EventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Service == nil {
		respond.InternalError(w, r, nil)
		return
	}
	owner, ok := ownerID(r)
	if !ok {
		respond.Unauthorized(w, r, nil)
		return
	}

	eventID := strings.TrimSpace(r.PathValue("id"))
	if eventID == "" {
		respond.NotFound(w, r)
		return
	}

	if err := h.Service.Delete(r.Context(), owner, eventID); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Share handles POST /events/{id}/share. Reissuing rotates the token.
func (h *EventsHandler) Share(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Service == nil {
		respond.InternalError(w, r, nil)
		return
	}
	owner, ok := ownerID(r)
	if !ok {
		respond.Unauthorized(w, r, nil)
		return
	}

	eventID := strings.TrimSpace(r.PathValue("id"))
	if eventID == "" {
		respond.NotFound(w, r)
		return
	}

	token, err := h.Service.Share(r.Context(), owner, eventID)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"token": token})
}

// Public handles GET /events/public/{token} with no authentication.
func (h *EventsHandler) Public(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Service == nil {
		respond.InternalError(w, r, nil)
		return
	}

	token := strings.TrimSpace(r.PathValue("token"))
	event, err := h.Service.Resolve(r.Context(), token)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, toPublicEventResponse(*event))
}
