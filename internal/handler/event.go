package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/evently-labs/event-booking-api/internal/model"
	"github.com/evently-labs/event-booking-api/internal/repository"
)

// EventService is the minimal interface the event handlers need.
type EventService interface {
	CreateEvent(ctx context.Context, req model.CreateEventRequest) (*model.Event, error)
	ListEvents(ctx context.Context, categoryID string) ([]model.Event, error)
	GetEvent(ctx context.Context, id string) (*model.Event, error)
	UpdateEvent(ctx context.Context, id string, req model.UpdateEventRequest) (*model.Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

// EventHandler holds HTTP handlers for the event catalog.
type EventHandler struct {
	svc EventService
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(svc EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

// Create handles POST /api/events (admin only).
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateEventRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	event, err := h.svc.CreateEvent(r.Context(), req)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			writeError(w, http.StatusBadRequest, "category not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create event")
		return
	}

	writeJSON(w, http.StatusCreated, event)
}

// List handles GET /api/events?categoryId=...
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.ListEvents(r.Context(), r.URL.Query().Get("categoryId"))
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			writeError(w, http.StatusBadRequest, "category not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}

	if events == nil {
		events = []model.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// Get handles GET /api/events/{id}
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	event, err := h.svc.GetEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get event")
		return
	}

	writeJSON(w, http.StatusOK, event)
}

// Update handles PUT /api/events/{id} (admin only).
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateEventRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	event, err := h.svc.UpdateEvent(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "event not found")
		case errors.Is(err, repository.ErrCategoryNotFound):
			writeError(w, http.StatusBadRequest, "category not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to update event")
		}
		return
	}

	writeJSON(w, http.StatusOK, event)
}

// Delete handles DELETE /api/events/{id} (admin only).
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteEvent(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete event")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
