package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/evently-labs/event-booking-api/internal/model"
	"github.com/evently-labs/event-booking-api/internal/repository"
)

// EventService orchestrates catalog operations on events.
type EventService struct {
	events *repository.EventRepository
}

// NewEventService constructs an EventService.
func NewEventService(events *repository.EventRepository) *EventService {
	return &EventService{events: events}
}

// CreateEvent validates the request and delegates to the repository.
func (s *EventService) CreateEvent(ctx context.Context, req model.CreateEventRequest) (*model.Event, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Venue = strings.TrimSpace(req.Venue)

	event, err := s.events.Create(ctx, req)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

// ListEvents returns all events, optionally filtered by category.
func (s *EventService) ListEvents(ctx context.Context, categoryID string) ([]model.Event, error) {
	return s.events.List(ctx, categoryID)
}

// GetEvent returns a single event by ID.
func (s *EventService) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	if id == "" {
		return nil, repository.ErrNotFound
	}
	return s.events.GetByID(ctx, id)
}

// UpdateEvent replaces an event's catalog fields.
func (s *EventService) UpdateEvent(ctx context.Context, id string, req model.UpdateEventRequest) (*model.Event, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Venue = strings.TrimSpace(req.Venue)

	event, err := s.events.Update(ctx, id, req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

// DeleteEvent removes an event.
func (s *EventService) DeleteEvent(ctx context.Context, id string) error {
	if id == "" {
		return repository.ErrNotFound
	}
	return s.events.Delete(ctx, id)
}
