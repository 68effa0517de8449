package service

import (
	"context"
	"fmt"

	"github.com/evently-labs/event-booking-api/internal/model"
	"github.com/evently-labs/event-booking-api/internal/repository"
	"github.com/evently-labs/event-booking-api/internal/reservation"
)

// Reserver is the reservation engine's contract as the booking service
// consumes it.
type Reserver interface {
	Reserve(ctx context.Context, customerID, eventID string) (*model.Booking, error)
}

// BookingService exposes the reservation engine plus booking listings.
type BookingService struct {
	engine   Reserver
	bookings *repository.BookingRepository
}

// NewBookingService constructs a BookingService.
func NewBookingService(engine Reserver, bookings *repository.BookingRepository) *BookingService {
	return &BookingService{engine: engine, bookings: bookings}
}

// Book reserves one seat on the event for the customer. All concurrency
// control lives in the engine and the stores beneath it.
func (s *BookingService) Book(ctx context.Context, customerID, eventID string) (*model.Booking, error) {
	if customerID == "" || eventID == "" {
		return nil, reservation.ErrEventNotFound
	}
	return s.engine.Reserve(ctx, customerID, eventID)
}

// MyBookings returns the customer's bookings with event details.
func (s *BookingService) MyBookings(ctx context.Context, customerID string) ([]model.Booking, error) {
	bookings, err := s.bookings.ListByUser(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("list my bookings: %w", err)
	}
	return bookings, nil
}

// AllBookings returns every booking with customer and event summaries.
func (s *BookingService) AllBookings(ctx context.Context) ([]model.Booking, error) {
	bookings, err := s.bookings.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all bookings: %w", err)
	}
	return bookings, nil
}
