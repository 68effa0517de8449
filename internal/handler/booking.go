package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/evently-labs/event-booking-api/internal/auth"
	"github.com/evently-labs/event-booking-api/internal/model"
	"github.com/evently-labs/event-booking-api/internal/reservation"
)

// BookingService is the minimal interface the booking handlers need.
type BookingService interface {
	Book(ctx context.Context, customerID, eventID string) (*model.Booking, error)
	MyBookings(ctx context.Context, customerID string) ([]model.Booking, error)
	AllBookings(ctx context.Context) ([]model.Booking, error)
}

// BookingHandler holds HTTP handlers for seat reservations.
type BookingHandler struct {
	svc BookingService
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(svc BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

// Create handles POST /api/bookings. The customer id comes from the
// authenticated session, never from the request body.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	subject, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authorized")
		return
	}

	var req model.CreateBookingRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	booking, err := h.svc.Book(r.Context(), subject.UserID, req.EventID)
	if err != nil {
		var compErr *reservation.CompensationError
		switch {
		case errors.As(err, &compErr):
			// The attempt is stuck mid-protocol; the alarm has fired and
			// the caller may retry once inventory is reconciled.
			writeError(w, http.StatusInternalServerError, "booking could not be completed")
		case errors.Is(err, reservation.ErrEventNotFound):
			writeError(w, http.StatusNotFound, "event not found")
		case errors.Is(err, reservation.ErrSoldOut):
			writeError(w, http.StatusConflict, "no seats available")
		case errors.Is(err, reservation.ErrAlreadyBooked):
			writeError(w, http.StatusConflict, "you have already booked this event")
		default:
			writeError(w, http.StatusInternalServerError, "failed to create booking")
		}
		return
	}

	writeJSON(w, http.StatusCreated, booking)
}

// MyBookings handles GET /api/bookings/my-bookings
func (h *BookingHandler) MyBookings(w http.ResponseWriter, r *http.Request) {
	subject, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authorized")
		return
	}

	bookings, err := h.svc.MyBookings(r.Context(), subject.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list bookings")
		return
	}

	if bookings == nil {
		bookings = []model.Booking{}
	}
	writeJSON(w, http.StatusOK, bookings)
}

// ListAll handles GET /api/bookings (admin only).
func (h *BookingHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.svc.AllBookings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list bookings")
		return
	}

	if bookings == nil {
		bookings = []model.Booking{}
	}
	writeJSON(w, http.StatusOK, bookings)
}
