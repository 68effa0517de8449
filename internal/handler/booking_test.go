package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evently-labs/event-booking-api/internal/auth"
	"github.com/evently-labs/event-booking-api/internal/model"
	"github.com/evently-labs/event-booking-api/internal/reservation"
)

type stubBookingService struct {
	booking *model.Booking
	err     error

	gotCustomerID string
	gotEventID    string
}

func (s *stubBookingService) Book(_ context.Context, customerID, eventID string) (*model.Booking, error) {
	s.gotCustomerID = customerID
	s.gotEventID = eventID
	return s.booking, s.err
}

func (s *stubBookingService) MyBookings(context.Context, string) ([]model.Booking, error) {
	return nil, s.err
}

func (s *stubBookingService) AllBookings(context.Context) ([]model.Booking, error) {
	return nil, s.err
}

func newAuthedBookingServer(t *testing.T, svc BookingService) (http.Handler, string) {
	t.Helper()
	manager, err := auth.NewJWTManager("0123456789abcdef0123456789abcdef", time.Hour)
	require.NoError(t, err)
	token, err := manager.GenerateToken("cust-1", model.RoleUser)
	require.NoError(t, err)

	h := NewBookingHandler(svc)
	return auth.Protect(manager)(http.HandlerFunc(h.Create)), token
}

func postBooking(t *testing.T, h http.Handler, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestBookingHandler_Create(t *testing.T) {
	t.Parallel()

	eventID := uuid.New().String()
	body := `{"event_id":"` + eventID + `"}`

	t.Run("success", func(t *testing.T) {
		svc := &stubBookingService{booking: &model.Booking{
			ID:      uuid.New().String(),
			UserID:  "cust-1",
			EventID: eventID,
		}}
		h, token := newAuthedBookingServer(t, svc)

		rec := postBooking(t, h, token, body)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "cust-1", svc.gotCustomerID)
		assert.Equal(t, eventID, svc.gotEventID)

		var got model.Booking
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, eventID, got.EventID)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		h, _ := newAuthedBookingServer(t, &stubBookingService{})
		rec := postBooking(t, h, "", body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid event id", func(t *testing.T) {
		h, token := newAuthedBookingServer(t, &stubBookingService{})
		rec := postBooking(t, h, token, `{"event_id":"not-a-uuid"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("error mapping", func(t *testing.T) {
		cases := []struct {
			name string
			err  error
			want int
		}{
			{"event not found", reservation.ErrEventNotFound, http.StatusNotFound},
			{"sold out", reservation.ErrSoldOut, http.StatusConflict},
			{"already booked", reservation.ErrAlreadyBooked, http.StatusConflict},
			{"compensation failure", &reservation.CompensationError{
				EventID: eventID,
				Cause:   reservation.ErrAlreadyBooked,
				Last:    errors.New("store unavailable"),
			}, http.StatusInternalServerError},
			{"infrastructure", errors.New("connection refused"), http.StatusInternalServerError},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				h, token := newAuthedBookingServer(t, &stubBookingService{err: tc.err})
				rec := postBooking(t, h, token, body)
				assert.Equal(t, tc.want, rec.Code)

				var resp model.ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.NotEmpty(t, resp.Error)
			})
		}
	})
}
