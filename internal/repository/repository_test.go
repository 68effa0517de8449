package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/evently-labs/event-booking-api/internal/repository"
	"github.com/evently-labs/event-booking-api/internal/reservation"
	"github.com/evently-labs/event-booking-api/internal/testutil"
)

func TestTryDecrement(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.TruncateAll(t, ctx, pool)

	catID := testutil.InsertCategory(t, ctx, pool, "Music")
	eventID := testutil.InsertEvent(t, ctx, pool, catID, "Jazz Night", 2)
	events := repository.NewEventRepository(pool)

	remaining, err := events.TryDecrement(ctx, eventID)
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)

	remaining, err = events.TryDecrement(ctx, eventID)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	_, err = events.TryDecrement(ctx, eventID)
	assert.ErrorIs(t, err, reservation.ErrSoldOut)

	_, err = events.TryDecrement(ctx, uuid.New().String())
	assert.ErrorIs(t, err, reservation.ErrEventNotFound)
}

func TestIncrementRestoresSeat(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.TruncateAll(t, ctx, pool)

	catID := testutil.InsertCategory(t, ctx, pool, "Theatre")
	eventID := testutil.InsertEvent(t, ctx, pool, catID, "Hamlet", 1)
	events := repository.NewEventRepository(pool)

	_, err := events.TryDecrement(ctx, eventID)
	require.NoError(t, err)
	require.NoError(t, events.Increment(ctx, eventID))

	remaining, err := events.TryDecrement(ctx, eventID)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	err = events.Increment(ctx, uuid.New().String())
	assert.ErrorIs(t, err, reservation.ErrEventNotFound)
}

func TestInsertBookingDuplicate(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.TruncateAll(t, ctx, pool)

	catID := testutil.InsertCategory(t, ctx, pool, "Comedy")
	eventID := testutil.InsertEvent(t, ctx, pool, catID, "Open Mic", 10)
	userID := testutil.InsertUser(t, ctx, pool, "dup@example.com")
	bookings := repository.NewBookingRepository(pool)

	booking, err := bookings.Insert(ctx, userID, eventID)
	require.NoError(t, err)
	assert.Equal(t, userID, booking.UserID)
	assert.Equal(t, eventID, booking.EventID)

	_, err = bookings.Insert(ctx, userID, eventID)
	assert.ErrorIs(t, err, reservation.ErrAlreadyBooked)

	n, err := bookings.CountByEvent(ctx, eventID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestInsertBookingMissingEvent(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.TruncateAll(t, ctx, pool)

	userID := testutil.InsertUser(t, ctx, pool, "ghost@example.com")
	bookings := repository.NewBookingRepository(pool)

	_, err := bookings.Insert(ctx, userID, uuid.New().String())
	assert.ErrorIs(t, err, reservation.ErrEventNotFound)
}

// TestEngineOverPostgres drives the full reservation protocol against the
// real stores: concurrent customers fighting over limited capacity, with the
// conservation check (available + booked == total) at the end.
func TestEngineOverPostgres(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.TruncateAll(t, ctx, pool)

	const capacity = 5
	const customers = 20

	catID := testutil.InsertCategory(t, ctx, pool, "Festivals")
	eventID := testutil.InsertEvent(t, ctx, pool, catID, "Summer Fest", capacity)

	userIDs := make([]string, customers)
	for i := range userIDs {
		userIDs[i] = testutil.InsertUser(t, ctx, pool, uuid.New().String()+"@example.com")
	}

	events := repository.NewEventRepository(pool)
	bookings := repository.NewBookingRepository(pool)
	engine := reservation.NewEngine(events, bookings, zerolog.Nop())

	results := make([]error, customers)
	var g errgroup.Group
	for i, userID := range userIDs {
		g.Go(func() error {
			_, results[i] = engine.Reserve(ctx, userID, eventID)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	var won, soldOut int
	for _, err := range results {
		switch {
		case err == nil:
			won++
		case errors.Is(err, reservation.ErrSoldOut):
			soldOut++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, capacity, won)
	assert.Equal(t, customers-capacity, soldOut)

	event, err := events.GetByID(ctx, eventID)
	require.NoError(t, err)
	booked, err := bookings.CountByEvent(ctx, eventID)
	require.NoError(t, err)
	assert.Equal(t, 0, event.AvailableSeats)
	assert.Equal(t, capacity, booked)
	assert.Equal(t, event.TotalSeats, event.AvailableSeats+booked)
}

// TestEngineDuplicateOverPostgres has one customer race themselves: exactly
// one booking lands and every compensating increment is paid back.
func TestEngineDuplicateOverPostgres(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.TruncateAll(t, ctx, pool)

	const capacity = 10
	const attempts = 8

	catID := testutil.InsertCategory(t, ctx, pool, "Workshops")
	eventID := testutil.InsertEvent(t, ctx, pool, catID, "Pottery 101", capacity)
	userID := testutil.InsertUser(t, ctx, pool, "eager@example.com")

	events := repository.NewEventRepository(pool)
	bookings := repository.NewBookingRepository(pool)
	engine := reservation.NewEngine(events, bookings, zerolog.Nop())

	results := make([]error, attempts)
	var g errgroup.Group
	for i := 0; i < attempts; i++ {
		g.Go(func() error {
			_, results[i] = engine.Reserve(ctx, userID, eventID)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	var won, duplicate int
	for _, err := range results {
		switch {
		case err == nil:
			won++
		case errors.Is(err, reservation.ErrAlreadyBooked):
			duplicate++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, attempts-1, duplicate)

	event, err := events.GetByID(ctx, eventID)
	require.NoError(t, err)
	assert.Equal(t, capacity-1, event.AvailableSeats)
}
