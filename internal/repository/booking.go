package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evently-labs/event-booking-api/internal/model"
	"github.com/evently-labs/event-booking-api/internal/reservation"
)

// BookingRepository is the reservation ledger: a durable record of
// (customer, event) pairs with a uniqueness constraint on the pair.
type BookingRepository struct {
	db *pgxpool.Pool
}

// NewBookingRepository constructs a BookingRepository.
func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: db}
}

// Insert records a booking. Duplicate detection is the unique index on
// (user_id, event_id) rejecting the write, never a query-then-insert:
// concurrent duplicates race to the constraint and exactly one wins.
func (r *BookingRepository) Insert(ctx context.Context, customerID, eventID string) (*model.Booking, error) {
	booking := &model.Booking{
		ID:        uuid.New().String(),
		UserID:    customerID,
		EventID:   eventID,
		CreatedAt: time.Now().UTC(),
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO bookings (id, user_id, event_id, created_at)
		 VALUES ($1, $2, $3, $4)`,
		booking.ID, booking.UserID, booking.EventID, booking.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, reservation.ErrAlreadyBooked
		}
		// The event (or user) vanished between the decrement and the
		// insert.
		if isForeignKeyViolation(err) || isInvalidUUID(err) {
			return nil, reservation.ErrEventNotFound
		}
		return nil, fmt.Errorf("insert booking: %w", err)
	}
	return booking, nil
}

// ListByUser returns a customer's bookings with event and category details.
func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]model.Booking, error) {
	rows, err := r.db.Query(ctx,
		`SELECT b.id, b.user_id, b.event_id, b.created_at, `+eventColumns+`
		 FROM bookings b
		 JOIN events e ON e.id = b.event_id
		 JOIN categories c ON c.id = e.category_id
		 WHERE b.user_id = $1
		 ORDER BY b.created_at DESC`,
		userID,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		var b model.Booking
		var e model.Event
		var c model.Category
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.EventID, &b.CreatedAt,
			&e.ID, &e.Title, &e.Description, &e.CategoryID, &e.Price, &e.Date, &e.Duration, &e.Venue,
			&e.TotalSeats, &e.AvailableSeats, &e.CreatedAt,
			&c.ID, &c.Name, &c.Description, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		e.Category = &c
		b.Event = &e
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// ListAll returns every booking with customer and event summaries, for the
// admin view.
func (r *BookingRepository) ListAll(ctx context.Context) ([]model.Booking, error) {
	rows, err := r.db.Query(ctx,
		`SELECT b.id, b.user_id, b.event_id, b.created_at,
		        u.id, u.name, u.email, u.role, u.created_at,
		        e.id, e.title, e.date, e.venue
		 FROM bookings b
		 JOIN users u ON u.id = b.user_id
		 JOIN events e ON e.id = b.event_id
		 ORDER BY b.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list all bookings: %w", err)
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		var b model.Booking
		var u model.User
		var e model.Event
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.EventID, &b.CreatedAt,
			&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt,
			&e.ID, &e.Title, &e.Date, &e.Venue,
		); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		b.User = &u
		b.Event = &e
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// CountByEvent returns the number of committed bookings for an event. Used
// together with the seat counters to audit the conservation invariant
// (available + booked == total).
func (r *BookingRepository) CountByEvent(ctx context.Context, eventID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM bookings WHERE event_id = $1`, eventID,
	).Scan(&n)
	if err != nil {
		if isInvalidUUID(err) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return n, nil
}
