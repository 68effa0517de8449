package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evently-labs/event-booking-api/internal/model"
	"github.com/evently-labs/event-booking-api/internal/reservation"
)

// EventRepository handles persistence for events, including the seat
// counters the reservation engine mutates.
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `e.id, e.title, e.description, e.category_id, e.price, e.date, e.duration, e.venue,
	 e.total_seats, e.available_seats, e.created_at,
	 c.id, c.name, c.description, c.created_at`

func scanEvent(row pgx.Row) (*model.Event, error) {
	var e model.Event
	var c model.Category
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.CategoryID, &e.Price, &e.Date, &e.Duration, &e.Venue,
		&e.TotalSeats, &e.AvailableSeats, &e.CreatedAt,
		&c.ID, &c.Name, &c.Description, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Category = &c
	return &e, nil
}

// Create inserts a new event. The original total capacity is fixed at
// creation time; only the reservation engine moves available_seats after
// that.
func (r *EventRepository) Create(ctx context.Context, req model.CreateEventRequest) (*model.Event, error) {
	event := &model.Event{
		ID:             uuid.New().String(),
		Title:          req.Title,
		Description:    req.Description,
		CategoryID:     req.CategoryID,
		Price:          req.Price,
		Date:           req.Date,
		Duration:       req.Duration,
		Venue:          req.Venue,
		TotalSeats:     req.AvailableSeats,
		AvailableSeats: req.AvailableSeats,
		CreatedAt:      time.Now().UTC(),
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO events (id, title, description, category_id, price, date, duration, venue, total_seats, available_seats, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		event.ID, event.Title, event.Description, event.CategoryID, event.Price, event.Date,
		event.Duration, event.Venue, event.TotalSeats, event.AvailableSeats, event.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) || isInvalidUUID(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return event, nil
}

// List returns all events with their category, optionally filtered by
// category, ordered by event date ascending.
func (r *EventRepository) List(ctx context.Context, categoryID string) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + `
		 FROM events e
		 JOIN categories c ON c.id = e.category_id`
	args := []any{}
	if categoryID != "" {
		query += ` WHERE e.category_id = $1`
		args = append(args, categoryID)
	}
	query += ` ORDER BY e.date ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			if isInvalidUUID(err) {
				return nil, ErrCategoryNotFound
			}
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// GetByID returns a single event with its category, or ErrNotFound.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+eventColumns+`
		 FROM events e
		 JOIN categories c ON c.id = e.category_id
		 WHERE e.id = $1`,
		id,
	)
	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// Update replaces the catalog fields of an event. Seat counters are
// deliberately untouched.
func (r *EventRepository) Update(ctx context.Context, id string, req model.UpdateEventRequest) (*model.Event, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE events
		 SET title = $2, description = $3, category_id = $4, price = $5, date = $6, duration = $7, venue = $8
		 WHERE id = $1`,
		id, req.Title, req.Description, req.CategoryID, req.Price, req.Date, req.Duration, req.Venue,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrCategoryNotFound
		}
		if isInvalidUUID(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes an event and, via the schema's cascade, its bookings.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		if isInvalidUUID(err) {
			return ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// TryDecrement atomically takes one seat if any remain. The availability
// check and the decrement are a single statement, so no concurrent caller
// can observe an intermediate state; the WHERE clause is what makes
// oversell impossible.
func (r *EventRepository) TryDecrement(ctx context.Context, eventID string) (int, error) {
	var remaining int
	err := r.db.QueryRow(ctx,
		`UPDATE events
		 SET available_seats = available_seats - 1
		 WHERE id = $1 AND available_seats > 0
		 RETURNING available_seats`,
		eventID,
	).Scan(&remaining)
	if err == nil {
		return remaining, nil
	}
	if isInvalidUUID(err) {
		return 0, reservation.ErrEventNotFound
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("decrement seats: %w", err)
	}

	// Zero rows matched: either the event is gone or it is sold out.
	var exists bool
	if err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, eventID,
	).Scan(&exists); err != nil {
		return 0, fmt.Errorf("check event exists: %w", err)
	}
	if !exists {
		return 0, reservation.ErrEventNotFound
	}
	return 0, reservation.ErrSoldOut
}

// Increment atomically returns one seat. Only the reservation engine calls
// this, always paired with a prior successful TryDecrement, so the schema's
// available_seats <= total_seats check never trips in correct operation.
func (r *EventRepository) Increment(ctx context.Context, eventID string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE events SET available_seats = available_seats + 1 WHERE id = $1`,
		eventID,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return reservation.ErrEventNotFound
		}
		return fmt.Errorf("increment seats: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return reservation.ErrEventNotFound
	}
	return nil
}
