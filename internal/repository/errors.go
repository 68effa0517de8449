// Package repository implements all database access for the event booking
// system. It uses pgx directly (no ORM) for transparency and performance.
//
// The EventRepository doubles as the reservation engine's inventory store
// and the BookingRepository as its ledger; both satisfy the interfaces in
// internal/reservation with single-statement atomic operations.
package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateCategory is returned when a category name is already taken.
var ErrDuplicateCategory = errors.New("category name already exists")

// ErrDuplicateEmail is returned when an account with the email already exists.
var ErrDuplicateEmail = errors.New("email already registered")

// ErrCategoryNotFound is returned when an event references a missing category.
var ErrCategoryNotFound = errors.New("category not found")

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// isInvalidUUID catches malformed identifiers before they reach a uuid
// column; callers treat those the same as a missing record.
func isInvalidUUID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}
