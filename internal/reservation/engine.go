// Package reservation implements the seat reservation engine: the component
// that turns a "book this event" request into a durable, exactly-once seat
// allocation under concurrent access.
//
// The engine is built from two independently-atomic store primitives, a
// conditional seat decrement and a uniqueness-guarded ledger insert, and
// guarantees the combined invariant (no oversell AND no duplicate booking)
// by compensating the decrement whenever the insert fails.
package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/evently-labs/event-booking-api/internal/model"
)

// ErrEventNotFound is returned when the event does not exist.
var ErrEventNotFound = errors.New("event not found")

// ErrSoldOut is returned when an event has no remaining seats.
var ErrSoldOut = errors.New("no seats available")

// ErrAlreadyBooked is returned when the customer already holds a booking for
// the event. The speculatively taken seat has been returned to the pool.
var ErrAlreadyBooked = errors.New("event already booked by this customer")

// CompensationError reports that a seat was taken from inventory, the ledger
// insert failed, and the compensating increment could not be applied even
// after retries. It represents real lost inventory: the attempt is stuck and
// must be re-driven by the caller or a reconciler until Increment succeeds.
type CompensationError struct {
	EventID string
	Cause   error // the insert failure that triggered compensation
	Last    error // the last error from the failed increment
}

func (e *CompensationError) Error() string {
	return fmt.Sprintf("compensation failed for event %s: %v (after insert error: %v)", e.EventID, e.Last, e.Cause)
}

func (e *CompensationError) Unwrap() error { return e.Cause }

// InventoryStore holds the remaining-seat counter per event. Both operations
// are single indivisible steps with respect to all concurrent callers; the
// engine never reads the counter separately from mutating it.
type InventoryStore interface {
	// TryDecrement atomically takes one seat and returns the post-decrement
	// count. It fails with ErrEventNotFound or ErrSoldOut without mutating.
	TryDecrement(ctx context.Context, eventID string) (remaining int, err error)

	// Increment atomically returns one seat. Used only for compensation,
	// always paired with a prior successful TryDecrement.
	Increment(ctx context.Context, eventID string) error
}

// Ledger durably records bookings and enforces the one-booking-per-customer-
// per-event rule with a native uniqueness constraint, not a pre-check.
type Ledger interface {
	// Insert records a booking, failing with ErrAlreadyBooked if the
	// (customerID, eventID) pair already exists.
	Insert(ctx context.Context, customerID, eventID string) (*model.Booking, error)
}

// AlarmFunc is invoked when compensation retries are exhausted. The err is
// always a *CompensationError.
type AlarmFunc func(ctx context.Context, eventID string, err error)

// Engine orchestrates the inventory store and the booking ledger. It keeps
// no in-process state and takes no locks; all synchronization is delegated
// to the stores' atomic primitives, so any number of request handlers may
// call Reserve concurrently.
type Engine struct {
	inventory  InventoryStore
	ledger     Ledger
	logger     zerolog.Logger
	alarm      AlarmFunc
	newBackOff func() backoff.BackOff
}

// Option customises an Engine.
type Option func(*Engine)

// WithAlarm installs a hook fired when a compensating increment cannot be
// applied after retries.
func WithAlarm(fn AlarmFunc) Option {
	return func(e *Engine) { e.alarm = fn }
}

// WithBackOff overrides the retry policy used for compensation. The factory
// is called once per compensation attempt.
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(e *Engine) {
		if newBackOff != nil {
			e.newBackOff = newBackOff
		}
	}
}

const compensationMaxRetries = 8

func defaultBackOff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 50 * time.Millisecond
	bo.MaxInterval = 2 * time.Second
	return backoff.WithMaxRetries(bo, compensationMaxRetries)
}

// NewEngine constructs an Engine. The stores are injected so tests can
// substitute in-memory fakes implementing the same contracts.
func NewEngine(inventory InventoryStore, ledger Ledger, logger zerolog.Logger, opts ...Option) *Engine {
	e := &Engine{
		inventory:  inventory,
		ledger:     ledger,
		logger:     logger.With().Str("component", "reservation").Logger(),
		newBackOff: defaultBackOff,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reserve books one seat on the event for the customer.
//
// Protocol: take a seat with a conditional decrement, then record the
// booking in the ledger. If the insert fails (a duplicate from the same
// customer, or an infrastructure fault) the seat is handed back with a
// retried compensating increment before the error is propagated. Skipping
// compensation would silently leak a seat out of the sellable pool.
//
// Business outcomes surface as ErrEventNotFound, ErrSoldOut and
// ErrAlreadyBooked. An error before the decrement commits means nothing was
// mutated and the whole call is safe to retry.
func (e *Engine) Reserve(ctx context.Context, customerID, eventID string) (*model.Booking, error) {
	remaining, err := e.inventory.TryDecrement(ctx, eventID)
	if err != nil {
		switch {
		case errors.Is(err, ErrEventNotFound):
			reserveOutcomes.WithLabelValues(outcomeNotFound).Inc()
			return nil, err
		case errors.Is(err, ErrSoldOut):
			reserveOutcomes.WithLabelValues(outcomeSoldOut).Inc()
			return nil, err
		default:
			reserveOutcomes.WithLabelValues(outcomeError).Inc()
			return nil, fmt.Errorf("decrement inventory: %w", err)
		}
	}

	// The seat is committed. The rest of the protocol must run to
	// completion even if the original caller has gone away, otherwise the
	// seat leaks.
	ctx = context.WithoutCancel(ctx)

	booking, err := e.ledger.Insert(ctx, customerID, eventID)
	if err == nil {
		reserveOutcomes.WithLabelValues(outcomeCommitted).Inc()
		e.logger.Info().
			Str("event_id", eventID).
			Str("customer_id", customerID).
			Int("remaining_seats", remaining).
			Msg("seat reserved")
		return booking, nil
	}

	if cerr := e.compensate(ctx, eventID); cerr != nil {
		compErr := &CompensationError{EventID: eventID, Cause: err, Last: cerr}
		compensationFailures.Inc()
		reserveOutcomes.WithLabelValues(outcomeError).Inc()
		e.logger.Error().
			Err(cerr).
			Str("event_id", eventID).
			Str("customer_id", customerID).
			Msg("seat compensation exhausted retries; one seat leaked until reconciled")
		if e.alarm != nil {
			e.alarm(ctx, eventID, compErr)
		}
		return nil, compErr
	}

	if errors.Is(err, ErrAlreadyBooked) {
		reserveOutcomes.WithLabelValues(outcomeAlreadyBooked).Inc()
		return nil, ErrAlreadyBooked
	}
	reserveOutcomes.WithLabelValues(outcomeError).Inc()
	return nil, fmt.Errorf("record booking: %w", err)
}

// compensate returns the speculatively taken seat, retrying transient store
// failures with exponential backoff. A missing event is permanent: the
// catalog record was deleted out from under us and there is no counter left
// to restore.
func (e *Engine) compensate(ctx context.Context, eventID string) error {
	attempt := 0
	op := func() error {
		attempt++
		err := e.inventory.Increment(ctx, eventID)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrEventNotFound) {
			return backoff.Permanent(err)
		}
		compensationRetries.Inc()
		e.logger.Warn().
			Err(err).
			Str("event_id", eventID).
			Int("attempt", attempt).
			Msg("compensating increment failed, retrying")
		return err
	}
	return backoff.Retry(op, backoff.WithContext(e.newBackOff(), ctx))
}
