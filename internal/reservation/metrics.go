package reservation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeCommitted     = "committed"
	outcomeNotFound      = "not_found"
	outcomeSoldOut       = "sold_out"
	outcomeAlreadyBooked = "already_booked"
	outcomeError         = "error"
)

var (
	reserveOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_reserve_total",
		Help: "Reservation attempts by outcome.",
	}, []string{"outcome"})

	compensationRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_seat_compensation_retries_total",
		Help: "Failed compensating-increment attempts that were retried.",
	})

	compensationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_seat_compensation_failures_total",
		Help: "Compensations abandoned after exhausting retries. Each one is a leaked seat until reconciled.",
	})
)
