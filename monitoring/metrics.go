package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_total",
			Help: "Order operations by outcome",
		},
		[]string{"operation", "ticket_type", "status"},
	)

	ticketsIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickets_issued_total",
			Help: "Tickets minted per ticket type",
		},
		[]string{"ticket_type"},
	)

	ticketsCheckedIn = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tickets_checked_in_total",
			Help: "Tickets redeemed at the door",
		},
	)

	inventoryRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_rejections_total",
			Help: "Reservations refused for lack of stock",
		},
		[]string{"ticket_type"},
	)

	sideEffectFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "side_effect_failures_total",
			Help: "Failed post-commit side effects (mail, publish)",
		},
		[]string{"kind"},
	)

	orderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "order_operation_duration_seconds",
			Help:    "Latency of order operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// RecordOrder counts one order operation. status is "ok" or an error kind.
func RecordOrder(operation, ticketType, status string) {
	ordersTotal.WithLabelValues(operation, ticketType, status).Inc()
}

func RecordTicketsIssued(ticketType string, n int) {
	ticketsIssued.WithLabelValues(ticketType).Add(float64(n))
}

func RecordCheckIn() {
	ticketsCheckedIn.Inc()
}

func RecordInventoryRejection(ticketType string) {
	inventoryRejections.WithLabelValues(ticketType).Inc()
}

func RecordSideEffectFailure(kind string) {
	sideEffectFailures.WithLabelValues(kind).Inc()
}

// ObserveDuration returns a func that records the elapsed time for operation.
func ObserveDuration(operation string) func() {
	start := time.Now()
	return func() {
		orderDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}
