package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EventsCreated tracks total event records created.
	EventsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "escrowd_events_created_total",
			Help: "Total number of event records created",
		},
	)

	// Reservations tracks total accepted reservations.
	Reservations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "escrowd_reservations_total",
			Help: "Total number of accepted reservations",
		},
	)

	// CheckIns tracks total successful check-ins (deposit refunds).
	CheckIns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "escrowd_checkins_total",
			Help: "Total number of successful check-ins",
		},
	)

	// Settlements tracks total successful settlements.
	Settlements = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "escrowd_settlements_total",
			Help: "Total number of successful settlements",
		},
	)

	// TransferFailures tracks failed outbound transfers per operation.
	TransferFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "escrowd_transfer_failures_total",
			Help: "Total number of failed outbound transfers",
		},
		[]string{"operation"},
	)

	// OperationErrors tracks rejected operations by operation name.
	OperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "escrowd_operation_errors_total",
			Help: "Total number of rejected ledger operations",
		},
		[]string{"operation"},
	)

	// StrandedDeposits tracks deposit value left unrefunded on settled
	// records, awaiting manual reconciliation.
	StrandedDeposits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "escrowd_stranded_deposit_value_total",
			Help: "Total deposit value left unrefunded on settled records",
		},
	)

	// EscrowHeld tracks the total deposit value currently in custody.
	EscrowHeld = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "escrowd_escrow_held",
			Help: "Total deposit value currently held in escrow",
		},
	)
)
