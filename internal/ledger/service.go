// Package ledger implements the escrow ledger's state-transition engine:
// event registration, reservations, check-ins, and settlement.
//
// Every operation is a single unit of work against one record. The store
// provides per-record mutual exclusion, and all of an operation's own
// state mutations are committed before any outbound transfer is made
// (checks-effects-interactions), so a re-entrant caller always observes a
// record already advanced past the guarded state.
package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/namdoan/escrowd/internal/core/clock"
	"github.com/namdoan/escrowd/internal/core/domain"
	"github.com/namdoan/escrowd/internal/infra/notify"
	"github.com/namdoan/escrowd/internal/infra/storage"
	"github.com/namdoan/escrowd/internal/infra/treasury"
)

// GracePeriod is the fixed waiting interval after an event's scheduled
// time before unclaimed deposits may be settled to the organizer.
const GracePeriod = 7 * 24 * time.Hour

// Service orchestrates the ledger components against a single store.
type Service struct {
	store      storage.EventRepository
	treasury   treasury.Treasury
	notifier   notify.Notifier
	clock      clock.Clock
	instanceID string
}

// New creates a ledger service. instanceID identifies this ledger
// deployment and is mixed into derived event ids.
func New(
	store storage.EventRepository,
	tr treasury.Treasury,
	notifier notify.Notifier,
	clk clock.Clock,
	instanceID string,
) *Service {
	return &Service{
		store:      store,
		treasury:   tr,
		notifier:   notifier,
		clock:      clk,
		instanceID: instanceID,
	}
}

// GetEvent returns the stored record for id. Unknown ids yield a zero
// record; callers detect it via EventRecord.Exists.
func (s *Service) GetEvent(ctx context.Context, id domain.EventID) (*domain.EventRecord, error) {
	return s.store.Get(ctx, id)
}

// emit appends a notification to the operation log. Delivery failures are
// logged and never fail the operation that produced them.
func (s *Service) emit(ctx context.Context, n domain.Notification) {
	if s.notifier == nil {
		return
	}
	n.EmittedAt = s.clock.Now()
	if err := s.notifier.Emit(ctx, n); err != nil {
		slog.Warn("notification emit failed",
			"type", string(n.Type),
			"event_id", n.EventID.String(),
			"error", err,
		)
	}
}
