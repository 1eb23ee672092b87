package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/namdoan/escrowd/internal/core/domain"
	"github.com/namdoan/escrowd/internal/ledger/metrics"
)

// SettleUnclaimed pays all unclaimed deposits of an event to its
// organizer once the grace period after the scheduled time has elapsed.
// It returns the payout amount.
//
// Settled is flipped and escrow zeroed before the transfer, so a
// re-entrant settlement attempt fails with ErrAlreadySettled. A failed
// transfer rolls both back (an actual assignment, not the silent no-op
// this design replaces) and the call fails with ErrTransferFailed, so
// settlement stays retryable.
func (s *Service) SettleUnclaimed(ctx context.Context, id domain.EventID, caller domain.Identity) (uint64, error) {
	now := s.clock.Now()

	var (
		payout    uint64
		organizer domain.Identity
	)
	err := s.store.Update(ctx, id, func(rec *domain.EventRecord) error {
		if !rec.Exists() {
			return domain.ErrUnknownEvent
		}
		if rec.Settled {
			return domain.ErrAlreadySettled
		}
		if now.Before(rec.ScheduledAt.Add(GracePeriod)) {
			return domain.ErrTooEarly
		}
		if err := authorizeOrganizer(rec, caller); err != nil {
			return err
		}
		payout = uint64(rec.UnclaimedCount()) * rec.DepositAmount
		organizer = rec.Organizer
		rec.Settled = true
		rec.EscrowHeld = 0
		return nil
	})
	if err != nil {
		metrics.OperationErrors.WithLabelValues("settle").Inc()
		return 0, err
	}

	// Settlement is committed; the transfer happens outside the lock.
	if terr := s.treasury.Transfer(ctx, organizer, payout); terr != nil {
		rbErr := s.store.Update(ctx, id, func(rec *domain.EventRecord) error {
			rec.Settled = false
			rec.EscrowHeld = payout
			return nil
		})
		if rbErr != nil {
			slog.Error("settlement rollback failed",
				"event_id", id.String(),
				"error", rbErr,
			)
		}
		metrics.TransferFailures.WithLabelValues("settle").Inc()
		return 0, fmt.Errorf("%w: %v", domain.ErrTransferFailed, terr)
	}

	metrics.Settlements.Inc()
	metrics.EscrowHeld.Sub(float64(payout))
	s.emit(ctx, domain.Notification{
		Type:    domain.NotificationSettled,
		EventID: id,
		Payout:  payout,
	})
	return payout, nil
}
