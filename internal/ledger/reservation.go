package ledger

import (
	"context"

	"github.com/namdoan/escrowd/internal/core/domain"
	"github.com/namdoan/escrowd/internal/ledger/metrics"
)

// Reserve records an attendee's deposit commitment against an event.
// Preconditions are checked in order, each a distinct failure:
// unknown event, incorrect deposit, event already occurred, event full,
// duplicate reservation. On success the paid amount stays in the store's
// custody for this record.
func (s *Service) Reserve(ctx context.Context, id domain.EventID, attendee domain.Identity, paidAmount uint64) error {
	if attendee == "" {
		return domain.ErrInvalidIdentity
	}

	now := s.clock.Now()
	err := s.store.Update(ctx, id, func(rec *domain.EventRecord) error {
		if !rec.Exists() {
			return domain.ErrUnknownEvent
		}
		if paidAmount != rec.DepositAmount {
			return domain.ErrIncorrectDeposit
		}
		if now.After(rec.ScheduledAt) {
			return domain.ErrEventAlreadyOccurred
		}
		if len(rec.Confirmed) >= rec.Capacity {
			return domain.ErrEventFull
		}
		if rec.IsConfirmed(attendee) {
			return domain.ErrDuplicateReservation
		}
		rec.Confirmed = append(rec.Confirmed, attendee)
		rec.EscrowHeld += paidAmount
		return nil
	})
	if err != nil {
		metrics.OperationErrors.WithLabelValues("reserve").Inc()
		return err
	}

	metrics.Reservations.Inc()
	metrics.EscrowHeld.Add(float64(paidAmount))
	s.emit(ctx, domain.Notification{
		Type:     domain.NotificationReserved,
		EventID:  id,
		Attendee: attendee,
	})
	return nil
}
