package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/namdoan/escrowd/internal/core/domain"
	"github.com/namdoan/escrowd/internal/ledger/metrics"
)

// CheckIn confirms an attendee's presence and refunds their deposit.
//
// The claim is appended and committed to the store before the transfer is
// attempted: a malicious attendee re-entering CheckIn from their transfer
// hook finds themselves already claimed. If the transfer fails, the claim
// is rolled back by a compensating update and the call fails with
// ErrTransferFailed. The rollback re-validates the record: if it settled
// while the refund was in flight, the claim is kept and the deposit is
// reported for reconciliation rather than restored to escrow.
func (s *Service) CheckIn(ctx context.Context, id domain.EventID, attendee, caller domain.Identity) error {
	var deposit uint64
	err := s.store.Update(ctx, id, func(rec *domain.EventRecord) error {
		if !rec.Exists() {
			return domain.ErrUnknownEvent
		}
		if err := authorizeOrganizer(rec, caller); err != nil {
			return err
		}
		if !rec.IsConfirmed(attendee) {
			return domain.ErrNoSuchReservation
		}
		if rec.IsClaimed(attendee) {
			return domain.ErrAlreadyClaimed
		}
		if rec.Settled {
			return domain.ErrEventAlreadySettled
		}
		rec.Claimed = append(rec.Claimed, attendee)
		rec.EscrowHeld -= rec.DepositAmount
		deposit = rec.DepositAmount
		return nil
	})
	if err != nil {
		metrics.OperationErrors.WithLabelValues("checkin").Inc()
		return err
	}

	// The claim is committed; the record lock is no longer held.
	if terr := s.treasury.Transfer(ctx, attendee, deposit); terr != nil {
		stranded := false
		rbErr := s.store.Update(ctx, id, func(rec *domain.EventRecord) error {
			// A settlement that completed while the refund was in
			// flight counted this attendee as claimed. Restoring
			// escrow on a settled record would leave value no
			// operation can release, so the claim stands and the
			// deposit goes to reconciliation.
			if rec.Settled {
				stranded = true
				return nil
			}
			rec.RemoveClaim(attendee)
			rec.EscrowHeld += deposit
			return nil
		})
		if rbErr != nil {
			slog.Error("claim rollback failed",
				"event_id", id.String(),
				"attendee", string(attendee),
				"error", rbErr,
			)
		}
		if stranded {
			metrics.StrandedDeposits.Add(float64(deposit))
			slog.Error("refund failed against a settled record; deposit held for reconciliation",
				"event_id", id.String(),
				"attendee", string(attendee),
				"amount", deposit,
			)
		}
		metrics.TransferFailures.WithLabelValues("checkin").Inc()
		return fmt.Errorf("%w: %v", domain.ErrTransferFailed, terr)
	}

	metrics.CheckIns.Inc()
	metrics.EscrowHeld.Sub(float64(deposit))
	s.emit(ctx, domain.Notification{
		Type:     domain.NotificationAttendeeConfirmed,
		EventID:  id,
		Attendee: attendee,
	})
	return nil
}

// CheckInResult is one attendee's outcome within a batch check-in.
type CheckInResult struct {
	Attendee domain.Identity
	// Refunded reports a deposit refund performed by this call.
	Refunded bool
	// AlreadyClaimed marks attendees skipped because an earlier
	// check-in refunded them.
	AlreadyClaimed bool
	Err            error
}

// CheckInAll checks in every confirmed attendee not yet claimed. It
// iterates a snapshot of the reservation list captured at call start and
// treats each check-in as independent: one attendee's transfer failure is
// reported in the result list without aborting the rest.
func (s *Service) CheckInAll(ctx context.Context, id domain.EventID, caller domain.Identity) ([]CheckInResult, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rec.Exists() {
		metrics.OperationErrors.WithLabelValues("checkin_all").Inc()
		return nil, domain.ErrUnknownEvent
	}
	if err := authorizeOrganizer(rec, caller); err != nil {
		metrics.OperationErrors.WithLabelValues("checkin_all").Inc()
		return nil, err
	}

	results := make([]CheckInResult, 0, len(rec.Confirmed))
	for _, attendee := range rec.ConfirmedSnapshot() {
		if rec.IsClaimed(attendee) {
			results = append(results, CheckInResult{Attendee: attendee, AlreadyClaimed: true})
			continue
		}
		err := s.CheckIn(ctx, id, attendee, caller)
		results = append(results, CheckInResult{
			Attendee: attendee,
			Refunded: err == nil,
			Err:      err,
		})
	}
	return results, nil
}
