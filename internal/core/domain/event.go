package domain

import (
	"encoding/hex"
	"fmt"
	"time"
)

// EventID is the 256-bit ledger identifier of an event, rendered as
// lowercase hex.
type EventID [32]byte

func (id EventID) String() string {
	return hex.EncodeToString(id[:])
}

func (id EventID) IsZero() bool {
	return id == EventID{}
}

// ParseEventID decodes a 64-character hex string into an EventID.
func ParseEventID(s string) (EventID, error) {
	var id EventID
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("invalid event id %q: %w", s, err)
	}
	if len(b) != len(id) {
		return id, fmt.Errorf("invalid event id %q: want %d bytes, got %d", s, len(id), len(b))
	}
	copy(id[:], b)
	return id, nil
}

// Identity is an opaque payable identity (organizer or attendee).
type Identity string

// EventRecord is the stored state for one organizer-created event.
// All fields above Confirmed are immutable after creation.
type EventRecord struct {
	ID            EventID
	MetadataRef   string
	Organizer     Identity
	ScheduledAt   time.Time
	DepositAmount uint64
	Capacity      int

	// Confirmed holds distinct attendee identities in reservation order.
	Confirmed []Identity
	// Claimed holds attendees already checked in and refunded; always a
	// subset of Confirmed.
	Claimed []Identity
	// EscrowHeld is the deposit value the store holds in custody for this
	// record: DepositAmount * (len(Confirmed) - len(Claimed)) until
	// settlement, then zero.
	EscrowHeld uint64
	// Settled flips false -> true once the unclaimed payout has reached
	// the organizer.
	Settled bool

	CreatedAt time.Time
}

// Exists reports whether the record was ever created. Lookups for unknown
// ids yield a zero record, which fails every operation precondition.
func (r *EventRecord) Exists() bool {
	return r.Organizer != ""
}

// IsConfirmed reports whether the attendee holds a reservation.
func (r *EventRecord) IsConfirmed(attendee Identity) bool {
	for _, a := range r.Confirmed {
		if a == attendee {
			return true
		}
	}
	return false
}

// IsClaimed reports whether the attendee's deposit was already refunded.
func (r *EventRecord) IsClaimed(attendee Identity) bool {
	for _, a := range r.Claimed {
		if a == attendee {
			return true
		}
	}
	return false
}

// RemoveClaim deletes the attendee from Claimed. Used only by the
// compensating rollback when a refund transfer fails.
func (r *EventRecord) RemoveClaim(attendee Identity) {
	for i, a := range r.Claimed {
		if a == attendee {
			r.Claimed = append(r.Claimed[:i], r.Claimed[i+1:]...)
			return
		}
	}
}

// UnclaimedCount returns the number of confirmed attendees whose deposit
// has not been refunded.
func (r *EventRecord) UnclaimedCount() int {
	return len(r.Confirmed) - len(r.Claimed)
}

// ConfirmedSnapshot returns a copy of the reservation list, so batch
// operations never iterate a sequence mutated mid-pass.
func (r *EventRecord) ConfirmedSnapshot() []Identity {
	out := make([]Identity, len(r.Confirmed))
	copy(out, r.Confirmed)
	return out
}

// Clone returns a deep copy of the record.
func (r *EventRecord) Clone() *EventRecord {
	c := *r
	c.Confirmed = append([]Identity(nil), r.Confirmed...)
	c.Claimed = append([]Identity(nil), r.Claimed...)
	return &c
}
