package domain

import "errors"

var (
	// ErrInvalidIdentity is returned when an organizer or attendee
	// identity is empty.
	ErrInvalidIdentity = errors.New("invalid identity")

	// ErrDuplicateEvent is returned when the derived event id already
	// exists in the store.
	ErrDuplicateEvent = errors.New("event already exists")

	// ErrUnknownEvent is returned when an operation targets an id the
	// store never created.
	ErrUnknownEvent = errors.New("unknown event")

	// ErrIncorrectDeposit is returned when the paid amount does not equal
	// the event's deposit exactly.
	ErrIncorrectDeposit = errors.New("incorrect deposit amount")

	// ErrEventAlreadyOccurred is returned for reservations after the
	// scheduled time.
	ErrEventAlreadyOccurred = errors.New("event already occurred")

	// ErrEventFull is returned when the event reached capacity.
	ErrEventFull = errors.New("event is full")

	// ErrDuplicateReservation is returned when the attendee already
	// holds a reservation.
	ErrDuplicateReservation = errors.New("duplicate reservation")

	// ErrNotAuthorized is returned when the caller is not the organizer.
	ErrNotAuthorized = errors.New("caller not authorized")

	// ErrNoSuchReservation is returned when checking in an attendee
	// without a reservation.
	ErrNoSuchReservation = errors.New("no such reservation")

	// ErrAlreadyClaimed is returned when the attendee's deposit was
	// already refunded.
	ErrAlreadyClaimed = errors.New("deposit already claimed")

	// ErrEventAlreadySettled is returned for check-ins after settlement.
	ErrEventAlreadySettled = errors.New("event already settled")

	// ErrAlreadySettled is returned for a second settlement attempt.
	ErrAlreadySettled = errors.New("already settled")

	// ErrTooEarly is returned for settlement before the grace period
	// has elapsed.
	ErrTooEarly = errors.New("grace period has not elapsed")

	// ErrTransferFailed is returned when an outbound value transfer
	// fails after the record state was tentatively advanced; the state
	// is rolled back before this error surfaces.
	ErrTransferFailed = errors.New("transfer failed")
)
