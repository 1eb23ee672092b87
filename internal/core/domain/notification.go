package domain

import "time"

// Notification is an entry in the append-only operation log.
type Notification struct {
	Type      NotificationType
	EventID   EventID
	EmittedAt time.Time

	// EventCreated fields.
	Organizer     Identity
	ScheduledAt   time.Time
	DepositAmount uint64
	Capacity      int
	MetadataRef   string

	// Reserved / AttendeeConfirmed field.
	Attendee Identity

	// Settled field.
	Payout uint64
}

type NotificationType string

const (
	NotificationEventCreated      NotificationType = "event_created"
	NotificationReserved          NotificationType = "reserved"
	NotificationAttendeeConfirmed NotificationType = "attendee_confirmed"
	NotificationSettled           NotificationType = "settled"
)
