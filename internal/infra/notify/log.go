package notify

import (
	"context"
	"log/slog"

	"github.com/namdoan/escrowd/internal/core/domain"
)

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Emit(ctx context.Context, n domain.Notification) error {
	attrs := []any{
		"type", string(n.Type),
		"event_id", n.EventID.String(),
	}
	switch n.Type {
	case domain.NotificationEventCreated:
		attrs = append(attrs,
			"organizer", string(n.Organizer),
			"scheduled_at", n.ScheduledAt,
			"deposit_amount", n.DepositAmount,
			"capacity", n.Capacity,
			"metadata_ref", n.MetadataRef,
		)
	case domain.NotificationReserved, domain.NotificationAttendeeConfirmed:
		attrs = append(attrs, "attendee", string(n.Attendee))
	case domain.NotificationSettled:
		attrs = append(attrs, "payout", n.Payout)
	}
	l.logger.InfoContext(ctx, "ledger notification", attrs...)
	return nil
}

func (l *LogNotifier) Close() error {
	return nil
}
