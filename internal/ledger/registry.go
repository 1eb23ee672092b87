package ledger

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/namdoan/escrowd/internal/core/domain"
	"github.com/namdoan/escrowd/internal/infra/storage"
	"github.com/namdoan/escrowd/internal/ledger/metrics"
)

// CreateParams are the immutable creation fields of an event.
type CreateParams struct {
	Organizer     domain.Identity
	ScheduledAt   time.Time
	DepositAmount uint64
	Capacity      int
	MetadataRef   string
}

// Create registers a new event and returns its derived id.
//
// The id is a SHA-256 over {organizer, instance id, scheduledAt,
// depositAmount, capacity}. Hashing the parameter tuple instead of a
// counter keeps ids reproducible and avoids shared mutable state; the
// accepted trade-off is that two creations with an identical tuple in the
// same instance collide and the second fails with ErrDuplicateEvent.
// MetadataRef is deliberately not part of the tuple.
func (s *Service) Create(ctx context.Context, p CreateParams) (domain.EventID, error) {
	if p.Organizer == "" {
		return domain.EventID{}, domain.ErrInvalidIdentity
	}

	id := s.deriveID(p)
	rec := &domain.EventRecord{
		ID:            id,
		MetadataRef:   p.MetadataRef,
		Organizer:     p.Organizer,
		ScheduledAt:   p.ScheduledAt.UTC(),
		DepositAmount: p.DepositAmount,
		Capacity:      p.Capacity,
		CreatedAt:     s.clock.Now(),
	}

	if err := s.store.Create(ctx, rec); err != nil {
		if errors.Is(err, storage.ErrEventExists) {
			metrics.OperationErrors.WithLabelValues("create").Inc()
			return domain.EventID{}, domain.ErrDuplicateEvent
		}
		return domain.EventID{}, fmt.Errorf("failed to store event: %w", err)
	}

	metrics.EventsCreated.Inc()
	s.emit(ctx, domain.Notification{
		Type:          domain.NotificationEventCreated,
		EventID:       id,
		Organizer:     p.Organizer,
		ScheduledAt:   rec.ScheduledAt,
		DepositAmount: p.DepositAmount,
		Capacity:      p.Capacity,
		MetadataRef:   p.MetadataRef,
	})
	return id, nil
}

func (s *Service) deriveID(p CreateParams) domain.EventID {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%d|%d|%d",
		p.Organizer,
		s.instanceID,
		p.ScheduledAt.Unix(),
		p.DepositAmount,
		p.Capacity,
	)
	var id domain.EventID
	copy(id[:], h.Sum(nil))
	return id
}
