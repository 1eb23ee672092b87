package storage

import (
	"context"
	"errors"

	"github.com/namdoan/escrowd/internal/core/domain"
)

var (
	// ErrEventExists is returned when creating a record whose id is
	// already present.
	ErrEventExists = errors.New("event record already exists")
)

// EventRepository is the single source of truth for event records and the
// custodian of their escrowed deposits. Implementations must provide
// per-record mutual exclusion: Update runs against one record at a time
// and concurrent callers see a serializable ordering.
type EventRepository interface {
	// Create inserts a new record. Fails with ErrEventExists if the id
	// is taken.
	Create(ctx context.Context, rec *domain.EventRecord) error

	// Get retrieves a record. Unknown ids yield a zero record, never an
	// error; callers detect it via EventRecord.Exists.
	Get(ctx context.Context, id domain.EventID) (*domain.EventRecord, error)

	// Update applies fn to the record under per-record exclusion and
	// persists the mutated record iff fn returns nil. Unknown ids hand
	// fn a zero record, so every precondition check fails naturally.
	Update(ctx context.Context, id domain.EventID, fn func(rec *domain.EventRecord) error) error

	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error

	// Close releases store resources.
	Close() error
}
