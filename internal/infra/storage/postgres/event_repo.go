package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/namdoan/escrowd/internal/core/domain"
	"github.com/namdoan/escrowd/internal/infra/storage"
)

// EventRepo implements storage.EventRepository using PostgreSQL.
// Per-record mutual exclusion comes from SELECT ... FOR UPDATE inside a
// transaction; the row lock is released at commit, before any external
// transfer is attempted by callers.
type EventRepo struct {
	db *DB
}

// NewEventRepo creates a new PostgreSQL event repository.
func NewEventRepo(db *DB) *EventRepo {
	return &EventRepo{db: db}
}

type eventRow struct {
	ID            string         `db:"id"`
	MetadataRef   string         `db:"metadata_ref"`
	Organizer     string         `db:"organizer"`
	ScheduledAt   int64          `db:"scheduled_at"`
	DepositAmount int64          `db:"deposit_amount"`
	Capacity      int            `db:"capacity"`
	Confirmed     pq.StringArray `db:"confirmed"`
	Claimed       pq.StringArray `db:"claimed"`
	EscrowHeld    int64          `db:"escrow_held"`
	Settled       bool           `db:"settled"`
	CreatedAt     int64          `db:"created_at"`
}

func (r eventRow) toDomain() (*domain.EventRecord, error) {
	id, err := domain.ParseEventID(r.ID)
	if err != nil {
		return nil, err
	}
	rec := &domain.EventRecord{
		ID:            id,
		MetadataRef:   r.MetadataRef,
		Organizer:     domain.Identity(r.Organizer),
		ScheduledAt:   time.Unix(r.ScheduledAt, 0).UTC(),
		DepositAmount: uint64(r.DepositAmount),
		Capacity:      r.Capacity,
		EscrowHeld:    uint64(r.EscrowHeld),
		Settled:       r.Settled,
		CreatedAt:     time.Unix(r.CreatedAt, 0).UTC(),
	}
	for _, a := range r.Confirmed {
		rec.Confirmed = append(rec.Confirmed, domain.Identity(a))
	}
	for _, a := range r.Claimed {
		rec.Claimed = append(rec.Claimed, domain.Identity(a))
	}
	return rec, nil
}

func identityStrings(ids []domain.Identity) pq.StringArray {
	out := make(pq.StringArray, len(ids))
	for i, a := range ids {
		out[i] = string(a)
	}
	return out
}

// Create inserts a new event record.
func (r *EventRepo) Create(ctx context.Context, rec *domain.EventRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO events (
			id, metadata_ref, organizer, scheduled_at, deposit_amount,
			capacity, confirmed, claimed, escrow_held, settled, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.ID.String(),
		rec.MetadataRef,
		string(rec.Organizer),
		rec.ScheduledAt.Unix(),
		int64(rec.DepositAmount),
		rec.Capacity,
		identityStrings(rec.Confirmed),
		identityStrings(rec.Claimed),
		int64(rec.EscrowHeld),
		rec.Settled,
		rec.CreatedAt.Unix(),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return storage.ErrEventExists
		}
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// Get retrieves an event record; unknown ids yield a zero record.
func (r *EventRepo) Get(ctx context.Context, id domain.EventID) (*domain.EventRecord, error) {
	var row eventRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM events WHERE id = $1`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.EventRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return row.toDomain()
}

// Update applies fn to the record under a row lock and persists the
// mutable fields iff fn returns nil.
func (r *EventRepo) Update(ctx context.Context, id domain.EventID, fn func(rec *domain.EventRecord) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var row eventRow
	err = tx.GetContext(ctx, &row, `SELECT * FROM events WHERE id = $1 FOR UPDATE`, id.String())

	work := &domain.EventRecord{}
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Leave work as the zero record; every precondition fails on it.
	case err != nil:
		return fmt.Errorf("failed to lock event: %w", err)
	default:
		work, err = row.toDomain()
		if err != nil {
			return err
		}
	}

	if err := fn(work); err != nil {
		return err
	}
	if !work.Exists() {
		return fmt.Errorf("update of uninitialized record %s", id)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE events
		SET confirmed = $2, claimed = $3, escrow_held = $4, settled = $5
		WHERE id = $1`,
		id.String(),
		identityStrings(work.Confirmed),
		identityStrings(work.Claimed),
		int64(work.EscrowHeld),
		work.Settled,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return tx.Commit()
}

// Ping checks database connectivity.
func (r *EventRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (r *EventRepo) Close() error {
	return r.db.Close()
}
