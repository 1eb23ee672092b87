package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/namdoan/escrowd/internal/core/clock"
	"github.com/namdoan/escrowd/internal/core/domain"
	"github.com/namdoan/escrowd/internal/infra/storage/memory"
)

// baseTime is the scheduled time used across engine tests.
var baseTime = time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

// fakeTreasury credits transfers to in-memory balances and supports
// failure injection and a pre-transfer hook for re-entrancy tests.
type fakeTreasury struct {
	mu         sync.Mutex
	balances   map[domain.Identity]uint64
	failFor    map[domain.Identity]error
	onTransfer func(to domain.Identity, amount uint64)
}

func newFakeTreasury() *fakeTreasury {
	return &fakeTreasury{
		balances: make(map[domain.Identity]uint64),
		failFor:  make(map[domain.Identity]error),
	}
}

func (f *fakeTreasury) Transfer(ctx context.Context, to domain.Identity, amount uint64) error {
	if f.onTransfer != nil {
		f.onTransfer(to, amount)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failFor[to]; err != nil {
		return err
	}
	f.balances[to] += amount
	return nil
}

func (f *fakeTreasury) balance(to domain.Identity) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balances[to]
}

func (f *fakeTreasury) failTransfersTo(to domain.Identity, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.failFor, to)
	} else {
		f.failFor[to] = err
	}
}

// recordingNotifier captures emitted notifications.
type recordingNotifier struct {
	mu    sync.Mutex
	notes []domain.Notification
}

func (r *recordingNotifier) Emit(ctx context.Context, n domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
	return nil
}

func (r *recordingNotifier) Close() error { return nil }

func (r *recordingNotifier) byType(t domain.NotificationType) []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Notification
	for _, n := range r.notes {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}

type testEnv struct {
	svc      *Service
	store    *memory.Store
	treasury *fakeTreasury
	notifier *recordingNotifier
	clock    *clock.Manual
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		store:    memory.NewStore(),
		treasury: newFakeTreasury(),
		notifier: &recordingNotifier{},
		clock:    clock.NewManual(baseTime.Add(-24 * time.Hour)),
	}
	env.svc = New(env.store, env.treasury, env.notifier, env.clock, "test-instance")
	return env
}

func (e *testEnv) mustCreate(t *testing.T, p CreateParams) domain.EventID {
	t.Helper()
	id, err := e.svc.Create(context.Background(), p)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return id
}

func (e *testEnv) mustGet(t *testing.T, id domain.EventID) *domain.EventRecord {
	t.Helper()
	rec, err := e.store.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	return rec
}

func defaultParams() CreateParams {
	return CreateParams{
		Organizer:     "organizer-1",
		ScheduledAt:   baseTime,
		DepositAmount: 100,
		Capacity:      3,
		MetadataRef:   "ipfs://meta",
	}
}

// assertEscrow checks the conservation invariant: custody equals
// deposit * (confirmed - claimed) until settlement, then zero.
func assertEscrow(t *testing.T, rec *domain.EventRecord) {
	t.Helper()
	want := uint64(0)
	if !rec.Settled {
		want = rec.DepositAmount * uint64(rec.UnclaimedCount())
	}
	if rec.EscrowHeld != want {
		t.Errorf("escrow held = %d, want %d (confirmed=%d claimed=%d settled=%v)",
			rec.EscrowHeld, want, len(rec.Confirmed), len(rec.Claimed), rec.Settled)
	}
}
