package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/namdoan/escrowd/internal/core/domain"
	"github.com/namdoan/escrowd/internal/infra/storage"
)

// Store is an in-memory EventRepository for development and tests.
// A per-record mutex serializes mutations; the lock is never held by
// callers across external transfers.
type Store struct {
	mu     sync.RWMutex
	events map[domain.EventID]*domain.EventRecord
	locks  map[domain.EventID]*sync.Mutex
}

func NewStore() *Store {
	return &Store{
		events: make(map[domain.EventID]*domain.EventRecord),
		locks:  make(map[domain.EventID]*sync.Mutex),
	}
}

func (s *Store) Create(ctx context.Context, rec *domain.EventRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[rec.ID]; ok {
		return storage.ErrEventExists
	}
	s.events[rec.ID] = rec.Clone()
	return nil
}

func (s *Store) Get(ctx context.Context, id domain.EventID) (*domain.EventRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.events[id]
	if !ok {
		return &domain.EventRecord{}, nil
	}
	return rec.Clone(), nil
}

func (s *Store) Update(ctx context.Context, id domain.EventID, fn func(rec *domain.EventRecord) error) error {
	lock := s.recordLock(id)
	lock.Lock()
	defer lock.Unlock()

	s.mu.RLock()
	stored, ok := s.events[id]
	s.mu.RUnlock()

	// fn mutates a copy; nothing is visible until the write-back below.
	var work *domain.EventRecord
	if ok {
		work = stored.Clone()
	} else {
		work = &domain.EventRecord{}
	}

	if err := fn(work); err != nil {
		return err
	}
	if !work.Exists() {
		// fn accepted a record that was never created; refuse to persist.
		return fmt.Errorf("update of uninitialized record %s", id)
	}

	s.mu.Lock()
	s.events[id] = work
	s.mu.Unlock()
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) recordLock(id domain.EventID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}
