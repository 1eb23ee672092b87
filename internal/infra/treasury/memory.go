package treasury

import (
	"context"
	"sync"

	"github.com/namdoan/escrowd/internal/core/domain"
)

// AccountBook is an in-memory treasury for development and tests. It
// credits transfers to per-identity balances.
type AccountBook struct {
	mu       sync.Mutex
	balances map[domain.Identity]uint64
}

func NewAccountBook() *AccountBook {
	return &AccountBook{balances: make(map[domain.Identity]uint64)}
}

func (b *AccountBook) Transfer(ctx context.Context, to domain.Identity, amount uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances[to] += amount
	return nil
}

// Balance returns the total credited to an identity.
func (b *AccountBook) Balance(to domain.Identity) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balances[to]
}
