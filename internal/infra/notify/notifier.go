// Package notify delivers ledger notifications to an append-only log
// sink. Delivery is best-effort: the ledger's state transitions never
// depend on a notification reaching its sink.
package notify

import (
	"context"

	"github.com/namdoan/escrowd/internal/core/domain"
)

// Notifier appends a notification to the operation log.
type Notifier interface {
	Emit(ctx context.Context, n domain.Notification) error
	Close() error
}

// Multi fans a notification out to several sinks. Emit returns the first
// error but still attempts every sink.
type Multi []Notifier

func (m Multi) Emit(ctx context.Context, n domain.Notification) error {
	var first error
	for _, sink := range m {
		if err := sink.Emit(ctx, n); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m Multi) Close() error {
	var first error
	for _, sink := range m {
		if err := sink.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
