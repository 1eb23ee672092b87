// Package treasury is the outbound value-transfer boundary. A transfer
// crosses into untrusted territory: the receiving identity may run
// arbitrary code (including calls back into this service), so the ledger
// engine commits its own state before invoking Transfer and compensates
// if the transfer fails.
package treasury

import (
	"context"
	"time"

	"github.com/namdoan/escrowd/internal/core/domain"
)

// Treasury moves escrowed value out of the ledger's custody.
type Treasury interface {
	// Transfer pays amount to the identity. A non-nil error means no
	// value moved.
	Transfer(ctx context.Context, to domain.Identity, amount uint64) error
}

// Config holds treasury settings.
type Config struct {
	// PayoutURL is the webhook endpoint receiving payout orders. Empty
	// selects the in-memory account book.
	PayoutURL string        `yaml:"payout_url"`
	Timeout   time.Duration `yaml:"timeout"`
}
