package treasury

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/namdoan/escrowd/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Webhook posts payout orders to an external payment rail. Any non-2xx
// response counts as a failed transfer.
type Webhook struct {
	url    string
	client *http.Client
}

func NewWebhook(cfg Config) *Webhook {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Webhook{
		url:    cfg.PayoutURL,
		client: &http.Client{Timeout: timeout},
	}
}

type payoutOrder struct {
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

func (w *Webhook) Transfer(ctx context.Context, to domain.Identity, amount uint64) error {
	body, err := json.Marshal(payoutOrder{To: string(to), Amount: amount})
	if err != nil {
		return fmt.Errorf("failed to encode payout order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build payout request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("payout request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("payout rejected with status %d", resp.StatusCode)
	}
	return nil
}
