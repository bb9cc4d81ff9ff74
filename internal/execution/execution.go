// Package execution defines the order contract between opportunity sources and venues.
package execution

import (
	"context"

	"github.com/abderahmentrabelsi/solana-bot/internal/signal"
)

// Result is the terminal outcome of one market order attempt. Exactly one
// Result (or a pre-submission error) is produced per request.
type Result struct {
	Succeeded bool   `json:"succeeded"`
	Signature string `json:"signature,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

// Trader converts a (mint, side, quantity) request into a submitted transaction.
// Implementations must be safe for concurrent callers; nothing serializes
// invocations across monitors.
type Trader interface {
	ExecuteMarketOrder(ctx context.Context, mint string, side signal.Side, quantity float64) (*Result, error)
}
