// Package store defines the append-only persistence contract for market
// observations and trade-log entries.
package store

import (
	"context"
	"time"

	"github.com/abderahmentrabelsi/solana-bot/internal/execution"
)

// TradeLog records one execution attempt and its context. Entries are written
// once and never read back by the bot.
type TradeLog struct {
	Event   string            `json:"event"`
	Context map[string]any    `json:"context,omitempty"`
	Result  *execution.Result `json:"result,omitempty"`
	Ts      time.Time         `json:"timestamp"`
}

// NewTradeLog stamps an entry with the current UTC time.
func NewTradeLog(event string, context map[string]any, result *execution.Result) TradeLog {
	return TradeLog{Event: event, Context: context, Result: result, Ts: time.Now().UTC()}
}

// Sink accepts observations and trade logs. Failures are reported but must be
// treated as non-fatal by callers: a sink error never aborts a monitoring loop.
type Sink interface {
	StoreObservation(ctx context.Context, payload map[string]any) error
	StoreTradeLog(ctx context.Context, entry TradeLog) error
}
