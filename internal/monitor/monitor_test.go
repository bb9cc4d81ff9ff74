package monitor

import (
	"context"
	"sync"

	"github.com/abderahmentrabelsi/solana-bot/internal/execution"
	"github.com/abderahmentrabelsi/solana-bot/internal/signal"
	"github.com/abderahmentrabelsi/solana-bot/internal/store"
)

type orderCall struct {
	Mint     string
	Side     signal.Side
	Quantity float64
}

type fakeTrader struct {
	mu     sync.Mutex
	calls  []orderCall
	result *execution.Result
	err    error
}

func (f *fakeTrader) ExecuteMarketOrder(_ context.Context, mint string, side signal.Side, quantity float64) (*execution.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, orderCall{Mint: mint, Side: side, Quantity: quantity})
	return f.result, f.err
}

func (f *fakeTrader) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeTrader) call(i int) orderCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[i]
}

type fakeSink struct {
	mu           sync.Mutex
	observations []map[string]any
	tradeLogs    []store.TradeLog
	err          error
}

func (f *fakeSink) StoreObservation(_ context.Context, payload map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.observations = append(f.observations, payload)
	return nil
}

func (f *fakeSink) StoreTradeLog(_ context.Context, entry store.TradeLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.tradeLogs = append(f.tradeLogs, entry)
	return nil
}

func (f *fakeSink) observationCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.observations)
}

func (f *fakeSink) tradeLogCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tradeLogs)
}

func (f *fakeSink) tradeLog(i int) store.TradeLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tradeLogs[i]
}
