package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/abderahmentrabelsi/solana-bot/internal/execution"
	"github.com/abderahmentrabelsi/solana-bot/internal/signal"
)

const mintLine = "Program log: TokenMinted|mint=Mint111|symbol=MEMECAT|initial_supply=10|trade_amount=100"

func newTestMintScanner(trader *fakeTrader, sink *fakeSink) *MintScanner {
	return NewMintScanner("ws://unused", "Program111", "processed", time.Second, 20000, "MEME", trader, sink, zerolog.Nop())
}

func TestParseMintEventSkipsMalformedSegments(t *testing.T) {
	line := "Program log: TokenMinted|mint=Mint111|bogus-segment|symbol=MEMECAT|initial_supply=10|trade_amount=250"
	event, err := parseMintEvent(line, zerolog.Nop())
	if err != nil {
		t.Fatalf("parseMintEvent returned error: %v", err)
	}
	if event.Mint != "Mint111" {
		t.Fatalf("unexpected mint %s", event.Mint)
	}
	if event.Symbol != "MEMECAT" {
		t.Fatalf("unexpected symbol %s", event.Symbol)
	}
	if event.InitialSupply != 10 {
		t.Fatalf("unexpected initial supply %.2f", event.InitialSupply)
	}
	if event.TradeAmount != 250 {
		t.Fatalf("unexpected trade amount %.2f", event.TradeAmount)
	}
	if _, ok := event.Fields["bogus-segment"]; ok {
		t.Fatalf("malformed segment must not produce a field")
	}
}

func TestParseMintEventDefaultsTradeAmount(t *testing.T) {
	event, err := parseMintEvent("TokenMinted|mint=Mint222|symbol=MEMEDOG", zerolog.Nop())
	if err != nil {
		t.Fatalf("parseMintEvent returned error: %v", err)
	}
	if event.TradeAmount != defaultTradeAmount {
		t.Fatalf("expected default trade amount %d, got %.2f", defaultTradeAmount, event.TradeAmount)
	}
	if event.InitialSupply != 0 {
		t.Fatalf("expected zero initial supply, got %.2f", event.InitialSupply)
	}
}

func TestParseMintEventMissingMint(t *testing.T) {
	if _, err := parseMintEvent("TokenMinted|symbol=MEMECAT", zerolog.Nop()); err == nil {
		t.Fatalf("expected error when mint address is absent")
	}
}

func TestMintScannerTradesOnQualifyingEvent(t *testing.T) {
	trader := &fakeTrader{result: &execution.Result{Succeeded: true, Signature: "sig"}}
	sink := &fakeSink{}
	scanner := newTestMintScanner(trader, sink)

	scanner.handle(context.Background(), logsValue{Signature: "tx1", Logs: []string{"unrelated line", mintLine}})

	if trader.callCount() != 1 {
		t.Fatalf("expected 1 order, got %d", trader.callCount())
	}
	call := trader.call(0)
	if call.Mint != "Mint111" || call.Side != signal.SideBuy || call.Quantity != 100 {
		t.Fatalf("unexpected order %+v", call)
	}
	if sink.tradeLogCount() != 1 {
		t.Fatalf("expected 1 trade log, got %d", sink.tradeLogCount())
	}
	if sink.tradeLog(0).Event != "MemeCoinMarketOrder" {
		t.Fatalf("unexpected event %s", sink.tradeLog(0).Event)
	}
}

func TestMintScannerDeduplicatesMints(t *testing.T) {
	trader := &fakeTrader{result: &execution.Result{Succeeded: true}}
	scanner := newTestMintScanner(trader, &fakeSink{})

	for i := 0; i < 3; i++ {
		scanner.handle(context.Background(), logsValue{Logs: []string{mintLine}})
	}
	if trader.callCount() != 1 {
		t.Fatalf("expected exactly 1 order for a repeated mint, got %d", trader.callCount())
	}
}

func TestMintScannerFilterRejects(t *testing.T) {
	trader := &fakeTrader{result: &execution.Result{Succeeded: true}}
	scanner := newTestMintScanner(trader, &fakeSink{})

	// liquidity proxy over threshold
	scanner.handle(context.Background(), logsValue{Logs: []string{
		"TokenMinted|mint=Big111|symbol=MEMEWHALE|initial_supply=1000|trade_amount=100",
	}})
	// symbol without the meme keyword
	scanner.handle(context.Background(), logsValue{Logs: []string{
		"TokenMinted|mint=Srs111|symbol=SERIOUS|initial_supply=1|trade_amount=10",
	}})

	if trader.callCount() != 0 {
		t.Fatalf("expected no orders, got %d", trader.callCount())
	}
}

func TestMintScannerExecutionFailureStillLogged(t *testing.T) {
	trader := &fakeTrader{err: errors.New("quote: boom")}
	sink := &fakeSink{}
	scanner := newTestMintScanner(trader, sink)

	scanner.handle(context.Background(), logsValue{Logs: []string{mintLine}})

	if sink.tradeLogCount() != 1 {
		t.Fatalf("expected a trade log for the failed order, got %d", sink.tradeLogCount())
	}
	entry := sink.tradeLog(0)
	if entry.Result != nil {
		t.Fatalf("expected nil result for pre-broadcast failure, got %+v", entry.Result)
	}
	if entry.Context["error"] == nil {
		t.Fatalf("expected error recorded in trade log context")
	}
}
