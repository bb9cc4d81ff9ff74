// Package bot supervises the monitors and the strategy loop as one unit.
package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/abderahmentrabelsi/solana-bot/internal/execution"
	"github.com/abderahmentrabelsi/solana-bot/internal/metrics"
	"github.com/abderahmentrabelsi/solana-bot/internal/risk"
	"github.com/abderahmentrabelsi/solana-bot/internal/store"
	"github.com/abderahmentrabelsi/solana-bot/internal/strategy"
)

// Monitor is one long-running opportunity loop.
type Monitor interface {
	Name() string
	Run(ctx context.Context) error
}

// Config carries the strategy-loop settings.
type Config struct {
	Interval      time.Duration
	OrderQuantity float64
	TargetMint    string
	Limits        risk.Limits
}

// Bot owns the lifecycle of every loop: all monitors plus the signal loop run
// as independent goroutines and are torn down together on cancellation.
type Bot struct {
	cfg      Config
	engine   *strategy.Engine
	trader   execution.Trader
	sink     store.Sink
	prices   PriceSource
	monitors []Monitor
	log      zerolog.Logger
}

// New assembles a Bot. A nil price source falls back to the synthetic feed.
func New(cfg Config, engine *strategy.Engine, trader execution.Trader, sink store.Sink, prices PriceSource, monitors []Monitor, log zerolog.Logger) *Bot {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Second
	}
	if prices == nil {
		prices = NewRandomPriceSource()
	}
	return &Bot{
		cfg:      cfg,
		engine:   engine,
		trader:   trader,
		sink:     sink,
		prices:   prices,
		monitors: monitors,
		log:      log.With().Str("component", "bot").Logger(),
	}
}

// Run blocks until ctx is canceled or a loop fails unrecoverably. Context
// cancellation is a clean shutdown, not an error.
func (b *Bot) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, m := range b.monitors {
		m := m
		g.Go(func() error {
			b.log.Info().Str("monitor", m.Name()).Msg("monitor starting")
			err := m.Run(ctx)
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				b.log.Info().Str("monitor", m.Name()).Msg("monitor stopped")
				return nil
			}
			return fmt.Errorf("%s: %w", m.Name(), err)
		})
	}

	g.Go(func() error {
		err := b.strategyLoop(ctx)
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			b.log.Info().Msg("strategy loop stopped")
			return nil
		}
		return fmt.Errorf("strategy loop: %w", err)
	})

	return g.Wait()
}

// strategyLoop feeds the engine one price per tick and executes any signal it
// produces. Execution and persistence failures are logged and absorbed.
func (b *Bot) strategyLoop(ctx context.Context) error {
	ticker := time.NewTicker(b.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			b.evaluateOnce(ctx)
		}
	}
}

func (b *Bot) evaluateOnce(ctx context.Context) {
	price := b.prices.Next()
	b.engine.UpdatePrice(price)

	sig := b.engine.Generate()
	if sig == nil {
		return
	}
	metrics.SignalsTotal.WithLabelValues(string(sig.Action)).Inc()
	b.log.Info().Str("action", string(sig.Action)).Int("score", sig.Score).Float64("price", price).Msg("trading signal")

	if !b.cfg.Limits.Allow(b.cfg.OrderQuantity) {
		b.log.Warn().Float64("quantity", b.cfg.OrderQuantity).Msg("order blocked by notional limit")
		return
	}

	result, err := b.trader.ExecuteMarketOrder(ctx, b.cfg.TargetMint, sig.Action.Side(), b.cfg.OrderQuantity)
	outcome := "ok"
	if err != nil || result == nil || !result.Succeeded {
		outcome = "failed"
		b.log.Error().Err(err).Msg("signal order failed")
	} else {
		b.log.Info().Str("signature", result.Signature).Msg("signal order submitted")
	}
	metrics.OrdersTotal.WithLabelValues("strategy", outcome).Inc()

	context := map[string]any{
		"signal": string(sig.Action),
		"score":  sig.Score,
		"price":  price,
		"mint":   b.cfg.TargetMint,
	}
	if err != nil {
		context["error"] = err.Error()
	}
	entry := store.NewTradeLog("StrategySignalOrder", context, result)
	if err := b.sink.StoreTradeLog(ctx, entry); err != nil {
		b.log.Warn().Err(err).Msg("failed to store trade log")
	}
}
