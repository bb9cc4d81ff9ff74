package monitor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/abderahmentrabelsi/solana-bot/internal/execution"
	"github.com/abderahmentrabelsi/solana-bot/internal/metrics"
	"github.com/abderahmentrabelsi/solana-bot/internal/signal"
	"github.com/abderahmentrabelsi/solana-bot/internal/store"
)

// flexAmount decodes a figure the endpoint serves either as a JSON number or a
// quoted string.
type flexAmount float64

func (f *flexAmount) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(bytes.TrimSpace(data), `"`)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("parse amount %q: %w", data, err)
	}
	*f = flexAmount(v)
	return nil
}

type trendingToken struct {
	TokenAddress string     `json:"tokenAddress"`
	TotalAmount  flexAmount `json:"totalAmount"`
}

// TrendingScanner polls the trending-token endpoint and buys qualifying
// candidates at most once per token for the process lifetime.
type TrendingScanner struct {
	endpoint  string
	interval  time.Duration
	threshold float64
	quantity  float64
	client    *http.Client
	trader    execution.Trader
	sink      store.Sink
	seen      map[string]struct{} // touched only by the scanner's own goroutine
	log       zerolog.Logger
}

// NewTrendingScanner builds a poller over the given endpoint.
func NewTrendingScanner(endpoint string, interval time.Duration, threshold, quantity float64, trader execution.Trader, sink store.Sink, log zerolog.Logger) *TrendingScanner {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &TrendingScanner{
		endpoint:  endpoint,
		interval:  interval,
		threshold: threshold,
		quantity:  quantity,
		client:    &http.Client{Timeout: 10 * time.Second},
		trader:    trader,
		sink:      sink,
		seen:      make(map[string]struct{}),
		log:       log.With().Str("component", "trending-scanner").Logger(),
	}
}

// Name identifies the monitor in supervisor logs.
func (s *TrendingScanner) Name() string { return "trending-scanner" }

// Run polls immediately, then on the configured interval, until ctx is canceled.
func (s *TrendingScanner) Run(ctx context.Context) error {
	if err := s.poll(ctx); err != nil && !errors.Is(err, context.Canceled) {
		s.log.Warn().Err(err).Msg("trending poll failed")
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.poll(ctx); err != nil && !errors.Is(err, context.Canceled) {
				s.log.Warn().Err(err).Msg("trending poll failed")
			}
		}
	}
}

func (s *TrendingScanner) poll(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch trending: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("trending endpoint status %d", resp.StatusCode)
	}

	var tokens []trendingToken
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return fmt.Errorf("decode trending response: %w", err)
	}
	if len(tokens) == 0 {
		s.log.Warn().Msg("no trending tokens in response")
		return nil
	}

	for _, token := range tokens {
		if token.TokenAddress == "" {
			continue
		}
		if _, dup := s.seen[token.TokenAddress]; dup {
			continue
		}
		s.seen[token.TokenAddress] = struct{}{}

		amount := float64(token.TotalAmount)
		if amount <= 0 || amount >= s.threshold {
			s.log.Debug().Str("token", token.TokenAddress).Float64("total_amount", amount).Msg("token below qualification bar")
			continue
		}
		s.trade(ctx, token, amount)
	}
	return nil
}

func (s *TrendingScanner) trade(ctx context.Context, token trendingToken, amount float64) {
	s.log.Info().Str("token", token.TokenAddress).Float64("total_amount", amount).Msg("candidate token found")

	result, err := s.trader.ExecuteMarketOrder(ctx, token.TokenAddress, signal.SideBuy, s.quantity)
	outcome := "ok"
	if err != nil || result == nil || !result.Succeeded {
		outcome = "failed"
		s.log.Error().Err(err).Str("token", token.TokenAddress).Msg("market order failed")
	} else {
		s.log.Info().Str("token", token.TokenAddress).Str("signature", result.Signature).Msg("market order submitted")
	}
	metrics.OrdersTotal.WithLabelValues("trending", outcome).Inc()

	context := map[string]any{"token_address": token.TokenAddress, "total_amount": amount}
	if err != nil {
		context["error"] = err.Error()
	}
	entry := store.NewTradeLog("TrendingMarketOrder", context, result)
	if err := s.sink.StoreTradeLog(ctx, entry); err != nil {
		s.log.Warn().Err(err).Msg("failed to store trade log")
	}
}
