package monitor

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/abderahmentrabelsi/solana-bot/internal/execution"
	"github.com/abderahmentrabelsi/solana-bot/internal/metrics"
	"github.com/abderahmentrabelsi/solana-bot/internal/signal"
	"github.com/abderahmentrabelsi/solana-bot/internal/store"
)

// mintEventMarker tags the program log lines announcing a fresh token mint.
const mintEventMarker = "TokenMinted"

const defaultTradeAmount = 1000

// MintEvent is a parsed token-mint announcement.
type MintEvent struct {
	Mint          string
	Symbol        string
	InitialSupply float64
	TradeAmount   float64
	Fields        map[string]string
}

// parseMintEvent decodes a pipe-delimited key=value log line. Segments without
// an '=' are skipped individually; the line as a whole only fails when no mint
// address survives.
func parseMintEvent(line string, log zerolog.Logger) (*MintEvent, error) {
	fields := make(map[string]string)
	parts := strings.Split(line, "|")
	for _, part := range parts[1:] {
		key, value, found := strings.Cut(part, "=")
		if !found {
			log.Debug().Str("segment", part).Msg("skipping malformed log segment")
			continue
		}
		fields[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	if fields["mint"] == "" {
		return nil, fmt.Errorf("mint event without mint address")
	}

	event := &MintEvent{
		Mint:        fields["mint"],
		Symbol:      fields["symbol"],
		TradeAmount: defaultTradeAmount,
		Fields:      fields,
	}
	if raw := fields["initial_supply"]; raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			event.InitialSupply = v
		}
	}
	if raw := fields["trade_amount"]; raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			event.TradeAmount = v
		}
	}
	return event, nil
}

// MintScanner watches mint events and buys qualifying meme coins at most once
// per mint for the process lifetime.
type MintScanner struct {
	stream    logStream
	trader    execution.Trader
	sink      store.Sink
	threshold float64
	keyword   string
	seen      map[string]struct{} // touched only by the scanner's own goroutine
	log       zerolog.Logger
}

// NewMintScanner builds a scanner over the given subscription parameters.
func NewMintScanner(wsURL, program, commitment string, retryDelay time.Duration, threshold float64, keyword string, trader execution.Trader, sink store.Sink, log zerolog.Logger) *MintScanner {
	log = log.With().Str("component", "mint-scanner").Logger()
	return &MintScanner{
		stream:    newLogStream(wsURL, []string{program}, commitment, retryDelay, log),
		trader:    trader,
		sink:      sink,
		threshold: threshold,
		keyword:   strings.ToUpper(keyword),
		seen:      make(map[string]struct{}),
		log:       log,
	}
}

// Name identifies the monitor in supervisor logs.
func (s *MintScanner) Name() string { return "mint-scanner" }

// Run blocks until ctx is canceled.
func (s *MintScanner) Run(ctx context.Context) error {
	return s.stream.run(ctx, s.handle)
}

func (s *MintScanner) handle(ctx context.Context, value logsValue) {
	for _, line := range value.Logs {
		if !strings.Contains(line, mintEventMarker) {
			continue
		}
		event, err := parseMintEvent(line, s.log)
		if err != nil {
			s.log.Debug().Err(err).Str("line", line).Msg("unusable mint event")
			continue
		}
		if _, dup := s.seen[event.Mint]; dup {
			continue
		}
		s.seen[event.Mint] = struct{}{}

		if !s.qualifies(event) {
			s.log.Debug().Str("mint", event.Mint).Str("symbol", event.Symbol).Msg("mint event rejected by filter")
			continue
		}
		s.trade(ctx, event)
	}
}

// qualifies applies the liquidity proxy and meme keyword filter.
func (s *MintScanner) qualifies(event *MintEvent) bool {
	liquidity := event.InitialSupply * event.TradeAmount
	return liquidity < s.threshold && strings.Contains(strings.ToUpper(event.Symbol), s.keyword)
}

func (s *MintScanner) trade(ctx context.Context, event *MintEvent) {
	s.log.Info().Str("mint", event.Mint).Str("symbol", event.Symbol).Msg("candidate mint qualified")

	result, err := s.trader.ExecuteMarketOrder(ctx, event.Mint, signal.SideBuy, event.TradeAmount)
	outcome := "ok"
	if err != nil || result == nil || !result.Succeeded {
		outcome = "failed"
		s.log.Error().Err(err).Str("mint", event.Mint).Msg("market order failed")
	} else {
		s.log.Info().Str("mint", event.Mint).Str("signature", result.Signature).Msg("market order submitted")
	}
	metrics.OrdersTotal.WithLabelValues("mint", outcome).Inc()

	context := map[string]any{"mint": event.Mint, "symbol": event.Symbol, "fields": event.Fields}
	if err != nil {
		context["error"] = err.Error()
	}
	entry := store.NewTradeLog("MemeCoinMarketOrder", context, result)
	if err := s.sink.StoreTradeLog(ctx, entry); err != nil {
		s.log.Warn().Err(err).Msg("failed to store trade log")
	}
}
