package monitor

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/abderahmentrabelsi/solana-bot/internal/metrics"
	"github.com/abderahmentrabelsi/solana-bot/internal/store"
)

// MarketStream persists every program log line it receives. It never trades;
// it shares the subscription/reconnect shape with the mint scanner.
type MarketStream struct {
	stream logStream
	sink   store.Sink
	log    zerolog.Logger
}

// NewMarketStream subscribes to logs mentioning the given program.
func NewMarketStream(wsURL, program, commitment string, retryDelay time.Duration, sink store.Sink, log zerolog.Logger) *MarketStream {
	log = log.With().Str("component", "market-stream").Logger()
	return &MarketStream{
		stream: newLogStream(wsURL, []string{program}, commitment, retryDelay, log),
		sink:   sink,
		log:    log,
	}
}

// Name identifies the monitor in supervisor logs.
func (m *MarketStream) Name() string { return "market-stream" }

// Run blocks until ctx is canceled.
func (m *MarketStream) Run(ctx context.Context) error {
	return m.stream.run(ctx, m.handle)
}

func (m *MarketStream) handle(ctx context.Context, value logsValue) {
	for _, line := range value.Logs {
		payload := map[string]any{"signature": value.Signature, "log": line}
		if err := m.sink.StoreObservation(ctx, payload); err != nil {
			m.log.Warn().Err(err).Msg("failed to store observation")
			continue
		}
		metrics.ObservationsTotal.Inc()
	}
}
