// Package monitor hosts the long-running opportunity monitors: a log streamer,
// a mint-event scanner, and a trending-token poller. Each loop absorbs its own
// processing errors and terminates only on context cancellation.
package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const subscribeID = 1

type subscribeRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type wsError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// logsEnvelope covers both shapes the node sends: the subscription ack
// (correlated by id) and logsNotification messages.
type logsEnvelope struct {
	ID     int             `json:"id,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Method string          `json:"method,omitempty"`
	Params *logsParams     `json:"params,omitempty"`
	Error  *wsError        `json:"error,omitempty"`
}

type logsParams struct {
	Subscription int        `json:"subscription"`
	Result       logsResult `json:"result"`
}

type logsResult struct {
	Value logsValue `json:"value"`
}

type logsValue struct {
	Signature string   `json:"signature"`
	Err       any      `json:"err"`
	Logs      []string `json:"logs"`
}

// logStream maintains a logsSubscribe subscription, reconnecting with capped
// backoff on transport errors. Handlers absorb their own processing errors.
type logStream struct {
	url        string
	mentions   []string
	commitment string
	retryDelay time.Duration
	log        zerolog.Logger
}

const maxStreamBackoff = 30 * time.Second

func newLogStream(url string, mentions []string, commitment string, retryDelay time.Duration, log zerolog.Logger) logStream {
	if retryDelay <= 0 {
		retryDelay = 5 * time.Second
	}
	if commitment == "" {
		commitment = "processed"
	}
	return logStream{url: url, mentions: mentions, commitment: commitment, retryDelay: retryDelay, log: log}
}

func (s *logStream) run(ctx context.Context, handle func(ctx context.Context, value logsValue)) error {
	backoff := s.retryDelay
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := s.consume(ctx, handle); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.log.Warn().Err(err).Dur("backoff", backoff).Msg("log stream disconnected, retrying")
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			backoff = time.Duration(math.Min(float64(maxStreamBackoff), float64(backoff)*1.8))
			continue
		}
		return nil
	}
}

func (s *logStream) consume(ctx context.Context, handle func(ctx context.Context, value logsValue)) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	// unblock the read loop when the context is canceled
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	conn.SetReadLimit(1 << 20)

	sub := subscribeRequest{
		JSONRPC: "2.0",
		ID:      subscribeID,
		Method:  "logsSubscribe",
		Params: []any{
			map[string]any{"mentions": s.mentions},
			map[string]any{"commitment": s.commitment},
		},
	}
	if err := conn.WriteJSON(sub); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	for {
		var env logsEnvelope
		if err := conn.ReadJSON(&env); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		switch {
		case env.Error != nil:
			return fmt.Errorf("subscription error %d: %s", env.Error.Code, env.Error.Message)
		case env.ID == subscribeID && len(env.Result) > 0:
			s.log.Info().RawJSON("subscription", env.Result).Msg("log subscription acknowledged")
		case env.Method == "logsNotification" && env.Params != nil:
			handle(ctx, env.Params.Result.Value)
		default:
			s.log.Debug().Msg("ignoring unrecognized stream message")
		}
	}
}
