// Package postgres implements the store.Sink contract on TimescaleDB/PostgreSQL via pgx.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/abderahmentrabelsi/solana-bot/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS market_observations (
	id BIGSERIAL PRIMARY KEY,
	ts TIMESTAMPTZ NOT NULL DEFAULT now(),
	payload JSONB NOT NULL
);
CREATE TABLE IF NOT EXISTS trade_logs (
	id BIGSERIAL PRIMARY KEY,
	ts TIMESTAMPTZ NOT NULL DEFAULT now(),
	event TEXT NOT NULL,
	entry JSONB NOT NULL
);`

// Store persists observations and trade logs through a shared pgx pool. The
// pool is safe for concurrent use by every loop.
type Store struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// NormalizeURL rewrites the postgres:// scheme variant some providers hand out.
func NormalizeURL(url string) string {
	if strings.HasPrefix(url, "postgresql://") {
		return "postgres://" + strings.TrimPrefix(url, "postgresql://")
	}
	return url
}

// Connect opens the pool and ensures both tables exist.
func Connect(ctx context.Context, url string, maxConns int, log zerolog.Logger) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(NormalizeURL(url))
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = int32(maxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ensure tables: %w", err)
	}
	return &Store{pool: pool, log: log.With().Str("component", "store").Logger()}, nil
}

// StoreObservation appends one market observation.
func (s *Store) StoreObservation(ctx context.Context, payload map[string]any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("postgres: marshal observation: %w", err)
	}
	if _, err := s.pool.Exec(ctx, `INSERT INTO market_observations (payload) VALUES ($1)`, data); err != nil {
		return fmt.Errorf("postgres: store observation: %w", err)
	}
	return nil
}

// StoreTradeLog appends one trade-log entry.
func (s *Store) StoreTradeLog(ctx context.Context, entry store.TradeLog) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("postgres: marshal trade log: %w", err)
	}
	if _, err := s.pool.Exec(ctx, `INSERT INTO trade_logs (ts, event, entry) VALUES ($1, $2, $3)`, entry.Ts, entry.Event, data); err != nil {
		return fmt.Errorf("postgres: store trade log %s: %w", entry.Event, err)
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
	s.log.Info().Msg("store closed")
}
