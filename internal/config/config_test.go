package config

import (
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	path := filepath.Join("testdata", "config.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.App.Name != "solana-bot-test" {
		t.Fatalf("unexpected App.Name: %s", cfg.App.Name)
	}
	if cfg.App.MetricsAddr != ":9190" {
		t.Fatalf("unexpected App.MetricsAddr: %s", cfg.App.MetricsAddr)
	}
	if cfg.Solana.WsURL != "wss://ws.test" {
		t.Fatalf("unexpected Solana.WsURL: %s", cfg.Solana.WsURL)
	}
	if cfg.Solana.Commitment != "processed" {
		t.Fatalf("unexpected commitment: %s", cfg.Solana.Commitment)
	}
	if cfg.Solana.BaseMint != "So11111111111111111111111111111111111111112" {
		t.Fatalf("unexpected base mint: %s", cfg.Solana.BaseMint)
	}
	if cfg.Jupiter.BaseURL != "https://jup.test/swap/v1" {
		t.Fatalf("unexpected Jupiter.BaseURL: %s", cfg.Jupiter.BaseURL)
	}
	if cfg.Jupiter.APIKey != "secret-key" {
		t.Fatalf("unexpected Jupiter.APIKey: %s", cfg.Jupiter.APIKey)
	}
	if cfg.Jupiter.SlippageBps != 100 {
		t.Fatalf("unexpected slippage bps: %d", cfg.Jupiter.SlippageBps)
	}
	if cfg.Jupiter.DynamicSlippageMaxBps != 300 {
		t.Fatalf("unexpected dynamic slippage cap: %d", cfg.Jupiter.DynamicSlippageMaxBps)
	}
	if cfg.Database.MaxConns != 2 {
		t.Fatalf("unexpected database max conns: %d", cfg.Database.MaxConns)
	}
	if cfg.Scanner.TrendingEndpoint != "https://trending.test/top" {
		t.Fatalf("unexpected trending endpoint: %s", cfg.Scanner.TrendingEndpoint)
	}
	if cfg.Scanner.PollIntervalMs != 500 {
		t.Fatalf("unexpected poll interval: %d", cfg.Scanner.PollIntervalMs)
	}
	if cfg.Scanner.LiquidityThreshold != 20000 {
		t.Fatalf("unexpected liquidity threshold: %.2f", cfg.Scanner.LiquidityThreshold)
	}
	if cfg.Scanner.MemeKeyword != "MEME" {
		t.Fatalf("unexpected meme keyword: %s", cfg.Scanner.MemeKeyword)
	}
	if cfg.Strategy.LoopIntervalMs != 250 {
		t.Fatalf("unexpected strategy loop interval: %d", cfg.Strategy.LoopIntervalMs)
	}
	if cfg.Strategy.OrderQuantity != 100 {
		t.Fatalf("unexpected order quantity: %.2f", cfg.Strategy.OrderQuantity)
	}
	if cfg.Strategy.DefaultMint != "MemeMint1111111111111111111111111111111111" {
		t.Fatalf("unexpected default mint: %s", cfg.Strategy.DefaultMint)
	}
	if cfg.Risk.MaxNotionalPerTrade != 250 {
		t.Fatalf("unexpected max notional: %.2f", cfg.Risk.MaxNotionalPerTrade)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}
