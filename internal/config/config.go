// Package config exposes strongly typed application configuration structs loaded from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// App captures process-wide runtime settings such as name, environment, metrics, and logging levels.
type App struct {
	Name        string `yaml:"name"`
	Env         string `yaml:"env"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
}

// Solana defines network endpoints and defaults for on-chain connectivity.
type Solana struct {
	RpcURL       string `yaml:"rpc_url"`
	WsURL        string `yaml:"ws_url"`
	Commitment   string `yaml:"commitment"`    // processed|confirmed|finalized
	TokenProgram string `yaml:"token_program"` // program id the log subscriptions mention
	BaseMint     string `yaml:"base_mint"`     // wrapped SOL
}

// Jupiter configures the swap aggregator endpoints and slippage policy.
type Jupiter struct {
	BaseURL               string `yaml:"base_url"`
	APIKey                string `yaml:"api_key"`
	SlippageBps           int    `yaml:"slippage_bps"`
	DynamicSlippageMaxBps int    `yaml:"dynamic_slippage_max_bps"`
}

// Database holds the TimescaleDB/Postgres connection settings.
type Database struct {
	URL      string `yaml:"url"`
	MaxConns int    `yaml:"max_conns"`
}

// Scanner groups the knobs shared by the opportunity monitors.
type Scanner struct {
	TrendingEndpoint   string  `yaml:"trending_endpoint"`
	PollIntervalMs     int     `yaml:"poll_interval_ms"`
	ReconnectDelayMs   int     `yaml:"reconnect_delay_ms"`
	LiquidityThreshold float64 `yaml:"liquidity_threshold"`
	MemeKeyword        string  `yaml:"meme_keyword"`
}

// Strategy configures the signal loop.
type Strategy struct {
	LoopIntervalMs int     `yaml:"loop_interval_ms"`
	OrderQuantity  float64 `yaml:"order_quantity"`
	DefaultMint    string  `yaml:"default_mint"` // falls back to Solana.BaseMint when empty
}

// Risk encodes guard-rails for how much size the executor may take on.
type Risk struct {
	MaxNotionalPerTrade float64 `yaml:"max_notional_per_trade"`
}

// Config collects every configuration leaf for easy marshaling from YAML.
type Config struct {
	App      App      `yaml:"app"`
	Solana   Solana   `yaml:"solana"`
	Jupiter  Jupiter  `yaml:"jupiter"`
	Database Database `yaml:"database"`
	Scanner  Scanner  `yaml:"scanner"`
	Strategy Strategy `yaml:"strategy"`
	Risk     Risk     `yaml:"risk"`
}

// Load reads a YAML file from disk and hydrates a Config struct.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return &config, nil
}

// Save persists a Config struct to disk as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
