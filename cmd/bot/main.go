package main

import (
	"context"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/abderahmentrabelsi/solana-bot/internal/bot"
	"github.com/abderahmentrabelsi/solana-bot/internal/config"
	dex "github.com/abderahmentrabelsi/solana-bot/internal/dex/solana"
	"github.com/abderahmentrabelsi/solana-bot/internal/metrics"
	"github.com/abderahmentrabelsi/solana-bot/internal/monitor"
	"github.com/abderahmentrabelsi/solana-bot/internal/risk"
	"github.com/abderahmentrabelsi/solana-bot/internal/store/postgres"
	"github.com/abderahmentrabelsi/solana-bot/internal/strategy"
	"github.com/abderahmentrabelsi/solana-bot/internal/util"
)

func main() {
	_ = godotenv.Load() // best-effort

	log := util.NewLogger("info")

	cfg, err := config.Load(getEnv("CONFIG_PATH", "internal/config/config.yaml"))
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	log = util.NewLogger(cfg.App.LogLevel)

	_ = metrics.Serve(cfg.App.MetricsAddr)
	log.Info().Str("addr", cfg.App.MetricsAddr).Msg("metrics up")

	ctx, cancel := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	key, err := dex.LoadPrivateKeyFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("wallet")
	}

	dbURL := getEnv("DATABASE_URL", cfg.Database.URL)
	if dbURL == "" {
		log.Fatal().Msg("DATABASE_URL not set")
	}
	db, err := postgres.Connect(ctx, dbURL, cfg.Database.MaxConns, log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	defer db.Close()

	jup := dex.NewJupiterClient(
		getEnv("JUPITER_BASE_URL", cfg.Jupiter.BaseURL),
		getEnv("JUPITER_API_KEY", cfg.Jupiter.APIKey),
	)
	exec := dex.NewExecutor(dex.ExecutorConfig{
		RpcURL:                getEnv("SOLANA_RPC_URL", cfg.Solana.RpcURL),
		Commitment:            getEnv("SOLANA_COMMITMENT", cfg.Solana.Commitment),
		BaseMint:              cfg.Solana.BaseMint,
		SlippageBps:           cfg.Jupiter.SlippageBps,
		DynamicSlippageMaxBps: cfg.Jupiter.DynamicSlippageMaxBps,
	}, jup, key, log)
	log.Info().Str("wallet", exec.PublicKey().String()).Msg("executor ready")

	wsURL := getEnv("SOLANA_WS_URL", cfg.Solana.WsURL)
	retry := time.Duration(cfg.Scanner.ReconnectDelayMs) * time.Millisecond
	poll := time.Duration(cfg.Scanner.PollIntervalMs) * time.Millisecond

	monitors := []bot.Monitor{
		monitor.NewMarketStream(wsURL, cfg.Solana.TokenProgram, cfg.Solana.Commitment, retry, db, log),
		monitor.NewMintScanner(wsURL, cfg.Solana.TokenProgram, cfg.Solana.Commitment, retry,
			cfg.Scanner.LiquidityThreshold, cfg.Scanner.MemeKeyword, exec, db, log),
		monitor.NewTrendingScanner(getEnv("TRENDING_ENDPOINT", cfg.Scanner.TrendingEndpoint), poll,
			cfg.Scanner.LiquidityThreshold, cfg.Strategy.OrderQuantity, exec, db, log),
	}

	targetMint := cfg.Strategy.DefaultMint
	if targetMint == "" {
		targetMint = cfg.Solana.BaseMint
	}

	b := bot.New(bot.Config{
		Interval:      time.Duration(cfg.Strategy.LoopIntervalMs) * time.Millisecond,
		OrderQuantity: cfg.Strategy.OrderQuantity,
		TargetMint:    targetMint,
		Limits:        risk.Limits{MaxNotionalPerTrade: cfg.Risk.MaxNotionalPerTrade},
	}, strategy.NewEngine(log), exec, db, nil, monitors, log)

	log.Info().Str("env", cfg.App.Env).Msg("bot started")
	if err := b.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("bot stopped")
	}
	log.Info().Msg("shutting down")
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
