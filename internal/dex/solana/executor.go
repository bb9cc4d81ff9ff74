package solana

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"

	bin "github.com/gagliardetto/binary"
	solana "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"

	"github.com/abderahmentrabelsi/solana-bot/internal/execution"
	"github.com/abderahmentrabelsi/solana-bot/internal/signal"
)

// tokenDecimals is assumed for every traded mint. Real decimals are not
// queried per token; revisit if the bot ever trades 9-decimal mints.
const tokenDecimals = 6

// Executor turns market-order requests into signed, submitted swaps:
// quote, route selection, build, decode, sign, serialize, broadcast. Stages are
// strictly sequential and nothing is retried; independent invocations may run
// concurrently.
type Executor struct {
	jupiter *JupiterClient
	rpc     *rpc.Client
	owner   solana.PrivateKey
	commit  rpc.CommitmentType

	baseMint              string
	slippageBps           int
	dynamicSlippageMaxBps int
	log                   zerolog.Logger
}

// ExecutorConfig bundles the executor's construction parameters.
type ExecutorConfig struct {
	RpcURL                string
	Commitment            string // processed|confirmed|finalized
	BaseMint              string
	SlippageBps           int
	DynamicSlippageMaxBps int
}

// NewExecutor wires a Jupiter client and an RPC broadcaster around the signing key.
func NewExecutor(cfg ExecutorConfig, jupiter *JupiterClient, owner solana.PrivateKey, log zerolog.Logger) *Executor {
	commit := rpc.CommitmentConfirmed
	switch cfg.Commitment {
	case "processed":
		commit = rpc.CommitmentProcessed
	case "finalized":
		commit = rpc.CommitmentFinalized
	}
	return &Executor{
		jupiter:               jupiter,
		rpc:                   rpc.New(cfg.RpcURL),
		owner:                 owner,
		commit:                commit,
		baseMint:              cfg.BaseMint,
		slippageBps:           cfg.SlippageBps,
		dynamicSlippageMaxBps: cfg.DynamicSlippageMaxBps,
		log:                   log.With().Str("component", "executor").Logger(),
	}
}

// PublicKey exposes the signing identity.
func (e *Executor) PublicKey() solana.PublicKey { return e.owner.PublicKey() }

// ExecuteMarketOrder swaps base currency into mint (buy) or mint back into
// base currency (sell). quantity is a human amount converted with the fixed
// decimal assumption. A nil Result with an error means the order never reached
// the broadcast stage; a Result with Succeeded=false means the broadcast was
// attempted and rejected.
func (e *Executor) ExecuteMarketOrder(ctx context.Context, mint string, side signal.Side, quantity float64) (*execution.Result, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("non-positive quantity %f", quantity)
	}
	units := uint64(math.Round(quantity * math.Pow10(tokenDecimals)))

	inputMint, outputMint := e.baseMint, mint
	if side == signal.SideSell {
		inputMint, outputMint = mint, e.baseMint
	}
	e.log.Info().
		Str("side", string(side)).
		Str("input_mint", inputMint).
		Str("output_mint", outputMint).
		Float64("quantity", quantity).
		Uint64("units", units).
		Msg("executing market order")

	return e.executeSwap(ctx, inputMint, outputMint, units)
}

func (e *Executor) executeSwap(ctx context.Context, inputMint, outputMint string, amount uint64) (*execution.Result, error) {
	quote, err := e.jupiter.GetQuote(ctx, inputMint, outputMint, amount, e.slippageBps)
	if err != nil {
		return nil, fmt.Errorf("quote: %w", err)
	}
	route, err := quote.BestRoute()
	if err != nil {
		return nil, err
	}

	encoded, err := e.jupiter.BuildSwap(ctx, route, e.owner.PublicKey().String(), e.dynamicSlippageMaxBps)
	if err != nil {
		return nil, fmt.Errorf("build swap: %w", err)
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode tx: %w", err)
	}
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return nil, fmt.Errorf("unmarshal tx: %w", err)
	}

	if _, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(e.owner.PublicKey()) {
			return &e.owner
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("sign: %w", err)
	}

	signed, err := tx.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("serialize: %w", err)
	}

	sig, err := e.rpc.SendRawTransactionWithOpts(ctx, signed, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: e.commit,
	})
	if err != nil {
		e.log.Error().Err(err).Msg("broadcast rejected")
		return &execution.Result{Succeeded: false, Detail: err.Error()}, nil
	}
	if sig.IsZero() {
		e.log.Error().Msg("broadcast returned no signature")
		return &execution.Result{Succeeded: false, Detail: "no signature returned"}, nil
	}

	e.log.Info().Str("signature", sig.String()).Msg("swap submitted")
	return &execution.Result{Succeeded: true, Signature: sig.String()}, nil
}
