// Package solana implements the signing wallet, the Jupiter aggregator client,
// and the market-order executor.
package solana

import (
	"errors"
	"fmt"
	"os"

	solana "github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
)

// LoadPrivateKeyFromEnv decodes the base58 signing key. A missing or malformed
// key is a fatal bootstrap condition for the caller.
func LoadPrivateKeyFromEnv() (solana.PrivateKey, error) {
	_ = godotenv.Load() // best-effort
	b58 := os.Getenv("SOLANA_PRIVATE_KEY_BASE58")
	if b58 == "" {
		return nil, errors.New("SOLANA_PRIVATE_KEY_BASE58 not set")
	}
	key, err := solana.PrivateKeyFromBase58(b58)
	if err != nil {
		return nil, fmt.Errorf("decode private key: %w", err)
	}
	return key, nil
}
