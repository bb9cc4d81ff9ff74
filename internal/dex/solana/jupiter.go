package solana

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// JupiterClient talks to the aggregator's quote and swap-build endpoints. It
// never touches the chain; signing and submission belong to the Executor.
type JupiterClient struct {
	Base   string
	APIKey string
	Http   *http.Client
}

// QuoteResponse carries the ranked route proposals for one swap, best first.
// Routes stay opaque: they are handed back to the swap builder verbatim.
type QuoteResponse struct {
	InputMint  string            `json:"inputMint"`
	OutputMint string            `json:"outputMint"`
	InAmount   string            `json:"inAmount"`
	Routes     []json.RawMessage `json:"routes"`
}

// BestRoute returns the first route of the response.
func (q *QuoteResponse) BestRoute() (json.RawMessage, error) {
	if q == nil || len(q.Routes) == 0 {
		return nil, fmt.Errorf("no swap routes found")
	}
	return q.Routes[0], nil
}

// NewJupiterClient builds a client for the given base URL, e.g.
// https://api.jup.ag/swap/v1. The API key is optional.
func NewJupiterClient(base, apiKey string) *JupiterClient {
	return &JupiterClient{
		Base:   base,
		APIKey: apiKey,
		Http:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (j *JupiterClient) setHeaders(req *http.Request) {
	if j.APIKey != "" {
		req.Header.Set("X-API-Key", j.APIKey)
	}
}

// GetQuote requests route proposals. amount is in smallest units (lamports for
// SOL; token decimals apply).
func (j *JupiterClient) GetQuote(ctx context.Context, inputMint, outputMint string, amount uint64, slippageBps int) (*QuoteResponse, error) {
	q := url.Values{}
	q.Set("inputMint", inputMint)
	q.Set("outputMint", outputMint)
	q.Set("amount", strconv.FormatUint(amount, 10))
	q.Set("slippageBps", strconv.Itoa(slippageBps))
	u := j.Base + "/quote?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("quote request: %w", err)
	}
	j.setHeaders(req)
	resp, err := j.Http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quote request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jupiter quote status %d", resp.StatusCode)
	}
	var out QuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode quote: %w", err)
	}
	return &out, nil
}

// BuildSwap asks the aggregator to assemble an unsigned transaction for the
// chosen route and returns it base64-encoded.
func (j *JupiterClient) BuildSwap(ctx context.Context, route json.RawMessage, userPublicKey string, dynamicSlippageMaxBps int) (string, error) {
	payload := map[string]any{
		"route":           route,
		"userPublicKey":   userPublicKey,
		"wrapUnwrapSOL":   true,
		"dynamicSlippage": map[string]int{"maxBps": dynamicSlippageMaxBps},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal swap payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, j.Base+"/swap", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("swap request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	j.setHeaders(req)
	resp, err := j.Http.Do(req)
	if err != nil {
		return "", fmt.Errorf("swap request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("jupiter swap status %d", resp.StatusCode)
	}

	var sr struct {
		SwapTransaction string `json:"swapTransaction"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", fmt.Errorf("decode swap response: %w", err)
	}
	if sr.SwapTransaction == "" {
		return "", fmt.Errorf("swap transaction not received")
	}
	return sr.SwapTransaction, nil
}
