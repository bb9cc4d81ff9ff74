// Package signal standardizes payloads shared between the strategy engine,
// the monitors, and the execution layer.
package signal

import "time"

// Action expresses the discrete trading decision produced by the strategy engine.
type Action string

const (
	// Buy indicates a long entry.
	Buy Action = "BUY"
	// Sell indicates an exit / short.
	Sell Action = "SELL"
)

// Side enumerates swap directions the executor understands.
type Side string

const (
	// SideBuy swaps the base currency into the target mint.
	SideBuy Side = "buy"
	// SideSell swaps the target mint back into the base currency.
	SideSell Side = "sell"
)

// Side maps an action onto the executor's swap direction.
func (a Action) Side() Side {
	if a == Sell {
		return SideSell
	}
	return SideBuy
}

// Signal is the output of one strategy evaluation.
type Signal struct {
	Action Action
	Price  float64
	Score  int
	Ts     time.Time
}
