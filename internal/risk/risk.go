// Package risk holds the admission guard-rails applied before order execution.
package risk

// Limits caps the size of a single order. It is the only cross-trade policy;
// concurrent detections from independent monitors are not serialized.
type Limits struct {
	MaxNotionalPerTrade float64
}

// Allow reports whether an order of the given notional may proceed.
func (l Limits) Allow(notional float64) bool {
	return notional <= l.MaxNotionalPerTrade
}
