package bot

import "math/rand"

// PriceSource feeds the strategy loop one observation per tick. Wiring a live
// market feed means implementing this interface; the bot does not care where
// prices come from.
type PriceSource interface {
	Next() float64
}

// RandomPriceSource emits uniform prices in [0, 100). It stands in when no
// live feed is configured, which keeps the signal loop exercised end to end.
type RandomPriceSource struct {
	rng *rand.Rand
}

// NewRandomPriceSource seeds an independent generator.
func NewRandomPriceSource() *RandomPriceSource {
	return &RandomPriceSource{rng: rand.New(rand.NewSource(rand.Int63()))}
}

// Next returns the next synthetic price.
func (r *RandomPriceSource) Next() float64 {
	return r.rng.Float64() * 100
}
