// Package strategy turns a bounded price history into discrete trading signals.
package strategy

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/abderahmentrabelsi/solana-bot/internal/signal"
)

const (
	historyLimit    = 1000
	minObservations = 30

	smaPeriod  = 30
	rsiPeriod  = 14
	bandPeriod = 20
	bandWidth  = 2.0
	macdFast   = 12
	macdSlow   = 26
	macdSignal = 9

	buyThreshold  = 2
	sellThreshold = -2
)

// Engine accumulates observed prices and scores four indicators into a signal.
// The history is owned by the strategy loop; the mutex only guards against
// accidental cross-goroutine use.
type Engine struct {
	log    zerolog.Logger
	mu     sync.Mutex
	prices []float64
}

// NewEngine returns an Engine with an empty history.
func NewEngine(log zerolog.Logger) *Engine {
	return &Engine{
		log:    log.With().Str("component", "strategy").Logger(),
		prices: make([]float64, 0, historyLimit),
	}
}

// UpdatePrice appends an observation, evicting the oldest once the history is full.
func (e *Engine) UpdatePrice(price float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.prices) == historyLimit {
		copy(e.prices, e.prices[1:])
		e.prices[historyLimit-1] = price
		return
	}
	e.prices = append(e.prices, price)
}

// Len reports the number of retained observations.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.prices)
}

// Generate evaluates the retained window and returns a signal, or nil when the
// window is too small or the indicator votes do not reach a threshold. It is a
// pure read of the history.
func (e *Engine) Generate() *signal.Signal {
	e.mu.Lock()
	window := make([]float64, len(e.prices))
	copy(window, e.prices)
	e.mu.Unlock()

	if len(window) < minObservations {
		return nil
	}

	price := window[len(window)-1]
	avg, _ := sma(window, smaPeriod)
	rsi, _ := wilderRSI(window, rsiPeriod)
	upper, lower, _ := bollinger(window, bandPeriod, bandWidth)
	hist, histOK := macdHistogram(window, macdFast, macdSlow, macdSignal)

	score := 0
	switch {
	case price < lower:
		score++
	case price > upper:
		score--
	}
	switch {
	case rsi < 30:
		score++
	case rsi > 70:
		score--
	}
	if histOK {
		switch {
		case hist > 0:
			score++
		case hist < 0:
			score--
		}
	}
	switch {
	case price > avg:
		score++
	case price < avg:
		score--
	}

	e.log.Debug().
		Float64("price", price).
		Float64("sma", avg).
		Float64("rsi", rsi).
		Float64("upper_band", upper).
		Float64("lower_band", lower).
		Float64("macd_hist", hist).
		Int("score", score).
		Msg("indicators evaluated")

	switch {
	case score >= buyThreshold:
		return &signal.Signal{Action: signal.Buy, Price: price, Score: score, Ts: time.Now().UTC()}
	case score <= sellThreshold:
		return &signal.Signal{Action: signal.Sell, Price: price, Score: score, Ts: time.Now().UTC()}
	default:
		return nil
	}
}
