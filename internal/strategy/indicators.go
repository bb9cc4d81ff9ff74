package strategy

import "math"

// sma returns the simple moving average of the trailing period.
func sma(values []float64, period int) (float64, bool) {
	if period <= 0 || len(values) < period {
		return 0, false
	}
	var sum float64
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period), true
}

// wilderRSI computes a Wilder-smoothed relative strength index over the whole
// series: the first `period` deltas seed the averages, the rest are smoothed in.
func wilderRSI(values []float64, period int) (float64, bool) {
	if period <= 0 || len(values) < period+1 {
		return 0, false
	}

	var gain, loss float64
	for i := 1; i <= period; i++ {
		delta := values[i] - values[i-1]
		if delta > 0 {
			gain += delta
		} else {
			loss -= delta
		}
	}
	avgGain := gain / float64(period)
	avgLoss := loss / float64(period)

	for i := period + 1; i < len(values); i++ {
		delta := values[i] - values[i-1]
		var g, l float64
		if delta > 0 {
			g = delta
		} else {
			l = -delta
		}
		avgGain = (avgGain*float64(period-1) + g) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + l) / float64(period)
	}

	if avgLoss == 0 {
		return 100, true
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), true
}

// bollinger returns the upper and lower bands over the trailing period using
// population variance, width standard deviations out.
func bollinger(values []float64, period int, width float64) (upper, lower float64, ok bool) {
	mean, ok := sma(values, period)
	if !ok {
		return 0, 0, false
	}
	var variance float64
	for _, v := range values[len(values)-period:] {
		d := v - mean
		variance += d * d
	}
	variance /= float64(period)
	dev := width * math.Sqrt(variance)
	return mean + dev, mean - dev, true
}

// emaSeries computes an exponential moving average seeded with the simple
// average of the first period values. Entries before index period-1 are
// undefined and left zero.
func emaSeries(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if period <= 0 || len(values) < period {
		return out
	}
	var seed float64
	for _, v := range values[:period] {
		seed += v
	}
	out[period-1] = seed / float64(period)
	alpha := 2 / float64(period+1)
	for i := period; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// macdHistogram returns the latest MACD histogram value. The window must cover
// the slow EMA plus a full seed for the signal line, otherwise ok is false.
func macdHistogram(values []float64, fast, slow, signalPeriod int) (float64, bool) {
	if len(values) < slow+signalPeriod-1 {
		return 0, false
	}
	emaFast := emaSeries(values, fast)
	emaSlow := emaSeries(values, slow)

	macd := make([]float64, 0, len(values)-slow+1)
	for i := slow - 1; i < len(values); i++ {
		macd = append(macd, emaFast[i]-emaSlow[i])
	}
	signalLine := emaSeries(macd, signalPeriod)
	return macd[len(macd)-1] - signalLine[len(signalLine)-1], true
}
