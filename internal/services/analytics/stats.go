package analytics

import "math"

// SimpleReturns computes r_t = (P_t - P_{t-1}) / P_{t-1}.
// It returns a slice of length len(prices)-1, or nil if insufficient data.
// A non-positive previous price contributes a zero return.
func SimpleReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}
	out := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		prev := prices[i-1]
		if prev <= 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, (prices[i]-prev)/prev)
	}
	return out
}

// Mean of xs; 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// SampleStd is the n-1 standard deviation; 0 when fewer than two values.
func SampleStd(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	m := Mean(xs)
	ss := 0.0
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	v := ss / float64(n-1)
	if v < 0 {
		v = 0
	}
	return math.Sqrt(v)
}

// Tail returns the last n values (all of xs when shorter).
func Tail(xs []float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if len(xs) <= n {
		return xs
	}
	return xs[len(xs)-n:]
}

// SMA is the mean of the last period values. ok is false if there are fewer values.
func SMA(xs []float64, period int) (float64, bool) {
	if period <= 0 || len(xs) < period {
		return 0, false
	}
	return Mean(xs[len(xs)-period:]), true
}

// RollingStd is the sample std of the last window values. ok is false if there are fewer values.
func RollingStd(xs []float64, window int) (float64, bool) {
	if window <= 1 || len(xs) < window {
		return 0, false
	}
	return SampleStd(xs[len(xs)-window:]), true
}

// MinMax of xs. Both are 0 for an empty slice.
func MinMax(xs []float64) (lo, hi float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	lo, hi = xs[0], xs[0]
	for _, x := range xs[1:] {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	return lo, hi
}

// Clamp v into [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RSIPeriod is the default RSI look-back.
const RSIPeriod = 14

// RSI computes a Wilder-smoothed relative strength index.
// It returns 50 when there are fewer than period+1 prices or when there was no movement at all.
func RSI(prices []float64, period int) float64 {
	if period <= 0 || len(prices) < period+1 {
		return 50
	}

	var gains, losses float64
	for i := 1; i <= period; i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}
	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	for i := period + 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	rsi := 100 - 100/(1+rs)
	if math.IsNaN(rsi) || math.IsInf(rsi, 0) {
		return 50
	}
	return rsi
}

func Finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
