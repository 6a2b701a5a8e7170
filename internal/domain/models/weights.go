package models

import "math"

// PredictorName identifies one of the four component predictors.
type PredictorName string

const (
	PredictorTechnical  PredictorName = "technical"
	PredictorMomentum   PredictorName = "momentum"
	PredictorVolatility PredictorName = "volatility"
	PredictorPattern    PredictorName = "pattern"
)

// PredictorNames lists the closed predictor set in a stable order.
var PredictorNames = [4]PredictorName{
	PredictorTechnical,
	PredictorMomentum,
	PredictorVolatility,
	PredictorPattern,
}

// Weights holds one weight per predictor. After Normalize the fields are
// non-negative and sum to 1.
type Weights struct {
	Technical  float64 `json:"technical"`
	Momentum   float64 `json:"momentum"`
	Volatility float64 `json:"volatility"`
	Pattern    float64 `json:"pattern"`
}

// DefaultWeights are the initial base weights.
func DefaultWeights() Weights {
	return Weights{Technical: 0.4, Momentum: 0.3, Volatility: 0.2, Pattern: 0.1}
}

// EqualWeights gives every predictor 0.25.
func EqualWeights() Weights {
	return Weights{Technical: 0.25, Momentum: 0.25, Volatility: 0.25, Pattern: 0.25}
}

// Get returns the weight of a predictor; ok is false for unknown names.
func (w Weights) Get(name PredictorName) (float64, bool) {
	switch name {
	case PredictorTechnical:
		return w.Technical, true
	case PredictorMomentum:
		return w.Momentum, true
	case PredictorVolatility:
		return w.Volatility, true
	case PredictorPattern:
		return w.Pattern, true
	}
	return 0, false
}

// With returns a copy with the named weight replaced. Unknown names are ignored.
func (w Weights) With(name PredictorName, v float64) Weights {
	switch name {
	case PredictorTechnical:
		w.Technical = v
	case PredictorMomentum:
		w.Momentum = v
	case PredictorVolatility:
		w.Volatility = v
	case PredictorPattern:
		w.Pattern = v
	}
	return w
}

// Sum of all four weights.
func (w Weights) Sum() float64 {
	return w.Technical + w.Momentum + w.Volatility + w.Pattern
}

// Normalize clamps negative or non-finite weights to zero and scales the rest to sum 1.
// A zero total yields EqualWeights.
func (w Weights) Normalize() Weights {
	clean := func(v float64) float64 {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return 0
		}
		return v
	}
	w = Weights{
		Technical:  clean(w.Technical),
		Momentum:   clean(w.Momentum),
		Volatility: clean(w.Volatility),
		Pattern:    clean(w.Pattern),
	}
	total := w.Sum()
	if total <= 0 {
		return EqualWeights()
	}
	return Weights{
		Technical:  w.Technical / total,
		Momentum:   w.Momentum / total,
		Volatility: w.Volatility / total,
		Pattern:    w.Pattern / total,
	}
}
