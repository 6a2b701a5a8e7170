package usecase

import (
	"GoldCast/internal/domain/models"
	"GoldCast/internal/services/analytics"
)

const (
	adaptSamples    = 5
	poorAccuracy    = 0.4
	correctAccuracy = 0.6
)

// regimeMultipliers are applied multiplicatively to the base weights.
func regimeMultipliers(r models.Regime) models.Weights {
	switch r {
	case models.RegimeHighVolatility:
		return models.Weights{Technical: 0.8, Momentum: 1, Volatility: 1.5, Pattern: 1}
	case models.RegimeTrending:
		return models.Weights{Technical: 1.3, Momentum: 1.2, Volatility: 0.7, Pattern: 1}
	case models.RegimeLowVolatility:
		return models.Weights{Technical: 1, Momentum: 1, Volatility: 0.6, Pattern: 1.4}
	default:
		return models.Weights{Technical: 1, Momentum: 1, Volatility: 1, Pattern: 1}
	}
}

// AdaptWeights biases the base weights toward the current regime. A poor recent
// accuracy (mean of the last five below 0.4) overrides the regime and resets to equal weights.
// On failure the base weights are returned unchanged.
func AdaptWeights(base models.Weights, c models.MarketConditions, history []float64) (res models.Result[models.Weights]) {
	defer models.Guard(base, &res)

	m := regimeMultipliers(c.Regime)
	w := models.Weights{
		Technical:  base.Technical * m.Technical,
		Momentum:   base.Momentum * m.Momentum,
		Volatility: base.Volatility * m.Volatility,
		Pattern:    base.Pattern * m.Pattern,
	}
	if len(history) >= adaptSamples && analytics.Mean(analytics.Tail(history, adaptSamples)) < poorAccuracy {
		w = models.EqualWeights()
	}
	if !analytics.Finite(w.Technical, w.Momentum, w.Volatility, w.Pattern) {
		return models.Fallback(base, models.ErrNonFinite)
	}
	return models.OK(w.Normalize())
}

// Combine is the weighted average of the component predicted prices. Entries with an
// unknown predictor or a non-finite price are skipped; the remaining weights are
// renormalized by their own total. No applicable weight yields the current price.
func Combine(preds []models.ComponentPrediction, w models.Weights, current float64) (res models.Result[float64]) {
	defer models.Guard(current, &res)

	var weighted, total float64
	for _, p := range preds {
		wt, ok := w.Get(p.Predictor)
		if !ok || !analytics.Finite(p.PredictedPrice) {
			continue
		}
		weighted += p.PredictedPrice * wt
		total += wt
	}
	if total <= 0 {
		return models.Fallback(current, models.ErrNoWeight)
	}
	out := weighted / total
	if !analytics.Finite(out) {
		return models.Fallback(current, models.ErrNonFinite)
	}
	return models.OK(out)
}
