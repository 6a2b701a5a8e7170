package analytics

import (
	"GoldCast/internal/domain/models"
	domsvc "GoldCast/internal/domain/service"
)

const (
	patternRun      = 0.002
	patternReversal = 0.001
	patternWindow   = 5
)

// PatternPredictor detects monotonic runs and local reversals over the last five prices.
type PatternPredictor struct{}

func NewPatternPredictor() *PatternPredictor { return &PatternPredictor{} }

func (p *PatternPredictor) Name() models.PredictorName { return models.PredictorPattern }

func (p *PatternPredictor) Predict(window []models.PricePoint) (res models.Result[models.ComponentPrediction]) {
	defer models.Guard(fallbackPrediction(p.Name(), window), &res)

	if len(window) == 0 {
		return models.Fallback(fallbackPrediction(p.Name(), window), models.ErrInsufficientData)
	}
	prices := models.Prices(window)
	current := prices[len(prices)-1]

	signal := PatternSignal(prices)

	return finish(p.Name(), window, models.ComponentPrediction{
		Predictor:       p.Name(),
		PredictedPrice:  current * (1 + signal),
		LocalConfidence: min(0.6, abs(signal)*200+0.2),
		Components: map[string]float64{
			"pattern_signal": signal,
		},
	})
}

// PatternSignal classifies the last five prices. Runs must be strictly monotonic.
func PatternSignal(prices []float64) float64 {
	if len(prices) < patternWindow {
		return 0
	}
	r := prices[len(prices)-patternWindow:]

	rising, falling := true, true
	for i := 0; i < len(r)-1; i++ {
		if !(r[i] < r[i+1]) {
			rising = false
		}
		if !(r[i] > r[i+1]) {
			falling = false
		}
	}
	switch {
	case rising:
		return patternRun
	case falling:
		return -patternRun
	}

	last, prev, prev2 := r[4], r[3], r[2]
	switch {
	case last > prev && prev < prev2:
		return patternReversal
	case last < prev && prev > prev2:
		return -patternReversal
	}
	return 0
}

var _ domsvc.Predictor = (*PatternPredictor)(nil)
