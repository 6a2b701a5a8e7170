package analytics

import (
	"GoldCast/internal/domain/models"
	domsvc "GoldCast/internal/domain/service"
)

const defaultReturnVol = 0.01

// VolatilityPredictor leans against a recent volatility expansion.
type VolatilityPredictor struct{}

func NewVolatilityPredictor() *VolatilityPredictor { return &VolatilityPredictor{} }

func (p *VolatilityPredictor) Name() models.PredictorName { return models.PredictorVolatility }

func (p *VolatilityPredictor) Predict(window []models.PricePoint) (res models.Result[models.ComponentPrediction]) {
	defer models.Guard(fallbackPrediction(p.Name(), window), &res)

	if len(window) == 0 {
		return models.Fallback(fallbackPrediction(p.Name(), window), models.ErrInsufficientData)
	}
	prices := models.Prices(window)
	current := prices[len(prices)-1]

	returns := SimpleReturns(prices)
	overall, recent := defaultReturnVol, defaultReturnVol
	if len(returns) > 1 {
		overall = SampleStd(returns)
		recent = SampleStd(Tail(returns, 5))
	}
	change := recent - overall
	signal := Clamp(-0.5*change, -0.003, 0.003)

	return finish(p.Name(), window, models.ComponentPrediction{
		Predictor:       p.Name(),
		PredictedPrice:  current * (1 + signal),
		LocalConfidence: max(0.2, 0.8-overall*50),
		Components: map[string]float64{
			"volatility":        overall,
			"volatility_change": change,
		},
	})
}

var _ domsvc.Predictor = (*VolatilityPredictor)(nil)
