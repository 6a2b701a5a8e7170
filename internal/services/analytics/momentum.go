package analytics

import (
	"GoldCast/internal/domain/models"
	domsvc "GoldCast/internal/domain/service"
)

// MomentumPredictor extrapolates short and medium rate of change.
type MomentumPredictor struct{}

func NewMomentumPredictor() *MomentumPredictor { return &MomentumPredictor{} }

func (p *MomentumPredictor) Name() models.PredictorName { return models.PredictorMomentum }

func (p *MomentumPredictor) Predict(window []models.PricePoint) (res models.Result[models.ComponentPrediction]) {
	defer models.Guard(fallbackPrediction(p.Name(), window), &res)

	if len(window) == 0 {
		return models.Fallback(fallbackPrediction(p.Name(), window), models.ErrInsufficientData)
	}
	prices := models.Prices(window)
	current := prices[len(prices)-1]

	short := rateOfChange(prices, 5)
	medium := short
	if len(prices) >= 10 {
		medium = rateOfChange(prices, 10)
	}

	signal := Clamp(0.7*short+0.3*medium, -0.005, 0.005)

	return finish(p.Name(), window, models.ComponentPrediction{
		Predictor:       p.Name(),
		PredictedPrice:  current * (1 + signal),
		LocalConfidence: min(0.7, abs(signal)*100+0.3),
		Components: map[string]float64{
			"short_momentum":  short,
			"medium_momentum": medium,
		},
	})
}

// rateOfChange compares the last price with the price n points from the end.
// It is 0 when there are fewer than n prices or the reference is zero.
func rateOfChange(prices []float64, n int) float64 {
	if len(prices) < n {
		return 0
	}
	ref := prices[len(prices)-n]
	if ref == 0 {
		return 0
	}
	return (prices[len(prices)-1] - ref) / ref
}

var _ domsvc.Predictor = (*MomentumPredictor)(nil)
