package analytics

import (
	"GoldCast/internal/domain/models"
	domsvc "GoldCast/internal/domain/service"
)

// TechnicalPredictor combines a 5/10 moving-average crossover with RSI.
type TechnicalPredictor struct {
	rsiPeriod int
}

func NewTechnicalPredictor() *TechnicalPredictor { return &TechnicalPredictor{rsiPeriod: RSIPeriod} }

func (p *TechnicalPredictor) Name() models.PredictorName { return models.PredictorTechnical }

func (p *TechnicalPredictor) Predict(window []models.PricePoint) (res models.Result[models.ComponentPrediction]) {
	defer models.Guard(fallbackPrediction(p.Name(), window), &res)

	prices := models.Prices(window)
	ma5, ok5 := SMA(prices, 5)
	ma10, ok10 := SMA(prices, 10)
	if !ok5 || !ok10 {
		return models.Fallback(fallbackPrediction(p.Name(), window), models.ErrInsufficientData)
	}
	current := prices[len(prices)-1]

	trend := 0.0
	if ma10 != 0 {
		trend = (ma5 - ma10) / ma10
	}
	rsiSignal := (50 - RSI(prices, p.rsiPeriod)) / 100

	change := Clamp(0.6*trend+0.4*rsiSignal, -0.01, 0.01)

	return finish(p.Name(), window, models.ComponentPrediction{
		Predictor:       p.Name(),
		PredictedPrice:  current * (1 + change),
		LocalConfidence: min(0.8, abs(trend)+0.3),
		Components: map[string]float64{
			"trend": trend,
			"rsi":   rsiSignal,
		},
	})
}

var _ domsvc.Predictor = (*TechnicalPredictor)(nil)
