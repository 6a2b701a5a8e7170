package usecase

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"GoldCast/internal/domain/models"
	domsvc "GoldCast/internal/domain/service"
)

func window(prices ...float64) []models.PricePoint {
	out := make([]models.PricePoint, len(prices))
	for i, p := range prices {
		out[i] = models.PricePoint{Timestamp: t0.Add(time.Duration(i) * 10 * time.Second), Price: p}
	}
	return out
}

func risingPrices(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 2000 * math.Pow(1.003, float64(i))
	}
	return out
}

func TestForecastFlatMarket(t *testing.T) {
	f := NewForecaster(nil, nil, nil)
	got := f.Run(window(repeat(2000, 30)...), models.DefaultWeights(), 0.3, nil)

	assert.Empty(t, got.Fallbacks)
	assert.Equal(t, models.RegimeLowVolatility, got.Conditions.Regime)
	assert.InDelta(t, 2000, got.PredictedPrice, 1e-9)
	assert.InDelta(t, 0.3, got.Confidence, 1e-9)
	assert.Equal(t, models.SignalFlat, got.Signal.Signal)
	assert.Len(t, got.Components, 4)
	assert.InDelta(t, 1.0, got.Weights.Sum(), 1e-9)
}

func TestForecastTrendingMarket(t *testing.T) {
	f := NewForecaster(nil, nil, nil)
	w := window(risingPrices(12)...)
	got := f.Run(w, models.DefaultWeights(), 0.3, repeat(0.8, 5))

	assert.Equal(t, models.RegimeTrending, got.Conditions.Regime)
	assert.InDelta(t, 0.52/1.12, got.Weights.Technical, 1e-9)
	assert.Greater(t, got.PredictedPrice, got.CurrentPrice)
	assert.Contains(t, []models.Signal{models.SignalBullish, models.SignalStrongBullish}, got.Signal.Signal)
	assert.GreaterOrEqual(t, got.Confidence, MinConfidence)
	assert.LessOrEqual(t, got.Confidence, MaxConfidence)
}

type panicPredictor struct{}

func (panicPredictor) Name() models.PredictorName { return models.PredictorPattern }

func (panicPredictor) Predict(w []models.PricePoint) (res models.Result[models.ComponentPrediction]) {
	defer models.Guard(models.ComponentPrediction{Predictor: models.PredictorPattern, PredictedPrice: w[len(w)-1].Price, LocalConfidence: 0.3}, &res)
	panic("broken")
}

func TestForecastRecordsFallbackStages(t *testing.T) {
	f := NewForecaster(nil, []domsvc.Predictor{panicPredictor{}}, nil)
	got := f.Run(window(repeat(2000, 30)...), models.DefaultWeights(), 0.3, nil)

	assert.Contains(t, got.Fallbacks, "pattern")
	assert.InDelta(t, 2000, got.PredictedPrice, 1e-9)
}
