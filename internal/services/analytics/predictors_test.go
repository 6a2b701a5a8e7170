package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GoldCast/internal/domain/models"
)

func TestRSIEdgeCases(t *testing.T) {
	assert.Equal(t, 50.0, RSI(geometric(14, 2000, 0.01), RSIPeriod), "fewer than 15 points")
	assert.Equal(t, 50.0, RSI(constant(30, 2000), RSIPeriod), "no movement")
	assert.Equal(t, 100.0, RSI(geometric(30, 2000, 0.001), RSIPeriod), "no losses")
	assert.InDelta(t, 0.0, RSI(geometric(30, 2000, -0.001), RSIPeriod), 1e-9, "no gains")

	zigzag := make([]float64, 40)
	for i := range zigzag {
		zigzag[i] = 2000
		if i%2 == 1 {
			zigzag[i] = 2010
		}
	}
	v := RSI(zigzag, RSIPeriod)
	assert.Greater(t, v, 0.0)
	assert.Less(t, v, 100.0)
}

func TestPatternSignal(t *testing.T) {
	cases := []struct {
		name   string
		prices []float64
		want   float64
	}{
		{"rising", []float64{1, 2, 3, 4, 5}, 0.002},
		{"falling", []float64{5, 4, 3, 2, 1}, -0.002},
		{"upward reversal", []float64{5, 4, 5, 3, 4}, 0.001},
		{"downward reversal", []float64{1, 2, 1, 3, 2}, -0.001},
		{"flat", []float64{2, 2, 2, 2, 2}, 0},
		{"not strict", []float64{1, 2, 2, 3, 4}, 0},
		{"too short", []float64{1, 2, 3, 4}, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, PatternSignal(c.prices))
		})
	}
}

func TestPredictorsOnFlatWindow(t *testing.T) {
	w := windowOf(constant(30, 2000)...)
	for _, p := range DefaultPredictors() {
		res := p.Predict(w)
		require.False(t, res.Fallback, p.Name())
		assert.InDelta(t, 2000, res.Value.PredictedPrice, 1e-9, p.Name())
		assert.GreaterOrEqual(t, res.Value.LocalConfidence, 0.0)
		assert.LessOrEqual(t, res.Value.LocalConfidence, 1.0)
	}
	pat := NewPatternPredictor().Predict(w)
	assert.Zero(t, pat.Value.Components["pattern_signal"])
}

// Five strictly increasing prices with steps above 0.2%.
func TestStrongUptrendFivePoints(t *testing.T) {
	w := windowOf(geometric(5, 2000, 0.003)...)
	current := w[len(w)-1].Price

	pat := NewPatternPredictor().Predict(w)
	require.False(t, pat.Fallback)
	assert.Equal(t, 0.002, pat.Value.Components["pattern_signal"])
	assert.InDelta(t, current*1.002, pat.Value.PredictedPrice, 1e-9)

	mom := NewMomentumPredictor().Predict(w)
	require.False(t, mom.Fallback)
	assert.Greater(t, mom.Value.PredictedPrice, current)

	// the 10-point average does not exist yet, so Technical holds the current price
	tech := NewTechnicalPredictor().Predict(w)
	assert.True(t, tech.Fallback)
	assert.ErrorIs(t, tech.Err, models.ErrInsufficientData)
	assert.NotContains(t, tech.Value.Components, "trend")
	assert.Equal(t, current, tech.Value.PredictedPrice)
}

func TestTechnicalTrendSignal(t *testing.T) {
	w := windowOf(geometric(12, 2000, 0.003)...)
	res := NewTechnicalPredictor().Predict(w)
	require.False(t, res.Fallback)
	assert.Greater(t, res.Value.Components["trend"], 0.0)
	assert.Zero(t, res.Value.Components["rsi"], "RSI is neutral below 15 points")
	assert.Greater(t, res.Value.PredictedPrice, w[len(w)-1].Price)
}

func TestPredictorFallbacks(t *testing.T) {
	short := windowOf(2000, 2001, 2002)
	res := NewTechnicalPredictor().Predict(short)
	assert.True(t, res.Fallback)
	assert.ErrorIs(t, res.Err, models.ErrInsufficientData)
	assert.Equal(t, 2002.0, res.Value.PredictedPrice)
	assert.Equal(t, 0.3, res.Value.LocalConfidence)

	for _, p := range DefaultPredictors() {
		r := p.Predict(nil)
		assert.True(t, r.Fallback, p.Name())
		assert.Equal(t, 0.3, r.Value.LocalConfidence, p.Name())
	}
}

func TestPredictorClampBands(t *testing.T) {
	// a 5% jump per step saturates every band
	w := windowOf(geometric(20, 2000, 0.05)...)
	current := w[len(w)-1].Price
	bands := map[models.PredictorName]float64{
		models.PredictorTechnical:  0.01,
		models.PredictorMomentum:   0.005,
		models.PredictorVolatility: 0.003,
		models.PredictorPattern:    0.002,
	}
	for _, p := range DefaultPredictors() {
		res := p.Predict(w)
		require.False(t, res.Fallback, p.Name())
		move := (res.Value.PredictedPrice - current) / current
		assert.LessOrEqual(t, move, bands[p.Name()]+1e-12, p.Name())
		assert.GreaterOrEqual(t, move, -bands[p.Name()]-1e-12, p.Name())
	}
}

func TestMomentumUsesPriceNPointsBack(t *testing.T) {
	prices := []float64{100, 100, 100, 100, 100, 101}
	// index len-5 is 100, so short momentum is 1%
	assert.InDelta(t, 0.01, rateOfChange(prices, 5), 1e-12)
	assert.Zero(t, rateOfChange(prices[:4], 5))
}
