package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GoldCast/internal/domain/models"
)

func TestClassifyRegimeRules(t *testing.T) {
	cases := []struct {
		vol, trend float64
		want       models.Regime
	}{
		{0.03, 0.5, models.RegimeHighVolatility},
		{0.01, 0.02, models.RegimeTrending},
		{0.001, 0.005, models.RegimeLowVolatility},
		{0.01, 0.005, models.RegimeNormal},
		{0.02, 0.01, models.RegimeNormal}, // thresholds are strict
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ClassifyRegime(c.vol, c.trend), "vol=%v trend=%v", c.vol, c.trend)
	}
}

func TestClassifyRegimeDeterministic(t *testing.T) {
	for i := 0; i < 100; i++ {
		v := float64(i) * 0.0004
		tr := float64(100-i) * 0.0002
		assert.Equal(t, ClassifyRegime(v, tr), ClassifyRegime(v, tr))
	}
}

func TestClassifyFlatWindow(t *testing.T) {
	res := NewMarketClassifier().Classify(windowOf(constant(30, 2000)...))
	require.False(t, res.Fallback)
	c := res.Value
	assert.Contains(t, []models.Regime{models.RegimeLowVolatility, models.RegimeNormal}, c.Regime)
	assert.Zero(t, c.Volatility)
	assert.Zero(t, c.TrendStrength)
	assert.Equal(t, 0.5, c.PricePosition)
	assert.Zero(t, c.VolumeTrend)
}

func TestClassifyRisingWindowIsTrending(t *testing.T) {
	res := NewMarketClassifier().Classify(windowOf(geometric(12, 2000, 0.003)...))
	require.False(t, res.Fallback)
	assert.Equal(t, models.RegimeTrending, res.Value.Regime)
	assert.Greater(t, res.Value.TrendStrength, 0.01)
	assert.InDelta(t, 1.0, res.Value.PricePosition, 1e-12)
}

func TestClassifyShortWindowDegrades(t *testing.T) {
	res := NewMarketClassifier().Classify(windowOf(2000, 2001, 1999))
	require.False(t, res.Fallback)
	assert.Zero(t, res.Value.Volatility)
	assert.GreaterOrEqual(t, res.Value.PricePosition, 0.0)
	assert.LessOrEqual(t, res.Value.PricePosition, 1.0)
}

func TestClassifyFallbacks(t *testing.T) {
	res := NewMarketClassifier().Classify(nil)
	assert.True(t, res.Fallback)
	assert.Equal(t, models.FallbackConditions(), res.Value)

	res = NewMarketClassifier().Classify(windowOf(2000, math.NaN(), 2001))
	assert.True(t, res.Fallback)
	assert.Equal(t, models.RegimeNormal, res.Value.Regime)
}

func TestClassifyVolumeTrend(t *testing.T) {
	w := windowOf(constant(10, 2000)...)
	for i := range w {
		w[i].Volume = 1
		if i >= 5 {
			w[i].Volume = 3
		}
	}
	res := NewMarketClassifier().Classify(w)
	require.False(t, res.Fallback)
	// recent mean 3, overall mean 2
	assert.InDelta(t, 0.5, res.Value.VolumeTrend, 1e-12)
}
