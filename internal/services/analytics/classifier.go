package analytics

import (
	"GoldCast/internal/domain/models"
	domsvc "GoldCast/internal/domain/service"
)

const (
	volWindow          = 10
	shortMAWindow      = 5
	longMAWindow       = 20
	rangeWindow        = 20
	recentVolumeWindow = 5

	highVolatilityThreshold = 0.02
	trendingThreshold       = 0.01
	lowVolatilityThreshold  = 0.005
)

// ClassifyRegime applies the regime rule; first match wins.
func ClassifyRegime(volatility, trendStrength float64) models.Regime {
	switch {
	case volatility > highVolatilityThreshold:
		return models.RegimeHighVolatility
	case trendStrength > trendingThreshold:
		return models.RegimeTrending
	case volatility < lowVolatilityThreshold:
		return models.RegimeLowVolatility
	default:
		return models.RegimeNormal
	}
}

// MarketClassifier derives MarketConditions from the price window.
type MarketClassifier struct{}

func NewMarketClassifier() *MarketClassifier { return &MarketClassifier{} }

// Classify never fails outward; errors yield models.FallbackConditions.
func (c *MarketClassifier) Classify(window []models.PricePoint) (res models.Result[models.MarketConditions]) {
	defer models.Guard(models.FallbackConditions(), &res)

	if len(window) == 0 {
		return models.Fallback(models.FallbackConditions(), models.ErrInsufficientData)
	}

	prices := models.Prices(window)
	current := prices[len(prices)-1]

	// Rolling volatility at the last point; undefined (too short) counts as 0.
	volatility, ok := RollingStd(SimpleReturns(prices), volWindow)
	if !ok {
		volatility = 0
	}

	// The long average uses the whole window when it is shorter than 20.
	maShort := Mean(Tail(prices, shortMAWindow))
	maLong := Mean(Tail(prices, longMAWindow))
	trendStrength := 0.0
	if maLong != 0 {
		trendStrength = abs((maShort - maLong) / maLong)
	}

	lo, hi := MinMax(Tail(prices, rangeWindow))
	position := 0.5
	if hi != lo {
		position = (current - lo) / (hi - lo)
	}

	volumes := models.Volumes(window)
	volumeTrend := 0.0
	if sum(volumes) > 0 {
		overall := Mean(volumes)
		if overall > 0 {
			volumeTrend = (Mean(Tail(volumes, recentVolumeWindow)) - overall) / overall
		}
	}

	if !Finite(volatility, trendStrength, position, volumeTrend) {
		return models.Fallback(models.FallbackConditions(), models.ErrNonFinite)
	}

	return models.OK(models.MarketConditions{
		Volatility:    volatility,
		TrendStrength: trendStrength,
		PricePosition: position,
		VolumeTrend:   volumeTrend,
		Regime:        ClassifyRegime(volatility, trendStrength),
	})
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func sum(xs []float64) float64 {
	s := 0.0
	for _, x := range xs {
		s += x
	}
	return s
}

var _ domsvc.Classifier = (*MarketClassifier)(nil)
