package models

// Regime is the classified market state.
type Regime string

const (
	RegimeHighVolatility Regime = "high_volatility"
	RegimeTrending       Regime = "trending"
	RegimeLowVolatility  Regime = "low_volatility"
	RegimeNormal         Regime = "normal"
)

// MarketConditions is derived from the price window on every prediction cycle.
type MarketConditions struct {
	Volatility    float64 `json:"volatility"`
	TrendStrength float64 `json:"trend_strength"`
	PricePosition float64 `json:"price_position"`
	VolumeTrend   float64 `json:"volume_trend"`
	Regime        Regime  `json:"regime"`
}

// FallbackConditions is used whenever the classifier cannot compute conditions.
func FallbackConditions() MarketConditions {
	return MarketConditions{
		Volatility:    0.01,
		TrendStrength: 0.1,
		PricePosition: 0.5,
		VolumeTrend:   0,
		Regime:        RegimeNormal,
	}
}
