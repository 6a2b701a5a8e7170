package usecase

import (
	"GoldCast/internal/domain/models"
	"GoldCast/internal/services/analytics"
)

const (
	MinConfidence      = 0.1
	MaxConfidence      = 0.95
	fallbackConfidence = 0.5

	baseThreshold   = 0.0005
	strongCallLevel = 0.7
)

// Confidence derives the per-prediction confidence from the drifting base, the
// recent accuracy and the market conditions. The result is clamped to [0.1, 0.95].
func Confidence(base float64, c models.MarketConditions, history []float64) (res models.Result[float64]) {
	defer models.Guard(fallbackConfidence, &res)

	conf := base
	if len(history) >= adaptSamples {
		conf += (analytics.Mean(analytics.Tail(history, adaptSamples)) - 0.5) * 0.4
	}
	volFactor := max(0.5, 1-c.Volatility*20)
	trendFactor := min(1.5, 1+c.TrendStrength*10)
	conf *= volFactor * trendFactor
	if !analytics.Finite(conf) {
		return models.Fallback(fallbackConfidence, models.ErrNonFinite)
	}
	return models.OK(analytics.Clamp(conf, MinConfidence, MaxConfidence))
}

// SignalOutput is the labelled view of an ensemble prediction.
type SignalOutput struct {
	Signal     models.Signal `json:"signal"`
	Change     float64       `json:"price_change"`
	ChangePct  float64       `json:"price_change_pct"`
	Confidence float64       `json:"confidence"`
}

func flatSignal() SignalOutput {
	return SignalOutput{Signal: models.SignalFlat, Confidence: fallbackConfidence}
}

// GenerateSignal maps the predicted move to one of the seven labels. Both thresholds
// shrink as confidence rises.
func GenerateSignal(predicted, current, confidence float64) (res models.Result[SignalOutput]) {
	defer models.Guard(flatSignal(), &res)

	if current == 0 {
		return models.Fallback(flatSignal(), models.ErrInsufficientData)
	}
	change := predicted - current
	pct := change / current
	if !analytics.Finite(pct, confidence) {
		return models.Fallback(flatSignal(), models.ErrNonFinite)
	}

	strong := baseThreshold * (2 - confidence)
	weak := baseThreshold * (1 - confidence*0.5)

	var s models.Signal
	switch {
	case pct > strong && confidence > strongCallLevel:
		s = models.SignalStrongBullish
	case pct > strong:
		s = models.SignalBullish
	case pct > weak:
		s = models.SignalSlightlyBullish
	case pct < -strong && confidence > strongCallLevel:
		s = models.SignalStrongBearish
	case pct < -strong:
		s = models.SignalBearish
	case pct < -weak:
		s = models.SignalSlightlyBearish
	default:
		s = models.SignalFlat
	}
	return models.OK(SignalOutput{Signal: s, Change: change, ChangePct: pct, Confidence: confidence})
}
