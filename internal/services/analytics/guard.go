package analytics

import "GoldCast/internal/domain/models"

const fallbackConfidence = 0.3

// fallbackPrediction predicts no change at low confidence.
func fallbackPrediction(name models.PredictorName, window []models.PricePoint) models.ComponentPrediction {
	last := 0.0
	if len(window) > 0 {
		last = window[len(window)-1].Price
	}
	return models.ComponentPrediction{
		Predictor:       name,
		PredictedPrice:  last,
		LocalConfidence: fallbackConfidence,
	}
}

// finish validates a computed prediction and falls back when any number is non-finite.
func finish(name models.PredictorName, window []models.PricePoint, cp models.ComponentPrediction) models.Result[models.ComponentPrediction] {
	if !Finite(cp.PredictedPrice, cp.LocalConfidence) {
		return models.Fallback(fallbackPrediction(name, window), models.ErrNonFinite)
	}
	for _, v := range cp.Components {
		if !Finite(v) {
			return models.Fallback(fallbackPrediction(name, window), models.ErrNonFinite)
		}
	}
	return models.OK(cp)
}
