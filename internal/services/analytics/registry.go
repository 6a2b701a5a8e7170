package analytics

import domsvc "GoldCast/internal/domain/service"

// DefaultPredictors returns the four component predictors in their canonical order.
func DefaultPredictors() []domsvc.Predictor {
	return []domsvc.Predictor{
		NewTechnicalPredictor(),
		NewMomentumPredictor(),
		NewVolatilityPredictor(),
		NewPatternPredictor(),
	}
}
