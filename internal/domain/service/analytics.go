package service

import "GoldCast/internal/domain/models"

// Predictor produces one component prediction from a price window.
// Implementations never panic or fail outward; a failed computation
// is reported as a fallback result.
type Predictor interface {
	Name() models.PredictorName
	Predict(window []models.PricePoint) models.Result[models.ComponentPrediction]
}

// Classifier derives market conditions from a price window.
type Classifier interface {
	Classify(window []models.PricePoint) models.Result[models.MarketConditions]
}
