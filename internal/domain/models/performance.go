package models

import "time"

// PerformanceMetrics is the process-wide rolling performance state.
type PerformanceMetrics struct {
	TotalPredictions   int64   `json:"total_predictions"`
	CorrectPredictions int64   `json:"correct_predictions"`
	AverageAccuracy    float64 `json:"average_accuracy"`
	RecentAccuracy     float64 `json:"recent_accuracy"`
	ConfidenceTrend    float64 `json:"confidence_trend"`
}

// Snapshot is one persisted row of performance state.
type Snapshot struct {
	Timestamp      time.Time          `json:"timestamp"`
	Metrics        PerformanceMetrics `json:"metrics"`
	ConfidenceBase float64            `json:"confidence_base"`
	Weights        Weights            `json:"predictor_weights"`
}

// PredictorPerformance is the mean of accuracy*weight per predictor.
type PredictorPerformance map[PredictorName]float64
