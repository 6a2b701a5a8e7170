package models

import "time"

// TaskStatus is the runtime state of one background task.
type TaskStatus struct {
	Name      string    `json:"name"`
	Every     string    `json:"every"`
	Runs      int       `json:"runs"`
	LastRun   time.Time `json:"last_run,omitempty"`
	LastError string    `json:"last_error,omitempty"`
}

// NotifySettings are the runtime notification toggles.
type NotifySettings struct {
	Enabled         bool       `json:"enabled"`
	IntervalMinutes int        `json:"interval_minutes"`
	LastPush        *time.Time `json:"last_push,omitempty"`
}

// EngineSettings echoes the engine configuration in status.
type EngineSettings struct {
	Symbol                string `json:"symbol"`
	IntervalMinutes       int    `json:"interval_minutes"`
	DataCollectionSeconds int    `json:"data_collection_seconds"`
	MinDataPoints         int    `json:"min_data_points"`
	MaxHistorySize        int    `json:"max_history_size"`
}

// Status is a synchronous snapshot of the engine for presentation layers.
type Status struct {
	Running          bool               `json:"running"`
	Config           EngineSettings     `json:"config"`
	Metrics          PerformanceMetrics `json:"performance_metrics"`
	Weights          Weights            `json:"predictor_weights"`
	ConfidenceBase   float64            `json:"confidence_base"`
	DataPoints       int                `json:"data_points"`
	PredictionsCount int                `json:"predictions_count"`
	AccuracyTail     []float64          `json:"accuracy_history"`
	LastPrediction   *time.Time         `json:"last_prediction,omitempty"`
	Notify           NotifySettings     `json:"notify"`
	Tasks            []TaskStatus       `json:"tasks"`
}
