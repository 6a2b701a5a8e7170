package models

// Requests for the engine HTTP endpoints.

type PredictionsRequest struct {
	Limit  int    `query:"limit" json:"limit" default:"50" validate:"gte=1,lte=1000"`
	Status string `query:"status" json:"status" validate:"omitempty,oneof=pending verified expired"`
	From   string `query:"from" json:"from"`
	To     string `query:"to" json:"to"`
}

type NotifyRequest struct {
	Enabled         *bool `json:"enabled" validate:"required"`
	IntervalMinutes int   `json:"interval_minutes" default:"30" validate:"gte=1,lte=1440"`
}
