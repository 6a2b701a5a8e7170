package models

import "time"

const (
	EventPredictionCreated  = "prediction.created"
	EventPredictionVerified = "prediction.verified"
	EventPredictionExpired  = "prediction.expired"
	EventSnapshotSaved      = "snapshot.saved"
)

// PredictionEvent is published on every prediction lifecycle transition.
type PredictionEvent struct {
	ID         string                `json:"id"`
	Type       string                `json:"type"`
	OccurredAt time.Time             `json:"occurred_at"`
	Prediction *Prediction           `json:"prediction"`
	Components []ComponentPrediction `json:"components,omitempty"`
}

// SnapshotEvent is published after a performance snapshot is persisted.
type SnapshotEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Symbol     string    `json:"symbol"`
	OccurredAt time.Time `json:"occurred_at"`
	Snapshot   Snapshot  `json:"snapshot"`
}
