package repository

import (
	"context"
	"time"

	"GoldCast/internal/domain/models"
)

// PriceFeed returns ticks on demand.
type PriceFeed interface {
	GetCurrentPrice(ctx context.Context, symbol string) (models.Tick, error)
	EnsureConnection(ctx context.Context) error
	Close() error
}

// PriceStore is the append-only price_history table.
type PriceStore interface {
	SavePrice(ctx context.Context, symbol string, p models.PricePoint) error
}

// PredictionStore holds predictions: insert on creation, one update on verification or expiry.
type PredictionStore interface {
	SavePrediction(ctx context.Context, p *models.Prediction) error
	UpdatePrediction(ctx context.Context, p *models.Prediction) error
	// PendingPredictions returns pending predictions created at or before dueBefore, oldest first.
	PendingPredictions(ctx context.Context, symbol string, dueBefore time.Time) ([]*models.Prediction, error)
	VerifiedSince(ctx context.Context, symbol string, since time.Time) ([]*models.Prediction, error)
	// RecentAccuracies returns the newest verified accuracies, newest first.
	RecentAccuracies(ctx context.Context, symbol string, limit int) ([]float64, error)
	ListPredictions(ctx context.Context, symbol string, f models.PredictionFilter) ([]*models.Prediction, error)
	CountPredictions(ctx context.Context, symbol string) (int64, error)
}

// SnapshotStore is the append-only performance_snapshots table.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, symbol string, s models.Snapshot) error
	// LatestSnapshot returns models.ErrNotFound when nothing was saved yet.
	LatestSnapshot(ctx context.Context, symbol string) (*models.Snapshot, error)
}

// Store groups the three logical tables.
type Store interface {
	PriceStore
	PredictionStore
	SnapshotStore
	Health(ctx context.Context) error
	Close() error
}

// NotifyResult is the outcome of one delivery attempt.
type NotifyResult struct {
	Success     bool     `json:"success"`
	SentTargets []string `json:"sent_targets"`
	Errors      []string `json:"errors,omitempty"`
}

// Notifier pushes a formatted text block to an external channel.
type Notifier interface {
	Send(ctx context.Context, text string, p *models.Prediction) NotifyResult
}

// EventPublisher emits engine events to downstream consumers.
type EventPublisher interface {
	PublishPrediction(ctx context.Context, e models.PredictionEvent) error
	PublishSnapshot(ctx context.Context, e models.SnapshotEvent) error
	PublishMessage(ctx context.Context, topic string, payload interface{}) error
	Close() error
}

// Metrics records engine telemetry.
type Metrics interface {
	RecordPrediction(signal string, confidence float64)
	RecordVerification(outcome string, accuracy float64)
	RecordWeights(w models.Weights)
	RecordLastPrice(symbol string, price float64)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
