package usecase

import (
	"context"

	"github.com/google/uuid"

	"GoldCast/internal/domain/models"
)

func newID() string { return uuid.NewString() }

type noopPublisher struct{}

func (noopPublisher) PublishPrediction(context.Context, models.PredictionEvent) error { return nil }
func (noopPublisher) PublishSnapshot(context.Context, models.SnapshotEvent) error     { return nil }
func (noopPublisher) PublishMessage(context.Context, string, interface{}) error       { return nil }
func (noopPublisher) Close() error                                                     { return nil }

type noopMetrics struct{}

func (noopMetrics) RecordPrediction(string, float64)   {}
func (noopMetrics) RecordVerification(string, float64) {}
func (noopMetrics) RecordWeights(models.Weights)       {}
func (noopMetrics) RecordLastPrice(string, float64)    {}
func (noopMetrics) RecordError(string)                 {}
func (noopMetrics) RecordLatency(string, float64)      {}
