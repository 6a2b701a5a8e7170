package repository

import (
	"context"

	"GoldCast/internal/domain/models"
	domrepo "GoldCast/internal/domain/repository"
	pkgkafka "GoldCast/pkg/kafka"
)

// KafkaTopics routes engine events.
type KafkaTopics struct {
	Predictions string
	Snapshots   string
}

// KafkaEventPublisher implements domrepo.EventPublisher. Messages are keyed by symbol
// so every event of one instrument lands on the same partition.
type KafkaEventPublisher struct {
	producer *pkgkafka.Producer
	topics   KafkaTopics
}

var _ domrepo.EventPublisher = (*KafkaEventPublisher)(nil)

func NewKafkaEventPublisher(producer *pkgkafka.Producer, topics KafkaTopics) *KafkaEventPublisher {
	if topics.Predictions == "" {
		topics.Predictions = "goldcast.predictions"
	}
	if topics.Snapshots == "" {
		topics.Snapshots = "goldcast.snapshots"
	}
	return &KafkaEventPublisher{producer: producer, topics: topics}
}

func (p *KafkaEventPublisher) PublishPrediction(ctx context.Context, e models.PredictionEvent) error {
	var key []byte
	if e.Prediction != nil {
		key = []byte(e.Prediction.Symbol)
	}
	return p.producer.Publish(ctx, p.topics.Predictions, key, e)
}

func (p *KafkaEventPublisher) PublishSnapshot(ctx context.Context, e models.SnapshotEvent) error {
	return p.producer.Publish(ctx, p.topics.Snapshots, []byte(e.Symbol), e)
}

// PublishMessage sends an arbitrary JSON payload; the log collector ships batches through it.
func (p *KafkaEventPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}

func (p *KafkaEventPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NoopEventPublisher is used when Kafka is disabled.
type NoopEventPublisher struct{}

func (NoopEventPublisher) PublishPrediction(context.Context, models.PredictionEvent) error { return nil }
func (NoopEventPublisher) PublishSnapshot(context.Context, models.SnapshotEvent) error     { return nil }
func (NoopEventPublisher) PublishMessage(context.Context, string, interface{}) error       { return nil }
func (NoopEventPublisher) Close() error                                                     { return nil }
