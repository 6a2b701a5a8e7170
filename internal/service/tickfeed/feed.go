package tickfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"GoldCast/internal/domain/models"
	drepo "GoldCast/internal/domain/repository"
	"GoldCast/pkg/kafka"
	"GoldCast/pkg/logger"
)

// tickMessage is the JSON a collector publishes per quote; t is unix milliseconds.
type tickMessage struct {
	Symbol string  `json:"symbol"`
	Bid    float64 `json:"bid"`
	Ask    float64 `json:"ask"`
	Last   float64 `json:"c"`
	Volume float64 `json:"v"`
	T      int64   `json:"t"`
}

// Feed consumes a tick topic and serves the latest tick per symbol.
type Feed struct {
	topic    string
	consumer *kafka.Consumer
	log      *logger.Logger

	mu      sync.RWMutex
	latest  map[string]models.Tick
	started bool
}

var _ drepo.PriceFeed = (*Feed)(nil)

func New(topic string, consumer *kafka.Consumer, l *logger.Logger) *Feed {
	if l == nil {
		l = logger.Nop()
	}
	f := &Feed{topic: topic, consumer: consumer, log: l, latest: make(map[string]models.Tick)}
	if consumer != nil {
		consumer.RegisterHandler(f)
	}
	return f
}

func (f *Feed) Topic() string { return f.topic }

// Handle caches a tick. Malformed payloads are dropped without retry.
func (f *Feed) Handle(_ context.Context, data []byte) error {
	var m tickMessage
	if err := json.Unmarshal(data, &m); err != nil {
		f.log.Warn("tick feed: bad payload", logger.Error(err))
		return nil
	}
	if m.Symbol == "" || (m.Last <= 0 && m.Bid <= 0) {
		return nil
	}
	t := models.Tick{Symbol: m.Symbol, Bid: m.Bid, Ask: m.Ask, Last: m.Last, Volume: m.Volume, Time: time.UnixMilli(m.T).UTC()}
	f.mu.Lock()
	if prev, ok := f.latest[m.Symbol]; !ok || !prev.Time.After(t.Time) {
		f.latest[m.Symbol] = t
	}
	f.mu.Unlock()
	return nil
}

// EnsureConnection starts the consumer once.
func (f *Feed) EnsureConnection(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.started || f.consumer == nil {
		return nil
	}
	if err := f.consumer.Start(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("tick feed: %w", err)
	}
	f.started = true
	return nil
}

func (f *Feed) GetCurrentPrice(_ context.Context, symbol string) (models.Tick, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	t, ok := f.latest[symbol]
	if !ok {
		return models.Tick{}, fmt.Errorf("%w: no tick consumed for %s", models.ErrFeedUnavailable, symbol)
	}
	return t, nil
}

func (f *Feed) Close() error {
	if f.consumer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return f.consumer.Stop(ctx)
}
