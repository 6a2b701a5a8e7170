package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/segmentio/kafka-go"

	"GoldCast/pkg/logger"
)

// MessageHandler handles messages from one topic.
type MessageHandler interface {
	Topic() string
	Handle(context.Context, []byte) error
}

type ConsumerOption func(*ConsumerConfig)

type ConsumerConfig struct {
	Brokers     []string
	GroupID     string
	StartOffset int64 // kafka.FirstOffset or kafka.LastOffset, used without a group
	RetryMax    uint64
	BackoffMax  time.Duration
	MinBytes    int
	MaxBytes    int
	Logger      *logger.Logger
}

func WithConsumerBrokers(brokers []string) ConsumerOption {
	return func(c *ConsumerConfig) { c.Brokers = brokers }
}

func WithConsumerGroupID(groupID string) ConsumerOption {
	return func(c *ConsumerConfig) { c.GroupID = groupID }
}

// WithConsumerLatest starts from the newest offset instead of the oldest.
func WithConsumerLatest(latest bool) ConsumerOption {
	return func(c *ConsumerConfig) {
		if latest {
			c.StartOffset = kafka.LastOffset
		} else {
			c.StartOffset = kafka.FirstOffset
		}
	}
}

// WithConsumerRetry bounds handler retries; backoff grows exponentially up to maxBackoff.
func WithConsumerRetry(max uint64, maxBackoff time.Duration) ConsumerOption {
	return func(c *ConsumerConfig) {
		c.RetryMax = max
		c.BackoffMax = maxBackoff
	}
}

func WithConsumerFetch(minBytes, maxBytes int) ConsumerOption {
	return func(c *ConsumerConfig) {
		c.MinBytes = minBytes
		c.MaxBytes = maxBytes
	}
}

func WithConsumerLogger(l *logger.Logger) ConsumerOption {
	return func(c *ConsumerConfig) { c.Logger = l }
}

// Consumer runs one reader per registered topic. Offsets are committed after
// the handler returns, whether it succeeded or exhausted its retries.
type Consumer struct {
	cfg      *ConsumerConfig
	handlers map[string]MessageHandler
	readers  map[string]*kafka.Reader
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
	log      *logger.Logger
}

func NewConsumer(opts ...ConsumerOption) (*Consumer, error) {
	cfg := &ConsumerConfig{
		StartOffset: kafka.LastOffset,
		RetryMax:    3,
		BackoffMax:  2 * time.Second,
		MinBytes:    1,
		MaxBytes:    10e6,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("brokers are required")
	}
	l := cfg.Logger
	if l == nil {
		l = logger.Nop()
	}
	consumerMetricsOnce.Do(initConsumerMetrics)
	return &Consumer{
		cfg:      cfg,
		handlers: make(map[string]MessageHandler),
		readers:  make(map[string]*kafka.Reader),
		log:      l,
	}, nil
}

// RegisterHandler must be called before Start. A second handler for the same topic is ignored.
func (c *Consumer) RegisterHandler(h MessageHandler) {
	if _, ok := c.handlers[h.Topic()]; ok {
		c.log.Warn("kafka consumer: handler already registered", logger.String("topic", h.Topic()))
		return
	}
	c.handlers[h.Topic()] = h
}

func (c *Consumer) Start(ctx context.Context) error {
	if len(c.handlers) == 0 {
		return errors.New("kafka consumer: no handlers registered")
	}
	ctx, c.cancel = context.WithCancel(ctx)
	for topic, h := range c.handlers {
		rc := kafka.ReaderConfig{
			Brokers:  c.cfg.Brokers,
			Topic:    topic,
			GroupID:  c.cfg.GroupID,
			MinBytes: c.cfg.MinBytes,
			MaxBytes: c.cfg.MaxBytes,
		}
		if c.cfg.GroupID == "" {
			rc.StartOffset = c.cfg.StartOffset
		}
		r := kafka.NewReader(rc)
		c.readers[topic] = r
		c.wg.Add(1)
		go c.consume(ctx, r, h)
		c.log.Info("kafka consumer: started", logger.String("topic", topic), logger.String("group", c.cfg.GroupID))
	}
	return nil
}

func (c *Consumer) consume(ctx context.Context, r *kafka.Reader, h MessageHandler) {
	defer c.wg.Done()
	for {
		msg, err := r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			consumerErrors.WithLabelValues(h.Topic(), "fetch").Inc()
			c.log.Warn("kafka consumer: fetch failed", logger.String("topic", h.Topic()), logger.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		start := time.Now()
		if err := c.handle(ctx, h, msg.Value); err != nil {
			consumerErrors.WithLabelValues(h.Topic(), "handle").Inc()
			c.log.Error("kafka consumer: dropping message after retries",
				logger.String("topic", h.Topic()),
				logger.Int64("offset", msg.Offset),
				logger.Error(err))
		}
		consumerHandleLatency.WithLabelValues(h.Topic()).Observe(time.Since(start).Seconds())

		if c.cfg.GroupID != "" {
			if err := r.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
				consumerErrors.WithLabelValues(h.Topic(), "commit").Inc()
				c.log.Warn("kafka consumer: commit failed", logger.String("topic", h.Topic()), logger.Error(err))
			}
		}
	}
}

func (c *Consumer) handle(ctx context.Context, h MessageHandler, data []byte) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxInterval = c.cfg.BackoffMax
	op := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = backoff.Permanent(fmt.Errorf("handler panic: %v", r))
			}
		}()
		return h.Handle(ctx, data)
	}
	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, c.cfg.RetryMax), ctx))
}

// Stop cancels the readers and waits for them until ctx expires.
func (c *Consumer) Stop(ctx context.Context) error {
	var stopErr error
	c.stopOnce.Do(func() {
		if c.cancel != nil {
			c.cancel()
		}
		done := make(chan struct{})
		go func() {
			c.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			stopErr = fmt.Errorf("timeout waiting for consumer to stop: %w", ctx.Err())
		}
		for topic, r := range c.readers {
			if err := r.Close(); err != nil {
				c.log.Warn("kafka consumer: close reader", logger.String("topic", topic), logger.Error(err))
			}
		}
	})
	return stopErr
}

var (
	consumerMetricsOnce   sync.Once
	consumerHandleLatency *prometheus.HistogramVec
	consumerErrors        *prometheus.CounterVec
)

func initConsumerMetrics() {
	consumerHandleLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "goldcast_kafka_consumer_handle_seconds",
		Help: "Handling time per message",
	}, []string{"topic"})
	consumerErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "goldcast_kafka_consumer_errors_total",
		Help: "Consumer errors by stage",
	}, []string{"topic", "stage"})
}
