package di

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"GoldCast/internal/domain/repository"
	"GoldCast/internal/handler/api"
	internalrepo "GoldCast/internal/repository"
	"GoldCast/internal/service/finnhub"
	svcmetrics "GoldCast/internal/service/metrics"
	"GoldCast/internal/service/quote"
	"GoldCast/internal/service/tickfeed"
	"GoldCast/internal/usecase"
	"GoldCast/pkg/cache"
	pkgch "GoldCast/pkg/clickhouse"
	"GoldCast/pkg/config"
	xhttp "GoldCast/pkg/http"
	pkgkafka "GoldCast/pkg/kafka"
	applogger "GoldCast/pkg/logger"
	"GoldCast/pkg/metrics"
	"GoldCast/pkg/server"
)

// ProvideKafkaProducer creates the event producer; nil when events are disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Events.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithDelivery(cfg.Kafka.RequiredAcks, cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.BatchBytes, cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithAutoCreateTopics(cfg.Kafka.Producer.AutoCreate),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideEventPublisher publishes engine events to Kafka, or drops them without a producer.
func ProvideEventPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.EventPublisher {
	if producer == nil {
		return internalrepo.NoopEventPublisher{}
	}
	return internalrepo.NewKafkaEventPublisher(producer, internalrepo.KafkaTopics{
		Predictions: cfg.Events.PredictionsTopic,
		Snapshots:   cfg.Events.SnapshotsTopic,
	})
}

// ProvideLogger builds the root logger. With events enabled, error logs are
// aggregated and shipped to the logs topic.
func ProvideLogger(cfg *config.Config, pub repository.EventPublisher) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	if cfg.Events.Enabled {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   cfg.Events.LogFlushInterval,
			CountThreshold: cfg.Events.LogThreshold,
			Topic:          cfg.Events.LogsTopic,
			Publisher:      pub,
		})
	}
	return l, nil
}

func ProvideMetrics() repository.Metrics {
	return metrics.New(nil)
}

func ProvideAPIMetrics() *svcmetrics.APIMetrics {
	return svcmetrics.NewAPIMetrics(nil)
}

// ProvideClickHouseClient connects and applies the idempotent schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithAddr(cfg.ClickHouse.Host, cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithPool(cfg.ClickHouse.MaxOpenConns, cfg.ClickHouse.MaxIdleConns, cfg.ClickHouse.ConnMaxLifetime),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, chTables(cfg).Schema()); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

func chTables(cfg *config.Config) internalrepo.CHTables {
	return internalrepo.CHTables{
		Prices:      cfg.ClickHouse.Tables.Prices,
		Predictions: cfg.ClickHouse.Tables.Predictions,
		Snapshots:   cfg.ClickHouse.Tables.Snapshots,
	}
}

// ProvideStore selects the memory or ClickHouse store.
func ProvideStore(cfg *config.Config, l *applogger.Logger) (repository.Store, error) {
	switch cfg.Storage.Type {
	case "clickhouse":
		client, err := ProvideClickHouseClient(cfg)
		if err != nil {
			return nil, err
		}
		return internalrepo.NewClickHouseStore(client, chTables(cfg), l.With("clickhouse")), nil
	default:
		return internalrepo.NewMemoryStore(cfg.Storage.MaxMemoryPrices), nil
	}
}

// ProvideKafkaConsumer creates the tick consumer used by the kafka feed.
func ProvideKafkaConsumer(cfg *config.Config, l *applogger.Logger) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerLatest(!cfg.Kafka.Consumer.FromStart),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
		pkgkafka.WithConsumerLogger(l.With("kafka-consumer")),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvidePriceFeed selects the REST quote poller, the Finnhub stream or the Kafka tick topic.
func ProvidePriceFeed(cfg *config.Config, l *applogger.Logger) (repository.PriceFeed, error) {
	switch cfg.Feed.Type {
	case "finnhub":
		return finnhub.New(finnhub.Config{
			APIKey:         cfg.Finnhub.APIKey,
			WebsocketURL:   cfg.Finnhub.WebSocketURL,
			Symbols:        []string{cfg.Finnhub.Symbol},
			Aliases:        map[string]string{cfg.Engine.Symbol: cfg.Finnhub.Symbol},
			ReconnectDelay: cfg.Finnhub.ReconnectDelay,
			PingInterval:   cfg.Finnhub.PingInterval,
			StaleAfter:     cfg.Feed.StaleAfter,
		}, l.With("finnhub")), nil
	case "kafka":
		consumer, err := ProvideKafkaConsumer(cfg, l)
		if err != nil {
			return nil, err
		}
		return tickfeed.New(cfg.Feed.TickTopic, consumer, l.With("tickfeed")), nil
	default:
		return quote.New(quote.Config{
			BaseURL:           cfg.Quote.BaseURL,
			APIKey:            cfg.Quote.APIKey,
			Symbol:            cfg.Quote.Symbol,
			RequestsPerSecond: cfg.Quote.RequestsPerSecond,
			Burst:             cfg.Quote.Burst,
			Timeout:           cfg.Quote.Timeout,
			MaxElapsed:        cfg.Quote.MaxElapsed,
		}, l.With("quote")), nil
	}
}

// ProvideCache is in memory, or layered over Redis when Redis is enabled so the
// push lock is shared between replicas.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	memOpts := []cache.MemoryOption{cache.WithMemoryMaxSize(cfg.Cache.MaxEntries)}
	if !cfg.Redis.Enabled {
		return cache.NewMemoryCache(memOpts...), nil
	}
	host, _ := os.Hostname()
	rc, err := cache.NewRedisCache(host+"-"+uuid.NewString(),
		cache.WithRedisAddr(cfg.Redis.Addr),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(rc, cfg.Cache.StatusTTL, memOpts...), nil
}

// ProvideNotifier returns the Telegram notifier, or nil when no bot is configured.
func ProvideNotifier(cfg *config.Config, l *applogger.Logger) (repository.Notifier, error) {
	if cfg.Telegram.BotToken == "" || len(cfg.Telegram.ChatIDs) == 0 {
		return nil, nil
	}
	bot, err := internalrepo.NewTelegramBot(cfg.Telegram.BotToken)
	if err != nil {
		return nil, err
	}
	return internalrepo.NewTelegramNotifier(bot, cfg.Telegram.ChatIDs, int(cfg.Notify.MaxRetries), l.With("telegram")), nil
}

// ProvideEngineConfig maps the YAML sections onto the engine's typed config.
func ProvideEngineConfig(cfg *config.Config) usecase.EngineConfig {
	e := cfg.Engine
	return usecase.EngineConfig{
		Symbol:                e.Symbol,
		IntervalMinutes:       e.IntervalMinutes,
		DataCollectionSeconds: e.DataCollectionSeconds,
		MinDataPoints:         e.MinDataPoints,
		MaxHistorySize:        e.MaxHistorySize,
		AccuracyWindow:        e.AccuracyWindow,
		ConfidenceBase:        e.ConfidenceBase,

		VerifyEvery:          e.VerifyEvery,
		OptimizeEvery:        e.OptimizeEvery,
		SnapshotEvery:        e.SnapshotEvery,
		PredictionCheckEvery: e.PredictionCheckEvery,
		ExpireAfterFactor:    e.ExpireAfterFactor,
		MatchTolerance:       e.MatchTolerance,

		FeedRetryDelay:    cfg.Feed.RetryDelay,
		FeedErrorDelay:    cfg.Feed.ErrorDelay,
		PredictErrorDelay: cfg.Feed.PredictErrorDelay,
		ReloadTimeout:     e.ReloadTimeout,

		Notify: usecase.NotifyPolicy{
			Enabled:       cfg.Notify.Enabled,
			Interval:      time.Duration(cfg.Notify.IntervalMinutes) * time.Minute,
			MinConfidence: cfg.Notify.MinConfidence,
			MinChangePct:  cfg.Notify.MinPriceChangePct,
		},
	}
}

func ProvideEngine(
	ecfg usecase.EngineConfig,
	feed repository.PriceFeed,
	store repository.Store,
	notifier repository.Notifier,
	pub repository.EventPublisher,
	rec repository.Metrics,
	c cache.Service,
	l *applogger.Logger,
) (*usecase.Engine, error) {
	opts := []usecase.EngineOption{
		usecase.WithLogger(l.With("engine")),
		usecase.WithPublisher(pub),
		usecase.WithMetrics(rec),
		usecase.WithLocker(c),
	}
	if notifier != nil {
		opts = append(opts, usecase.WithNotifier(notifier))
	}
	return usecase.NewEngine(ecfg, feed, store, opts...)
}

func ProvideHandler(
	cfg *config.Config,
	engine *usecase.Engine,
	store repository.Store,
	c cache.Service,
	m *svcmetrics.APIMetrics,
	l *applogger.Logger,
) *api.EngineEchoHandler {
	return api.NewEngineEchoHandler(api.Config{
		StatusTTL:       cfg.Cache.StatusTTL,
		MaxListLimit:    cfg.API.MaxListLimit,
		RateLimitPerSec: cfg.API.RateLimitPerSec,
		RateLimitBurst:  cfg.API.RateLimitBurst,
	}, engine, store, c, m, l)
}

func ProvideHTTPServer(cfg *config.Config, h *api.EngineEchoHandler, l *applogger.Logger) *xhttp.Server {
	return xhttp.NewServer(h,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithSlowThreshold(cfg.Server.SlowThreshold),
		xhttp.WithCORS(cfg.Server.CORSOrigins...),
		xhttp.WithLogger(l),
	)
}

func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	engine *usecase.Engine,
	srv *xhttp.Server,
	feed repository.PriceFeed,
	store repository.Store,
	pub repository.EventPublisher,
	c cache.Service,
) *server.App {
	app := server.New(cfg, l, engine, srv, feed, store, pub)
	app.OnClose("cache", c)
	return app
}
