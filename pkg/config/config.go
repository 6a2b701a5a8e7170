package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	xutil "GoldCast/pkg/util"
)

type Config struct {
	Environment string         `yaml:"environment" default:"development" validate:"oneof=development staging production test"`
	Server      ServerConfig   `yaml:"server"`
	Log         LogConfig      `yaml:"log"`
	Engine      EngineConfig   `yaml:"engine"`
	Feed        FeedConfig     `yaml:"feed"`
	Storage     StorageConfig  `yaml:"storage"`
	ClickHouse  ClickHouse     `yaml:"clickhouse"`
	Kafka       KafkaConfig    `yaml:"kafka"`
	Events      EventsConfig   `yaml:"events"`
	Redis       RedisConfig    `yaml:"redis"`
	Cache       CacheConfig    `yaml:"cache"`
	Notify      NotifyConfig   `yaml:"notify"`
	Telegram    TelegramConfig `yaml:"telegram"`
	Finnhub     FinnhubConfig  `yaml:"finnhub"`
	Quote       QuoteConfig    `yaml:"quote"`
	API         APIConfig      `yaml:"api"`
}

type ServerConfig struct {
	Port            int           `yaml:"port" default:"8080" validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"15s"`
	SlowThreshold   time.Duration `yaml:"slow_threshold" default:"1s"`
	CORSOrigins     []string      `yaml:"cors_origins" default:"[\"*\"]"`
}

type LogConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" default:"json" validate:"oneof=json console"`
	Output string `yaml:"output" default:"stdout"`
}

// EngineConfig holds the forecaster cadence. The first three keys have no default.
type EngineConfig struct {
	IntervalMinutes       int `yaml:"interval_minutes" validate:"required,gt=0"`
	DataCollectionSeconds int `yaml:"data_collection_seconds" validate:"required,gt=0"`
	MinDataPoints         int `yaml:"min_data_points" validate:"required,gt=0"`

	Symbol               string        `yaml:"symbol" default:"XAUUSD" validate:"required"`
	MaxHistorySize       int           `yaml:"max_history_size" default:"1000" validate:"gt=0"`
	AccuracyWindow       int           `yaml:"accuracy_window" default:"20" validate:"gt=0"`
	ConfidenceBase       float64       `yaml:"confidence_base" default:"0.3" validate:"gt=0,lte=1"`
	VerifyEvery          time.Duration `yaml:"verify_every" default:"60s"`
	OptimizeEvery        time.Duration `yaml:"optimize_every" default:"600s"`
	SnapshotEvery        time.Duration `yaml:"snapshot_every" default:"300s"`
	PredictionCheckEvery time.Duration `yaml:"prediction_check_every" default:"1s"`
	ExpireAfterFactor    float64       `yaml:"expire_after_factor" default:"2" validate:"gte=1"`
	MatchTolerance       time.Duration `yaml:"match_tolerance" default:"5m"`
	ReloadTimeout        time.Duration `yaml:"reload_timeout" default:"30s"`
}

type FeedConfig struct {
	Type              string        `yaml:"type" default:"quote" validate:"oneof=quote finnhub kafka"`
	RetryDelay        time.Duration `yaml:"retry_delay" default:"2s"`
	ErrorDelay        time.Duration `yaml:"error_delay" default:"30s"`
	PredictErrorDelay time.Duration `yaml:"predict_error_delay" default:"10s"`
	StaleAfter        time.Duration `yaml:"stale_after" default:"2m"`
	TickTopic         string        `yaml:"tick_topic" default:"goldcast.ticks"`
}

type StorageConfig struct {
	Type            string `yaml:"type" default:"memory" validate:"oneof=memory clickhouse"`
	MaxMemoryPrices int    `yaml:"max_memory_prices" default:"100000"`
}

type ClickHouse struct {
	Host             string        `yaml:"host" default:"localhost"`
	Port             int           `yaml:"port" default:"9000"`
	Database         string        `yaml:"database" default:"goldcast"`
	User             string        `yaml:"user" default:"default"`
	Password         string        `yaml:"password"`
	UseHTTP          bool          `yaml:"use_http"`
	AsyncInsert      bool          `yaml:"async_insert"`
	WaitForAsync     bool          `yaml:"wait_for_async_insert"`
	DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
	ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
	WriteTimeout     time.Duration `yaml:"write_timeout" default:"10s"`
	MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"30s"`
	MaxOpenConns     int           `yaml:"max_open_conns" default:"10"`
	MaxIdleConns     int           `yaml:"max_idle_conns" default:"5"`
	ConnMaxLifetime  time.Duration `yaml:"conn_max_lifetime" default:"5m"`
	Tables           struct {
		Prices      string `yaml:"prices" default:"price_history"`
		Predictions string `yaml:"predictions" default:"predictions"`
		Snapshots   string `yaml:"snapshots" default:"performance_snapshots"`
	} `yaml:"tables"`
}

type KafkaConfig struct {
	Brokers      []string `yaml:"brokers"`
	RequiredAcks int      `yaml:"required_acks" default:"1"`
	Compression  string   `yaml:"compression" default:"snappy" validate:"oneof=none gzip snappy lz4 zstd"`
	Producer     struct {
		MaxAttempts  int           `yaml:"max_attempts" default:"5"`
		Linger       time.Duration `yaml:"linger" default:"50ms"`
		BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
		BatchSize    int           `yaml:"batch_size" default:"100"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
		Async        bool          `yaml:"async"`
		AutoCreate   bool          `yaml:"auto_create_topics"`
	} `yaml:"producer"`
	Consumer struct {
		GroupID    string        `yaml:"group_id" default:"goldcast-engine"`
		RetryMax   uint64        `yaml:"retry_max" default:"3"`
		BackoffMax time.Duration `yaml:"backoff_max" default:"2s"`
		MinBytes   int           `yaml:"min_bytes" default:"1"`
		MaxBytes   int           `yaml:"max_bytes" default:"10485760"`
		FromStart  bool          `yaml:"from_start"`
	} `yaml:"consumer"`
}

type EventsConfig struct {
	Enabled          bool          `yaml:"enabled"`
	PredictionsTopic string        `yaml:"predictions_topic" default:"goldcast.predictions"`
	SnapshotsTopic   string        `yaml:"snapshots_topic" default:"goldcast.snapshots"`
	LogsTopic        string        `yaml:"logs_topic" default:"goldcast.logs"`
	LogFlushInterval time.Duration `yaml:"log_flush_interval" default:"1m"`
	LogThreshold     int           `yaml:"log_threshold" default:"50"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr" default:"localhost:6379"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type CacheConfig struct {
	StatusTTL  time.Duration `yaml:"status_ttl" default:"5s"`
	MaxEntries int           `yaml:"max_entries" default:"1000"`
}

type NotifyConfig struct {
	Enabled           bool    `yaml:"enabled"`
	IntervalMinutes   int     `yaml:"interval_minutes" default:"30" validate:"gt=0"`
	MinConfidence     float64 `yaml:"min_confidence" default:"0.3" validate:"gte=0,lte=1"`
	MinPriceChangePct float64 `yaml:"min_price_change_pct" default:"0.1" validate:"gte=0"`
	MaxRetries        uint64  `yaml:"max_retries" default:"3"`
}

type TelegramConfig struct {
	BotToken string  `yaml:"bot_token"`
	ChatIDs  []int64 `yaml:"chat_ids"`
}

type FinnhubConfig struct {
	APIKey         string        `yaml:"api_key"`
	WebSocketURL   string        `yaml:"websocket_url" default:"wss://ws.finnhub.io"`
	Symbol         string        `yaml:"symbol" default:"OANDA:XAU_USD"`
	ReconnectDelay time.Duration `yaml:"reconnect_delay" default:"5s"`
	PingInterval   time.Duration `yaml:"ping_interval" default:"30s"`
}

type QuoteConfig struct {
	BaseURL           string        `yaml:"base_url" default:"https://finnhub.io/api/v1/quote" validate:"omitempty,url"`
	APIKey            string        `yaml:"api_key"`
	Symbol            string        `yaml:"symbol"`
	RequestsPerSecond float64       `yaml:"requests_per_second" default:"1"`
	Burst             int           `yaml:"burst" default:"1"`
	Timeout           time.Duration `yaml:"timeout" default:"10s"`
	MaxElapsed        time.Duration `yaml:"max_elapsed" default:"8s"`
}

type APIConfig struct {
	RateLimitBurst  int     `yaml:"rate_limit_burst" default:"20"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec" default:"10"`
	MaxListLimit    int     `yaml:"max_list_limit" default:"500"`
}

var validate = validator.New()

// Parse decodes YAML and fills defaults. Unknown keys are ignored.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	return &c, nil
}

// Load reads, defaults and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	c, err := Parse(b)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	c, err := Parse(b)
	if err != nil {
		return nil, err
	}
	if err := c.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	set := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set("FINNHUB_API_KEY", &c.Finnhub.APIKey)
	set("QUOTE_API_KEY", &c.Quote.APIKey)
	set("TELEGRAM_BOT_TOKEN", &c.Telegram.BotToken)
	set("CLICKHOUSE_HOST", &c.ClickHouse.Host)
	set("CLICKHOUSE_PASSWORD", &c.ClickHouse.Password)
	set("REDIS_ADDR", &c.Redis.Addr)
	set("FEED_TYPE", &c.Feed.Type)
	set("STORAGE_TYPE", &c.Storage.Type)
	set("SYMBOL", &c.Engine.Symbol)
	c.Server.Port = xutil.ParseIntDefault(getenv("PORT"), c.Server.Port)

	if v := getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = splitList(v)
	}
	if v := getenv("TELEGRAM_CHAT_IDS"); v != "" {
		ids := make([]int64, 0)
		for _, s := range splitList(v) {
			id, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return fmt.Errorf("TELEGRAM_CHAT_IDS: %q is not a chat id", s)
			}
			ids = append(ids, id)
		}
		c.Telegram.ChatIDs = ids
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks struct tags, then the rules that span sections.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	if c.Feed.Type == "finnhub" && c.Finnhub.APIKey == "" {
		return errors.New("finnhub.api_key is required when feed.type is finnhub")
	}
	if (c.Feed.Type == "kafka" || c.Events.Enabled) && len(c.Kafka.Brokers) == 0 {
		return errors.New("kafka.brokers is required for the kafka feed and for events")
	}
	if c.Notify.Enabled && (c.Telegram.BotToken == "" || len(c.Telegram.ChatIDs) == 0) {
		return errors.New("telegram.bot_token and telegram.chat_ids are required when notify.enabled")
	}
	return nil
}
