package di

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalrepo "GoldCast/internal/repository"
	"GoldCast/internal/service/finnhub"
	"GoldCast/internal/service/quote"
	"GoldCast/pkg/cache"
	"GoldCast/pkg/config"
	applogger "GoldCast/pkg/logger"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c, err := config.Parse([]byte(`
environment: test
engine:
  interval_minutes: 15
  data_collection_seconds: 30
  min_data_points: 10
notify:
  interval_minutes: 45
  min_confidence: 0.4
feed:
  retry_delay: 3s
`))
	require.NoError(t, err)
	require.NoError(t, c.Validate())
	return c
}

func TestProvideEngineConfig(t *testing.T) {
	ec := ProvideEngineConfig(testConfig(t))

	assert.Equal(t, "XAUUSD", ec.Symbol)
	assert.Equal(t, 15, ec.IntervalMinutes)
	assert.Equal(t, 30, ec.DataCollectionSeconds)
	assert.Equal(t, 10, ec.MinDataPoints)
	assert.Equal(t, 3*time.Second, ec.FeedRetryDelay)
	assert.Equal(t, 45*time.Minute, ec.Notify.Interval)
	assert.Equal(t, 0.4, ec.Notify.MinConfidence)
	assert.False(t, ec.Notify.Enabled)
}

func TestProvideDefaultsNeedNoInfrastructure(t *testing.T) {
	cfg := testConfig(t)
	l := applogger.Nop()

	producer, err := ProvideKafkaProducer(cfg)
	require.NoError(t, err)
	assert.Nil(t, producer)
	assert.IsType(t, internalrepo.NoopEventPublisher{}, ProvideEventPublisher(producer, cfg))

	store, err := ProvideStore(cfg, l)
	require.NoError(t, err)
	assert.IsType(t, &internalrepo.MemoryStore{}, store)

	feed, err := ProvidePriceFeed(cfg, l)
	require.NoError(t, err)
	assert.IsType(t, &quote.Client{}, feed)

	c, err := ProvideCache(cfg)
	require.NoError(t, err)
	assert.IsType(t, &cache.MemoryCache{}, c)
	t.Cleanup(func() { _ = c.Close() })

	n, err := ProvideNotifier(cfg, l)
	require.NoError(t, err)
	assert.Nil(t, n)
}

func TestProvidePriceFeedFinnhub(t *testing.T) {
	cfg := testConfig(t)
	cfg.Feed.Type = "finnhub"
	cfg.Finnhub.APIKey = "k"

	feed, err := ProvidePriceFeed(cfg, applogger.Nop())
	require.NoError(t, err)
	assert.IsType(t, &finnhub.Client{}, feed)
}

func TestInitializeApp(t *testing.T) {
	app, err := InitializeApp(testConfig(t))
	require.NoError(t, err)
	assert.NotNil(t, app)
}
