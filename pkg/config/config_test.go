package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimal = `
environment: test
engine:
  interval_minutes: 5
  data_collection_seconds: 10
  min_data_points: 20
unknown_section:
  ignored: true
`

func TestParseAppliesDefaults(t *testing.T) {
	c, err := Parse([]byte(minimal))
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	assert.Equal(t, "XAUUSD", c.Engine.Symbol)
	assert.Equal(t, 1000, c.Engine.MaxHistorySize)
	assert.Equal(t, 20, c.Engine.AccuracyWindow)
	assert.Equal(t, 0.3, c.Engine.ConfidenceBase)
	assert.Equal(t, 60*time.Second, c.Engine.VerifyEvery)
	assert.Equal(t, 5*time.Minute, c.Engine.MatchTolerance)
	assert.Equal(t, 2.0, c.Engine.ExpireAfterFactor)
	assert.Equal(t, "quote", c.Feed.Type)
	assert.Equal(t, "memory", c.Storage.Type)
	assert.Equal(t, "predictions", c.ClickHouse.Tables.Predictions)
	assert.Equal(t, 30, c.Notify.IntervalMinutes)
	assert.False(t, c.Notify.Enabled)
	assert.Equal(t, 8080, c.Server.Port)
}

func TestValidateRequiresCadenceKeys(t *testing.T) {
	c, err := Parse([]byte("environment: test\nengine:\n  interval_minutes: 5\n"))
	require.NoError(t, err)
	err = c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DataCollectionSeconds")
	assert.Contains(t, err.Error(), "MinDataPoints")
}

func TestValidateCrossSection(t *testing.T) {
	c, err := Parse([]byte(minimal + "notify:\n  enabled: true\n"))
	require.NoError(t, err)
	assert.ErrorContains(t, c.Validate(), "telegram")

	c, err = Parse([]byte(minimal + "feed:\n  type: kafka\n"))
	require.NoError(t, err)
	assert.ErrorContains(t, c.Validate(), "kafka.brokers")

	c, err = Parse([]byte(minimal + "feed:\n  type: carrier-pigeon\n"))
	require.NoError(t, err)
	assert.Error(t, c.Validate())
}

func TestApplyEnv(t *testing.T) {
	c, err := Parse([]byte(minimal))
	require.NoError(t, err)
	env := map[string]string{
		"KAFKA_BROKERS":      "k1:9092, k2:9092",
		"TELEGRAM_CHAT_IDS":  "123,-456",
		"TELEGRAM_BOT_TOKEN": "tok",
		"SYMBOL":             "XAGUSD",
		"STORAGE_TYPE":       "clickhouse",
		"PORT":               "9090",
	}
	require.NoError(t, c.applyEnv(func(k string) string { return env[k] }))
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Kafka.Brokers)
	assert.Equal(t, []int64{123, -456}, c.Telegram.ChatIDs)
	assert.Equal(t, "XAGUSD", c.Engine.Symbol)
	assert.Equal(t, "clickhouse", c.Storage.Type)
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, []string{"*"}, c.Server.CORSOrigins)

	env["TELEGRAM_CHAT_IDS"] = "abc"
	assert.Error(t, c.applyEnv(func(k string) string { return env[k] }))
}

func TestLoadWithEnvFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimal), 0o600))
	t.Setenv("FEED_TYPE", "quote")
	t.Setenv("QUOTE_API_KEY", "from-env")

	c, err := LoadWithEnv(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.Quote.APIKey)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSampleConfigIsValid(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "config", "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "XAUUSD", c.Engine.Symbol)
	assert.Equal(t, 30, c.Engine.IntervalMinutes)
	assert.Equal(t, "quote", c.Feed.Type)
	assert.Equal(t, 20, c.API.RateLimitBurst)
}
