package clickhouse

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildDSN(t *testing.T) {
	dsn := buildDSN(ClientConfig{
		Host:         "ch",
		Port:         9000,
		Database:     "goldcast",
		User:         "default",
		Password:     "p@ss",
		DialTimeout:  5 * time.Second,
		MaxExecTime:  30 * time.Second,
		AsyncInsert:  true,
		WaitForAsync: true,
	})
	assert.True(t, strings.HasPrefix(dsn, "clickhouse://default:p%40ss@ch:9000/goldcast?"), dsn)
	assert.Contains(t, dsn, "dial_timeout=5s")
	assert.Contains(t, dsn, "max_execution_time=30")
	assert.Contains(t, dsn, "wait_for_async_insert=1")
	assert.NotContains(t, dsn, "write_timeout")
}

func TestBuildDSNHTTP(t *testing.T) {
	dsn := buildDSN(ClientConfig{Host: "ch", Port: 8123, Database: "default", UseHTTP: true})
	assert.Equal(t, "http://ch:8123/default", dsn)
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := defaultConfig()
	WithAddr("", 0)(&cfg)
	assert.Error(t, cfg.normalize())

	cfg = defaultConfig()
	WithAddr("ch", 0)(&cfg)
	WithHTTP(true)(&cfg)
	WithPool(0, 2, 0)(&cfg)
	assert.NoError(t, cfg.normalize())
	assert.Equal(t, 8123, cfg.Port)
	assert.Equal(t, 10, cfg.MaxOpenConns)
	assert.Equal(t, 2, cfg.MaxIdleConns)
	assert.Equal(t, "ch:8123", cfg.addr())
}
