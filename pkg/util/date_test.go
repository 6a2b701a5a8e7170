package util

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	require.True(t, ok)
	assert.Equal(t, s, got.UTC().Format(time.RFC3339))
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	require.True(t, ok)
	assert.Equal(t, ts, got.Unix())
}

func TestParseTimeRejectsGarbage(t *testing.T) {
	_, ok := ParseTime("yesterday")
	assert.False(t, ok)
	_, ok = ParseTime("-5")
	assert.False(t, ok)
}

func TestIntHelpers(t *testing.T) {
	assert.Equal(t, 7, ParseIntDefault("", 7))
	assert.Equal(t, 7, ParseIntDefault("x", 7))
	assert.Equal(t, 42, ParseIntDefault("42", 7))
	assert.Equal(t, 1, ClampInt(-3, 1, 500))
	assert.Equal(t, 500, ClampInt(900, 1, 500))
	assert.Equal(t, 20, ClampInt(20, 1, 500))
}
