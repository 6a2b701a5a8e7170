package kafka

import (
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProducerRequiresBrokers(t *testing.T) {
	_, err := NewProducer()
	assert.Error(t, err)
}

func TestProducerOptions(t *testing.T) {
	p, err := NewProducer(
		WithBrokers([]string{"k1:9092"}),
		WithDelivery(1, 0),
		WithBatching(10, 0, 50*time.Millisecond),
		WithHashByKey(true),
		WithCompression("snappy"),
	)
	require.NoError(t, err)
	defer p.Close()

	w := p.writer
	assert.Equal(t, kafka.RequiredAcks(1), w.RequiredAcks)
	assert.Equal(t, 3, w.MaxAttempts, "zero attempts keeps the default")
	assert.Equal(t, 10, w.BatchSize)
	assert.Equal(t, int64(1048576), w.BatchBytes)
	assert.Equal(t, 50*time.Millisecond, w.BatchTimeout)
	assert.IsType(t, &kafka.Hash{}, w.Balancer)
	assert.Equal(t, kafka.Snappy, w.Compression)
}

func TestEncode(t *testing.T) {
	b, err := encode("raw")
	require.NoError(t, err)
	assert.Equal(t, "raw", string(b))

	b, err = encode(map[string]int{"n": 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":1}`, string(b))

	assert.Equal(t, kafka.Gzip, parseCompression("brotli"))
	assert.Equal(t, kafka.Compression(0), parseCompression("none"))
}
