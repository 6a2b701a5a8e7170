package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"GoldCast/internal/domain/models"
)

func TestRecorder(t *testing.T) {
	r := New(prometheus.NewRegistry())

	r.RecordPrediction("bullish", 0.42)
	r.RecordPrediction("bullish", 0.5)
	r.RecordVerification("verified", 0.8)
	r.RecordVerification("expired", 0)
	r.RecordWeights(models.DefaultWeights())
	r.RecordLastPrice("XAUUSD", 2015.5)
	r.RecordError("feed")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.predictions.WithLabelValues("bullish")))
	assert.Equal(t, 0.5, testutil.ToFloat64(r.confidence))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.verifications.WithLabelValues("expired")))
	assert.Equal(t, 0.4, testutil.ToFloat64(r.weights.WithLabelValues("technical")))
	assert.Equal(t, 2015.5, testutil.ToFloat64(r.lastPrice.WithLabelValues("XAUUSD")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues("feed")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.accuracy))
}
