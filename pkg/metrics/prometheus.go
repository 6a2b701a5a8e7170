package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"GoldCast/internal/domain/models"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	predictions   *prometheus.CounterVec
	confidence    prometheus.Gauge
	verifications *prometheus.CounterVec
	accuracy      prometheus.Histogram
	weights       *prometheus.GaugeVec
	errorsTotal   *prometheus.CounterVec
	lastPrice     *prometheus.GaugeVec
	latency       *prometheus.HistogramVec
}

// New registers the collectors on reg; nil means the default registerer.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		predictions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goldcast_predictions_total",
				Help: "Predictions made, by signal label",
			},
			[]string{"signal"},
		),
		confidence: f.NewGauge(prometheus.GaugeOpts{
			Name: "goldcast_prediction_confidence",
			Help: "Confidence of the latest prediction",
		}),
		verifications: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goldcast_verifications_total",
				Help: "Verification outcomes",
			},
			[]string{"outcome"},
		),
		accuracy: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "goldcast_prediction_accuracy",
			Help:    "Accuracy score of verified predictions",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
		}),
		weights: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "goldcast_predictor_weight",
				Help: "Current base weight per predictor",
			},
			[]string{"predictor"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goldcast_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "goldcast_last_price",
				Help: "Last recorded price for a symbol",
			},
			[]string{"symbol"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "goldcast_operation_duration_seconds",
				Help:    "Duration of engine operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

func (r *Recorder) RecordPrediction(signal string, confidence float64) {
	r.predictions.WithLabelValues(signal).Inc()
	r.confidence.Set(confidence)
}

// RecordVerification counts the outcome; only verified outcomes carry an accuracy.
func (r *Recorder) RecordVerification(outcome string, accuracy float64) {
	r.verifications.WithLabelValues(outcome).Inc()
	if outcome == "verified" {
		r.accuracy.Observe(accuracy)
	}
}

func (r *Recorder) RecordWeights(w models.Weights) {
	for _, name := range models.PredictorNames {
		v, _ := w.Get(name)
		r.weights.WithLabelValues(string(name)).Set(v)
	}
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
