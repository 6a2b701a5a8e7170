package usecase

import (
	"GoldCast/internal/domain/models"
	"GoldCast/internal/services/analytics"
)

const (
	optimizeMinSamples = 10
	recentSamples      = 10
	trendSamples       = 5

	confidenceStep  = 0.02
	confidenceFloor = 0.2
	confidenceCap   = 0.6

	weightInertia = 0.7
)

// AnalyzePerformance averages accuracy*weight per predictor over verified predictions.
func AnalyzePerformance(preds []*models.Prediction) (res models.Result[models.PredictorPerformance]) {
	defer models.Guard(models.PredictorPerformance{}, &res)

	sums := make(map[models.PredictorName]float64)
	counts := make(map[models.PredictorName]int)
	for _, p := range preds {
		if p == nil || p.Accuracy == nil {
			continue
		}
		for _, name := range models.PredictorNames {
			w, _ := p.Weights.Get(name)
			sums[name] += *p.Accuracy * w
			counts[name]++
		}
	}
	perf := make(models.PredictorPerformance, len(sums))
	for name, s := range sums {
		perf[name] = s / float64(counts[name])
	}
	return models.OK(perf)
}

// RetuneConfidence drifts the base confidence by one step when the last ten
// accuracies are clearly good or clearly bad.
func RetuneConfidence(base float64, history []float64) (res models.Result[float64]) {
	defer models.Guard(base, &res)

	if len(history) < optimizeMinSamples {
		return models.OK(base)
	}
	m := analytics.Mean(analytics.Tail(history, recentSamples))
	switch {
	case m > 0.7:
		return models.OK(min(confidenceCap, base+confidenceStep))
	case m < poorAccuracy:
		return models.OK(max(confidenceFloor, base-confidenceStep))
	}
	return models.OK(base)
}

// RetuneWeights nudges each weight toward its predictor's share of measured performance.
func RetuneWeights(w models.Weights, perf models.PredictorPerformance) (res models.Result[models.Weights]) {
	defer models.Guard(w, &res)

	if len(perf) == 0 {
		return models.OK(w)
	}
	total := 0.0
	for _, v := range perf {
		total += v
	}
	if total > 0 {
		for _, name := range models.PredictorNames {
			v, ok := perf[name]
			if !ok {
				continue
			}
			old, _ := w.Get(name)
			w = w.With(name, weightInertia*old+(1-weightInertia)*v/total)
		}
	}
	if !analytics.Finite(w.Sum()) {
		return models.Fallback(w.Normalize(), models.ErrNonFinite)
	}
	return models.OK(w.Normalize())
}

// ComputeMetrics refreshes the aggregate fields. Counters are left as they are.
func ComputeMetrics(m models.PerformanceMetrics, history []float64) (res models.Result[models.PerformanceMetrics]) {
	defer models.Guard(m, &res)

	if len(history) == 0 {
		return models.OK(m)
	}
	m.AverageAccuracy = analytics.Mean(history)
	m.RecentAccuracy = analytics.Mean(analytics.Tail(history, recentSamples))
	m.ConfidenceTrend = 0
	if n := len(history); n >= recentSamples {
		m.ConfidenceTrend = analytics.Mean(history[n-trendSamples:]) - analytics.Mean(history[n-recentSamples:n-trendSamples])
	}
	return models.OK(m)
}
