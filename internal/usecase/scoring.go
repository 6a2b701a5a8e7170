package usecase

import (
	"math"

	"GoldCast/internal/domain/models"
	"GoldCast/internal/services/analytics"
)

const neutralAccuracy = 0.5

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// ScoreAccuracy rates a verified prediction in [0, 1] from direction correctness,
// magnitude closeness, the label strength and the stated confidence.
func ScoreAccuracy(predicted, actual, baseline float64, signal models.Signal, confidence float64) (res models.Result[float64]) {
	defer models.Guard(neutralAccuracy, &res)

	if !analytics.Finite(predicted, actual, baseline, confidence) {
		return models.Fallback(neutralAccuracy, models.ErrNonFinite)
	}
	if actual == baseline {
		return models.OK(neutralAccuracy)
	}

	directionCorrect := sign(predicted-baseline) == sign(actual-baseline)

	predictedMove := math.Abs(predicted - baseline)
	actualMove := math.Abs(actual - baseline)
	priceAccuracy := 1 - math.Min(math.Abs(predictedMove-actualMove)/actualMove, 1)

	bonus := 0.0
	if directionCorrect {
		switch {
		case signal.IsStrong():
			bonus = 0.1
		case signal.IsSlight():
			bonus = 0.05
		}
	}

	confFactor := confidence
	if !directionCorrect {
		confFactor = 1 - confidence
	}

	var acc float64
	if directionCorrect {
		acc = 0.4 + 0.4*priceAccuracy + 0.1*confFactor + bonus
	} else {
		acc = 0.3 * (1 - priceAccuracy) * (1 - confFactor)
	}
	return models.OK(analytics.Clamp(acc, 0, 1))
}
