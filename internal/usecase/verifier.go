package usecase

import (
	"math"
	"time"

	"GoldCast/internal/domain/models"
)

// Outcome of evaluating one pending prediction.
type Outcome int

const (
	OutcomeSkipped Outcome = iota // not pending
	OutcomeMiss                   // no realized price yet, stays pending
	OutcomeVerified
	OutcomeExpired
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMiss:
		return "miss"
	case OutcomeVerified:
		return "verified"
	case OutcomeExpired:
		return "expired"
	}
	return "skipped"
}

// Verifier matches pending predictions with realized prices from the window.
type Verifier struct {
	Horizon      time.Duration
	Tolerance    time.Duration
	ExpireFactor float64
}

// FindRealizedPrice returns the price of the point closest to target, accepted
// only when the gap is strictly below tolerance.
func FindRealizedPrice(window []models.PricePoint, target time.Time, tolerance time.Duration) (float64, bool) {
	best := time.Duration(math.MaxInt64)
	price := 0.0
	for _, p := range window {
		d := p.Timestamp.Sub(target)
		if d < 0 {
			d = -d
		}
		if d < best {
			best = d
			price = p.Price
		}
	}
	if best >= tolerance {
		return 0, false
	}
	return price, true
}

func (v Verifier) target(p *models.Prediction) time.Time {
	if !p.TargetTime.IsZero() {
		return p.TargetTime
	}
	return p.Timestamp.Add(v.Horizon)
}

// ExpiresAt is the moment a still-unmatched prediction becomes unverifiable. It is
// never earlier than target + tolerance, so a late realized point is still accepted.
func (v Verifier) ExpiresAt(p *models.Prediction) time.Time {
	byFactor := p.Timestamp.Add(time.Duration(v.ExpireFactor * float64(v.Horizon)))
	byTolerance := v.target(p).Add(v.Tolerance)
	if byFactor.After(byTolerance) {
		return byFactor
	}
	return byTolerance
}

// Evaluate mutates p at most once: verified with an accuracy score, or expired.
func (v Verifier) Evaluate(p *models.Prediction, window []models.PricePoint, now time.Time) Outcome {
	if !p.Pending() {
		return OutcomeSkipped
	}
	if actual, ok := FindRealizedPrice(window, v.target(p), v.Tolerance); ok {
		acc := ScoreAccuracy(p.PredictedPrice, actual, p.CurrentPrice, p.Signal, p.Confidence).Value
		if p.MarkVerified(actual, acc, now) {
			return OutcomeVerified
		}
		return OutcomeSkipped
	}
	if !now.Before(v.ExpiresAt(p)) && p.MarkExpired(now) {
		return OutcomeExpired
	}
	return OutcomeMiss
}
