package models

import (
	"strings"
	"time"
)

// MethodAdaptiveEnsemble tags every prediction made by the engine.
const MethodAdaptiveEnsemble = "adaptive_ensemble"

// Signal is the discrete directional label of a prediction.
type Signal string

const (
	SignalStrongBullish   Signal = "strong bullish"
	SignalBullish         Signal = "bullish"
	SignalSlightlyBullish Signal = "slightly bullish"
	SignalStrongBearish   Signal = "strong bearish"
	SignalBearish         Signal = "bearish"
	SignalSlightlyBearish Signal = "slightly bearish"
	SignalFlat            Signal = "flat"
)

// IsStrong reports whether the label is one of the strong labels.
func (s Signal) IsStrong() bool { return strings.Contains(string(s), "strong") }

// IsSlight reports whether the label is one of the slight labels.
func (s Signal) IsSlight() bool { return strings.Contains(string(s), "slightly") }

// IsBearish reports whether the label points down.
func (s Signal) IsBearish() bool { return strings.Contains(string(s), "bearish") }

// PredictionStatus tracks the verification lifecycle: pending -> verified | expired.
type PredictionStatus string

const (
	StatusPending  PredictionStatus = "pending"
	StatusVerified PredictionStatus = "verified"
	// StatusExpired marks a prediction that never found a realized price in time.
	StatusExpired PredictionStatus = "expired"
)

// ComponentPrediction is the output of one predictor for one cycle.
type ComponentPrediction struct {
	Predictor       PredictorName      `json:"predictor"`
	PredictedPrice  float64            `json:"predicted_price"`
	LocalConfidence float64            `json:"local_confidence"`
	Components      map[string]float64 `json:"components,omitempty"`
}

// Prediction is an ensemble forecast and its verification outcome.
type Prediction struct {
	ID             string           `json:"id"`
	Symbol         string           `json:"symbol"`
	Timestamp      time.Time        `json:"timestamp"`
	CurrentPrice   float64          `json:"current_price"`
	PredictedPrice float64          `json:"predicted_price"`
	Signal         Signal           `json:"signal"`
	Confidence     float64          `json:"confidence"`
	Method         string           `json:"method"`
	Weights        Weights          `json:"predictor_weights"`
	Conditions     MarketConditions `json:"market_conditions"`
	TargetTime     time.Time        `json:"target_time"`
	Status         PredictionStatus `json:"status"`
	ActualPrice    *float64         `json:"actual_price,omitempty"`
	Accuracy       *float64         `json:"accuracy,omitempty"`
	VerifiedAt     *time.Time       `json:"verified_at,omitempty"`
	ExpiredAt      *time.Time       `json:"expired_at,omitempty"`
}

// Pending reports whether the prediction still awaits verification.
func (p *Prediction) Pending() bool {
	return p.VerifiedAt == nil && p.ExpiredAt == nil && p.Status != StatusVerified && p.Status != StatusExpired
}

// PriceChange is the predicted absolute move.
func (p *Prediction) PriceChange() float64 { return p.PredictedPrice - p.CurrentPrice }

// PriceChangePct is the predicted move as a fraction of the current price.
func (p *Prediction) PriceChangePct() float64 {
	if p.CurrentPrice == 0 {
		return 0
	}
	return p.PriceChange() / p.CurrentPrice
}

// MarkVerified records the realized outcome. It is a no-op on a prediction that is not pending.
func (p *Prediction) MarkVerified(actual, accuracy float64, at time.Time) bool {
	if !p.Pending() {
		return false
	}
	p.ActualPrice = &actual
	p.Accuracy = &accuracy
	p.VerifiedAt = &at
	p.Status = StatusVerified
	return true
}

// MarkExpired closes a prediction that can no longer be verified. Actual price,
// accuracy and verified_at stay null.
func (p *Prediction) MarkExpired(at time.Time) bool {
	if !p.Pending() {
		return false
	}
	p.ExpiredAt = &at
	p.Status = StatusExpired
	return true
}

// Clone returns a deep copy.
func (p *Prediction) Clone() *Prediction {
	if p == nil {
		return nil
	}
	c := *p
	if p.ActualPrice != nil {
		v := *p.ActualPrice
		c.ActualPrice = &v
	}
	if p.Accuracy != nil {
		v := *p.Accuracy
		c.Accuracy = &v
	}
	if p.VerifiedAt != nil {
		v := *p.VerifiedAt
		c.VerifiedAt = &v
	}
	if p.ExpiredAt != nil {
		v := *p.ExpiredAt
		c.ExpiredAt = &v
	}
	return &c
}

// PredictionFilter narrows prediction listings.
type PredictionFilter struct {
	Status PredictionStatus
	From   time.Time
	To     time.Time
	Limit  int
}
