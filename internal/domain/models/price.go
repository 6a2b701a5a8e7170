package models

import "time"

// Tick is a single quote as returned by a price feed.
type Tick struct {
	Symbol string
	Bid    float64
	Ask    float64
	Last   float64
	Volume float64
	Time   time.Time
}

// MainPrice returns the last traded price, or the bid when no trade price is known.
func (t Tick) MainPrice() float64 {
	if t.Last > 0 {
		return t.Last
	}
	return t.Bid
}

// PricePoint is one observation in the rolling price window. Immutable once created.
type PricePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
	Bid       float64   `json:"bid"`
	Ask       float64   `json:"ask"`
	Volume    float64   `json:"volume"`
	Spread    float64   `json:"spread"`
}

// NewPricePoint builds a PricePoint from a tick observed at the given time.
func NewPricePoint(t Tick, at time.Time) PricePoint {
	spread := 0.0
	if t.Ask > 0 && t.Bid > 0 {
		spread = t.Ask - t.Bid
	}
	return PricePoint{
		Timestamp: at,
		Price:     t.MainPrice(),
		Bid:       t.Bid,
		Ask:       t.Ask,
		Volume:    t.Volume,
		Spread:    spread,
	}
}

// Prices extracts the price series of a window.
func Prices(window []PricePoint) []float64 {
	out := make([]float64, len(window))
	for i, p := range window {
		out[i] = p.Price
	}
	return out
}

// Volumes extracts the volume series of a window.
func Volumes(window []PricePoint) []float64 {
	out := make([]float64, len(window))
	for i, p := range window {
		out[i] = p.Volume
	}
	return out
}
