package analytics

import (
	"math"
	"time"

	"GoldCast/internal/domain/models"
)

var t0 = time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

func windowOf(prices ...float64) []models.PricePoint {
	out := make([]models.PricePoint, len(prices))
	for i, p := range prices {
		out[i] = models.PricePoint{Timestamp: t0.Add(time.Duration(i) * 10 * time.Second), Price: p, Bid: p, Ask: p}
	}
	return out
}

func constant(n int, price float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = price
	}
	return out
}

func geometric(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start * math.Pow(1+step, float64(i))
	}
	return out
}
