package usecase

import "SolCharts/internal/domain/models"

// PriceScale is the display precision applied to the candle series and every
// active overlay so all series share one scale.
type PriceScale struct {
	Precision int     `json:"precision"`
	MinMove   float64 `json:"minMove"`
}

// DefaultScale is used when no candles are available yet.
func DefaultScale() PriceScale { return PriceScale{Precision: 2, MinMove: 0.01} }

// SelectScale derives display precision from the magnitude of recent closes.
// Memecoin prices span many orders of magnitude, so the tier table runs from
// sub-satoshi dust up to normal quote prices. Recomputed only on bulk loads
// to avoid scale jitter on every tick.
func SelectScale(candles []models.Candle) PriceScale {
	if len(candles) == 0 {
		return DefaultScale()
	}
	sum := 0.0
	for _, c := range candles {
		sum += c.Close
	}
	mean := sum / float64(len(candles))

	switch {
	case mean < 0.0001:
		return PriceScale{Precision: 8, MinMove: 1e-8}
	case mean < 0.001:
		return PriceScale{Precision: 6, MinMove: 1e-6}
	case mean < 1:
		return PriceScale{Precision: 4, MinMove: 1e-4}
	default:
		return DefaultScale()
	}
}
