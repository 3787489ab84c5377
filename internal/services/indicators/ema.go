package indicators

import "SolCharts/internal/domain/models"

// EMA computes an exponential moving average of closes, seeded with the
// first close. Emits a point for every candle so the overlay spans the
// whole series.
func EMA(candles []models.Candle, period int) []models.IndicatorPoint {
	if period <= 0 || len(candles) == 0 {
		return nil
	}
	series := emaSeries(closeSeries(candles), period)
	out := make([]models.IndicatorPoint, len(candles))
	for i := range candles {
		out[i] = models.IndicatorPoint{Time: candles[i].Time, Value: series[i]}
	}
	return out
}
