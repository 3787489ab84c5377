package indicators

import "SolCharts/internal/domain/models"

// SMA computes a simple moving average of closes over the given period.
// Points start at the first fully-formed window.
func SMA(candles []models.Candle, period int) []models.IndicatorPoint {
	if period <= 0 || len(candles) < period {
		return nil
	}
	xs := closeSeries(candles)
	out := make([]models.IndicatorPoint, 0, len(candles)-period+1)

	sum := 0.0
	for i, x := range xs {
		sum += x
		if i >= period {
			sum -= xs[i-period]
		}
		if i >= period-1 {
			out = append(out, models.IndicatorPoint{
				Time:  candles[i].Time,
				Value: sum / float64(period),
			})
		}
	}
	return out
}
