package indicators

import "SolCharts/internal/domain/models"

// Bollinger computes Bollinger Bands: an SMA middle band with upper/lower
// bands k standard deviations away. Points start at the first full window.
func Bollinger(candles []models.Candle, period int, k float64) []models.BandPoint {
	if period <= 0 || len(candles) < period {
		return nil
	}
	xs := closeSeries(candles)
	out := make([]models.BandPoint, 0, len(candles)-period+1)

	for i := period - 1; i < len(xs); i++ {
		window := xs[i-period+1 : i+1]
		mid := mean(window)
		dev := stddev(window) * k
		out = append(out, models.BandPoint{
			Time:   candles[i].Time,
			Middle: mid,
			Upper:  mid + dev,
			Lower:  mid - dev,
		})
	}
	return out
}
