package indicators

import "SolCharts/internal/domain/models"

// MACD computes the moving average convergence/divergence line (fast EMA
// minus slow EMA), its signal EMA, and the histogram between them.
func MACD(candles []models.Candle, fast, slow, signal int) []models.MACDPoint {
	if len(candles) == 0 || fast <= 0 || slow <= 0 || signal <= 0 {
		return nil
	}
	xs := closeSeries(candles)
	fastEMA := emaSeries(xs, fast)
	slowEMA := emaSeries(xs, slow)

	macd := make([]float64, len(xs))
	for i := range xs {
		macd[i] = fastEMA[i] - slowEMA[i]
	}
	signalEMA := emaSeries(macd, signal)

	out := make([]models.MACDPoint, len(candles))
	for i := range candles {
		out[i] = models.MACDPoint{
			Time:      candles[i].Time,
			MACD:      macd[i],
			Signal:    signalEMA[i],
			Histogram: macd[i] - signalEMA[i],
		}
	}
	return out
}
