package usecase

import (
	"SolCharts/internal/domain/models"
	"SolCharts/pkg/util"
)

// MergeOutcome describes what a tick merge did to the series.
type MergeOutcome int

const (
	// MergeUnchanged means the tick was stale (bucket older than the last
	// candle) and the series was not touched.
	MergeUnchanged MergeOutcome = iota
	// MergeUpdated means the last candle was updated in place.
	MergeUpdated
	// MergeAppended means a new candle was appended.
	MergeAppended
)

// Aggregator owns the authoritative candle series for one (mint, timeframe).
// It is the only component that mutates the series; everything else reads.
// Not goroutine-safe on its own: the owning session serializes access.
type Aggregator struct {
	candles []models.Candle
	scale   PriceScale
}

func NewAggregator() *Aggregator {
	return &Aggregator{scale: DefaultScale()}
}

// Load replaces the entire series with a history snapshot and recomputes the
// display scale. History is trusted to be sorted ascending and deduplicated
// by the history collaborator.
func (a *Aggregator) Load(history []models.Candle) PriceScale {
	a.candles = history
	a.scale = SelectScale(history)
	return a.scale
}

// Merge folds one tick into the series using the given bucket duration.
//
// The returned candle is the updated or appended one, so callers can push an
// incremental update downstream without re-sending the whole series. Stale
// ticks (bucket older than the last candle) are a no-op, which makes the
// merge idempotent-safe against re-delivery from either real-time source.
//
// Volume counts ticks, not traded size: the upstream feeds disagree on size
// units, so the chart displays trade activity instead. Intentional
// simplification.
func (a *Aggregator) Merge(t *models.Tick, bucketMs int64) (models.Candle, MergeOutcome) {
	bucketSec := util.BucketStartMs(t.Timestamp, bucketMs) / 1000

	if len(a.candles) == 0 {
		c := models.Candle{
			Time:   bucketSec,
			Open:   t.Price,
			High:   t.Price,
			Low:    t.Price,
			Close:  t.Price,
			Volume: 1,
		}
		a.candles = append(a.candles, c)
		return c, MergeAppended
	}

	last := &a.candles[len(a.candles)-1]
	switch {
	case bucketSec == last.Time:
		if t.Price > last.High {
			last.High = t.Price
		}
		if t.Price < last.Low {
			last.Low = t.Price
		}
		last.Close = t.Price
		last.Volume++
		return *last, MergeUpdated

	case bucketSec > last.Time:
		// Gaps between the previous candle and the new bucket are left
		// sparse; the chart surface tolerates a sparse time axis.
		c := models.Candle{
			Time:   bucketSec,
			Open:   t.Price,
			High:   t.Price,
			Low:    t.Price,
			Close:  t.Price,
			Volume: 1,
		}
		a.candles = append(a.candles, c)
		return c, MergeAppended

	default:
		// Late tick from the slower source; the series stays monotonic.
		return models.Candle{}, MergeUnchanged
	}
}

// Candles returns the series. Callers must treat it as read-only.
func (a *Aggregator) Candles() []models.Candle { return a.candles }

// Len returns the number of candles.
func (a *Aggregator) Len() int { return len(a.candles) }

// LastClose returns the close of the last candle, if any.
func (a *Aggregator) LastClose() (float64, bool) {
	if len(a.candles) == 0 {
		return 0, false
	}
	return a.candles[len(a.candles)-1].Close, true
}

// Scale returns the current display scale.
func (a *Aggregator) Scale() PriceScale { return a.scale }
