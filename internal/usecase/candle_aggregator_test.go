package usecase

import (
	"testing"

	"SolCharts/internal/domain/models"
)

const minuteMs = int64(60_000)

func tick(price float64, tsMs int64) *models.Tick {
	return &models.Tick{Mint: "mint-a", Price: price, Timestamp: tsMs, TradeType: models.TradeBuy}
}

func TestMergeFirstTickAppends(t *testing.T) {
	agg := NewAggregator()
	c, outcome := agg.Merge(tick(1.5, 65_000), minuteMs)
	if outcome != MergeAppended {
		t.Fatalf("expected append, got %v", outcome)
	}
	if c.Time != 60 {
		t.Fatalf("expected bucket 60, got %d", c.Time)
	}
	if c.Open != 1.5 || c.High != 1.5 || c.Low != 1.5 || c.Close != 1.5 {
		t.Fatalf("unexpected candle %+v", c)
	}
	if c.Volume != 1 {
		t.Fatalf("expected volume 1, got %v", c.Volume)
	}
}

func TestMergeSameBucketUpdatesInPlace(t *testing.T) {
	agg := NewAggregator()
	agg.Merge(tick(10, 120_000), minuteMs)
	agg.Merge(tick(14, 130_000), minuteMs)
	c, outcome := agg.Merge(tick(8, 140_000), minuteMs)
	if outcome != MergeUpdated {
		t.Fatalf("expected update, got %v", outcome)
	}
	if agg.Len() != 1 {
		t.Fatalf("expected 1 candle, got %d", agg.Len())
	}
	if c.Open != 10 || c.High != 14 || c.Low != 8 || c.Close != 8 {
		t.Fatalf("unexpected candle %+v", c)
	}
	if c.Volume != 3 {
		t.Fatalf("expected volume 3, got %v", c.Volume)
	}
}

func TestMergeRedeliveredTickCountsVolumeOnly(t *testing.T) {
	agg := NewAggregator()
	agg.Merge(tick(3, 125_000), minuteMs)
	first := agg.Candles()[0]

	// Volume counts ticks, so a duplicate delivery bumps it; the price
	// fields stay put because the price itself is unchanged.
	c, outcome := agg.Merge(tick(3, 125_000), minuteMs)
	if outcome != MergeUpdated {
		t.Fatalf("duplicate lands in the open bucket, got %v", outcome)
	}
	if agg.Len() != 1 {
		t.Fatalf("duplicate must not append, got %d candles", agg.Len())
	}
	if c.Open != first.Open || c.High != first.High || c.Low != first.Low || c.Close != first.Close {
		t.Fatalf("duplicate must leave OHLC untouched: %+v vs %+v", c, first)
	}
	if c.Volume != first.Volume+1 {
		t.Fatalf("expected volume %v after duplicate, got %v", first.Volume+1, c.Volume)
	}
}

func TestMergeBucketBoundary(t *testing.T) {
	agg := NewAggregator()
	c, _ := agg.Merge(tick(1, 179_999), minuteMs)
	if c.Time != 120 {
		t.Fatalf("179999ms should land in bucket 120, got %d", c.Time)
	}
	c, outcome := agg.Merge(tick(1, 180_000), minuteMs)
	if outcome != MergeAppended {
		t.Fatalf("180000ms should open a new bucket, got %v", outcome)
	}
	if c.Time != 180 {
		t.Fatalf("180000ms should land in bucket 180, got %d", c.Time)
	}
}

func TestMergeStaleTickIsNoOp(t *testing.T) {
	agg := NewAggregator()
	agg.Merge(tick(5, 300_000), minuteMs)
	before := agg.Candles()[0]

	_, outcome := agg.Merge(tick(99, 200_000), minuteMs)
	if outcome != MergeUnchanged {
		t.Fatalf("expected no-op for stale tick, got %v", outcome)
	}
	if agg.Len() != 1 {
		t.Fatalf("stale tick must not append, got %d candles", agg.Len())
	}
	after := agg.Candles()[0]
	if before != after {
		t.Fatalf("stale tick must not mutate the series: %+v vs %+v", before, after)
	}
}

func TestMergeLeavesGapsSparse(t *testing.T) {
	agg := NewAggregator()
	agg.Merge(tick(1, 60_000), minuteMs)
	agg.Merge(tick(2, 600_000), minuteMs)
	if agg.Len() != 2 {
		t.Fatalf("gap minutes must not be back-filled, got %d candles", agg.Len())
	}
	if agg.Candles()[1].Time != 600 {
		t.Fatalf("unexpected second bucket %d", agg.Candles()[1].Time)
	}
}

func TestMergeKeepsSeriesMonotonic(t *testing.T) {
	agg := NewAggregator()
	stamps := []int64{60_000, 125_000, 61_000, 300_000, 180_000, 310_000}
	for _, ts := range stamps {
		agg.Merge(tick(1, ts), minuteMs)
	}
	cs := agg.Candles()
	for i := 1; i < len(cs); i++ {
		if cs[i].Time <= cs[i-1].Time {
			t.Fatalf("series not strictly increasing at %d: %d <= %d", i, cs[i].Time, cs[i-1].Time)
		}
	}
}

func TestLoadReplacesSeriesAndScale(t *testing.T) {
	agg := NewAggregator()
	agg.Merge(tick(5, 60_000), minuteMs)

	history := []models.Candle{
		{Time: 0, Close: 0.00005},
		{Time: 60, Close: 0.00007},
	}
	scale := agg.Load(history)
	if agg.Len() != 2 {
		t.Fatalf("load must replace the series, got %d candles", agg.Len())
	}
	if scale.Precision != 8 {
		t.Fatalf("expected precision 8 for dust prices, got %d", scale.Precision)
	}
	if last, ok := agg.LastClose(); !ok || last != 0.00007 {
		t.Fatalf("unexpected last close %v %v", last, ok)
	}
}

func TestLastCloseEmpty(t *testing.T) {
	agg := NewAggregator()
	if _, ok := agg.LastClose(); ok {
		t.Fatalf("expected no last close on empty series")
	}
}
