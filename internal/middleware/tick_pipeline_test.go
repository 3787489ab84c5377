package middleware

import (
	"testing"

	"SolCharts/internal/domain/models"
)

type fakeMetrics struct {
	dropped map[string]int
}

func newFakeMetrics() *fakeMetrics { return &fakeMetrics{dropped: make(map[string]int)} }

func (f *fakeMetrics) RecordTickMerged(mint, source string)       {}
func (f *fakeMetrics) RecordTickDropped(reason string)            { f.dropped[reason]++ }
func (f *fakeMetrics) RecordTradeSide(mint, side string)          {}
func (f *fakeMetrics) RecordResync(mint string)                   {}
func (f *fakeMetrics) RecordLastPrice(mint string, price float64) {}
func (f *fakeMetrics) RecordError(kind string)                    {}
func (f *fakeMetrics) RecordLatency(op string, seconds float64)   {}

func pushTick(price float64) *models.Tick {
	return &models.Tick{Mint: "mint-a", Price: price, Timestamp: 1_000_000, TradeType: models.TradeBuy}
}

func TestPrepareDropsSpikes(t *testing.T) {
	m := newFakeMetrics()
	p := NewTickPipeline(m)

	if _, ok := p.Prepare(pushTick(20), 1.0, true, "push"); ok {
		t.Fatalf("20x move must be dropped")
	}
	if _, ok := p.Prepare(pushTick(0.01), 1.0, true, "push"); ok {
		t.Fatalf("100x collapse must be dropped")
	}
	if m.dropped["spike"] != 2 {
		t.Fatalf("expected 2 spike drops, got %d", m.dropped["spike"])
	}
}

func TestPrepareKeepsMovesInsideWindow(t *testing.T) {
	p := NewTickPipeline(newFakeMetrics())
	if _, ok := p.Prepare(pushTick(2), 1.0, true, "push"); !ok {
		t.Fatalf("2x move must pass")
	}
	if _, ok := p.Prepare(pushTick(0.1), 1.0, true, "poll"); !ok {
		t.Fatalf("ratio exactly at the lower bound must pass")
	}
	if _, ok := p.Prepare(pushTick(10), 1.0, true, "poll"); !ok {
		t.Fatalf("ratio exactly at the upper bound must pass")
	}
}

func TestPrepareBypassesFilterOnEmptySeries(t *testing.T) {
	p := NewTickPipeline(newFakeMetrics())
	if _, ok := p.Prepare(pushTick(12345), 0, false, "push"); !ok {
		t.Fatalf("first tick has no reference close and must pass")
	}
}

func TestPrepareDropsMalformedTicks(t *testing.T) {
	m := newFakeMetrics()
	p := NewTickPipeline(m)

	bad := []*models.Tick{
		nil,
		{Mint: "", Price: 1, Timestamp: 1},
		{Mint: "m", Price: 0, Timestamp: 1},
		{Mint: "m", Price: -1, Timestamp: 1},
		{Mint: "m", Price: 1, Timestamp: 0},
	}
	for i, tk := range bad {
		if _, ok := p.Prepare(tk, 1.0, true, "push"); ok {
			t.Fatalf("case %d: malformed tick must be dropped", i)
		}
	}
	if m.dropped["malformed"] != len(bad) {
		t.Fatalf("expected %d malformed drops, got %d", len(bad), m.dropped["malformed"])
	}
}

func TestPrepareRescalesRawUnitsOnPush(t *testing.T) {
	p := NewTickPipeline(newFakeMetrics(), WithUnitRescale(true))

	// Price reported in raw units, 1e6 off from the series.
	got, ok := p.Prepare(pushTick(2_000_000), 1.0, true, "push")
	if !ok {
		t.Fatalf("rescalable push tick must pass")
	}
	if got.Price != 2 {
		t.Fatalf("expected corrected price 2, got %v", got.Price)
	}
}

func TestPrepareNeverRescalesPollTicks(t *testing.T) {
	m := newFakeMetrics()
	p := NewTickPipeline(m, WithUnitRescale(true))

	if _, ok := p.Prepare(pushTick(2_000_000), 1.0, true, "poll"); ok {
		t.Fatalf("poll path reports canonical units; out-of-window must drop")
	}
	if m.dropped["spike"] != 1 {
		t.Fatalf("expected spike drop, got %v", m.dropped)
	}
}

func TestPrepareRescaleOffByDefault(t *testing.T) {
	p := NewTickPipeline(newFakeMetrics())
	if _, ok := p.Prepare(pushTick(2_000_000), 1.0, true, "push"); ok {
		t.Fatalf("rescale disabled: out-of-window push tick must drop")
	}
}

func TestPrepareLeavesInputUnmodified(t *testing.T) {
	p := NewTickPipeline(newFakeMetrics(), WithUnitRescale(true))
	in := pushTick(2_000_000)
	got, ok := p.Prepare(in, 1.0, true, "push")
	if !ok {
		t.Fatalf("expected pass")
	}
	if in.Price != 2_000_000 {
		t.Fatalf("rescale must copy, not mutate the caller's tick")
	}
	if got == in {
		t.Fatalf("corrected tick must be a copy")
	}
}
