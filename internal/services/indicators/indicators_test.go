package indicators

import (
	"math"
	"testing"

	"SolCharts/internal/domain/models"
)

func series(closes ...float64) []models.Candle {
	out := make([]models.Candle, len(closes))
	for i, c := range closes {
		out[i] = models.Candle{Time: int64(i * 60), Close: c}
	}
	return out
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestSMAWindow(t *testing.T) {
	got := SMA(series(1, 2, 3, 4), 2)
	want := []float64{1.5, 2.5, 3.5}
	if len(got) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(got))
	}
	for i, w := range want {
		if !approx(got[i].Value, w) {
			t.Fatalf("point %d: expected %v, got %v", i, w, got[i].Value)
		}
	}
	if got[0].Time != 60 {
		t.Fatalf("first point must sit on the first full window, got t=%d", got[0].Time)
	}
}

func TestSMAShortSeries(t *testing.T) {
	if got := SMA(series(1, 2), 3); got != nil {
		t.Fatalf("series shorter than the period must yield nil, got %v", got)
	}
}

func TestEMASeedAndSmoothing(t *testing.T) {
	// period 3 -> alpha 0.5, seeded with the first close
	got := EMA(series(1, 2, 3), 3)
	want := []float64{1, 1.5, 2.25}
	if len(got) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(got))
	}
	for i, w := range want {
		if !approx(got[i].Value, w) {
			t.Fatalf("point %d: expected %v, got %v", i, w, got[i].Value)
		}
	}
}

func TestBollingerBands(t *testing.T) {
	got := Bollinger(series(1, 2, 3), 2, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 points, got %d", len(got))
	}
	// window [1,2]: mean 1.5, population stddev 0.5, k=2 -> bands at +-1
	first := got[0]
	if !approx(first.Middle, 1.5) || !approx(first.Upper, 2.5) || !approx(first.Lower, 0.5) {
		t.Fatalf("unexpected bands %+v", first)
	}
}

func TestMACDLines(t *testing.T) {
	// fast period 1 tracks the closes exactly; signal period 1 tracks MACD,
	// so the histogram is identically zero.
	got := MACD(series(1, 2), 1, 3, 1)
	if len(got) != 2 {
		t.Fatalf("expected 2 points, got %d", len(got))
	}
	if !approx(got[0].MACD, 0) {
		t.Fatalf("first MACD must be 0, got %v", got[0].MACD)
	}
	// slow EMA after one step: 0.5*2 + 0.5*1 = 1.5; MACD = 2 - 1.5
	if !approx(got[1].MACD, 0.5) {
		t.Fatalf("expected MACD 0.5, got %v", got[1].MACD)
	}
	for i, p := range got {
		if !approx(p.Histogram, 0) {
			t.Fatalf("point %d: histogram must be 0 with signal period 1, got %v", i, p.Histogram)
		}
	}
}

func TestEngineTogglesSelectSeries(t *testing.T) {
	e := NewEngine(DefaultParams())
	candles := series(1, 2, 3, 4, 5)

	set := e.Compute(candles, models.IndicatorToggles{EMA: true})
	if set.EMA == nil {
		t.Fatalf("EMA toggled on must produce a series")
	}
	if set.SMA != nil || set.Bollinger != nil || set.MACD != nil {
		t.Fatalf("toggled-off overlays must stay nil: %+v", set)
	}

	set = e.Compute(candles, models.IndicatorToggles{})
	if set.EMA != nil {
		t.Fatalf("disabling a toggle must drop its series entirely")
	}
}

func TestEngineEmptySeries(t *testing.T) {
	e := NewEngine(DefaultParams())
	set := e.Compute(nil, models.IndicatorToggles{SMA: true, EMA: true, Bollinger: true, MACD: true})
	if set.SMA != nil || set.EMA != nil || set.Bollinger != nil || set.MACD != nil {
		t.Fatalf("empty series must yield empty overlays: %+v", set)
	}
}
