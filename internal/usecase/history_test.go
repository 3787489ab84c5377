package usecase

import (
	"context"
	"testing"
	"time"

	"SolCharts/internal/domain/models"
	drepo "SolCharts/internal/domain/repository"
	"SolCharts/internal/service/cache"
)

func TestGetHistoryServesFromCache(t *testing.T) {
	hist := &fakeHistory{candles: map[drepo.Timeframe][]models.Candle{
		drepo.TF1m: {{Time: 60, Close: 1}},
	}}
	uc := NewHistoryUseCase(hist, cache.NewTTLCache(), time.Minute, 0, &fakeMetrics{})

	if _, err := uc.GetHistory(context.Background(), "mint-a", drepo.TF1m, 100); err != nil {
		t.Fatalf("get history: %v", err)
	}
	if _, err := uc.GetHistory(context.Background(), "mint-a", drepo.TF1m, 100); err != nil {
		t.Fatalf("get history: %v", err)
	}
	if hist.calls != 1 {
		t.Fatalf("expected 1 upstream fetch, got %d", hist.calls)
	}
}

func TestGetHistoryCacheKeyedByTimeframe(t *testing.T) {
	hist := &fakeHistory{candles: map[drepo.Timeframe][]models.Candle{
		drepo.TF1m: {{Time: 60, Close: 1}},
		drepo.TF5m: {{Time: 300, Close: 2}},
	}}
	uc := NewHistoryUseCase(hist, cache.NewTTLCache(), time.Minute, 0, &fakeMetrics{})

	got1m, _ := uc.GetHistory(context.Background(), "mint-a", drepo.TF1m, 100)
	got5m, _ := uc.GetHistory(context.Background(), "mint-a", drepo.TF5m, 100)
	if hist.calls != 2 {
		t.Fatalf("different timeframes must not share cache entries")
	}
	if got1m[0].Close == got5m[0].Close {
		t.Fatalf("expected distinct snapshots per timeframe")
	}
}

func TestGetHistoryAppliesDefaultLimit(t *testing.T) {
	hist := &fakeHistory{candles: map[drepo.Timeframe][]models.Candle{
		drepo.TF1m: {{Time: 60, Close: 1}},
	}}
	uc := NewHistoryUseCase(hist, nil, 0, 250, &fakeMetrics{})

	if _, err := uc.GetHistory(context.Background(), "mint-a", drepo.TF1m, 0); err != nil {
		t.Fatalf("get history: %v", err)
	}
	if hist.lastLimit != 250 {
		t.Fatalf("limit 0 must fall back to the configured default, got %d", hist.lastLimit)
	}

	if _, err := uc.GetHistory(context.Background(), "mint-a", drepo.TF1m, 42); err != nil {
		t.Fatalf("get history: %v", err)
	}
	if hist.lastLimit != 42 {
		t.Fatalf("explicit limit must pass through, got %d", hist.lastLimit)
	}
}

func TestGetHistoryRequiresMint(t *testing.T) {
	uc := NewHistoryUseCase(&fakeHistory{}, nil, 0, 0, &fakeMetrics{})
	if _, err := uc.GetHistory(context.Background(), "", drepo.TF1m, 100); err == nil {
		t.Fatalf("expected error for empty mint")
	}
}
