package repository

import (
	"context"
	"testing"

	"SolCharts/internal/domain/models"
	"SolCharts/internal/service/cache"
)

func TestSettingsRoundTrip(t *testing.T) {
	kv := cache.NewTTLCache()
	store := NewKVSettingsStore(kv)

	in := &models.ChartSettings{
		Timeframe:  "15m",
		Indicators: models.IndicatorToggles{SMA: true, MACD: true},
	}
	if err := store.Save(context.Background(), "mint-a", in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, ok, err := store.Load(context.Background(), "mint-a")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if out.Timeframe != "15m" || !out.Indicators.SMA || !out.Indicators.MACD || out.Indicators.EMA {
		t.Fatalf("unexpected settings %+v", out)
	}
}

func TestSettingsMissingMint(t *testing.T) {
	store := NewKVSettingsStore(cache.NewTTLCache())
	_, ok, err := store.Load(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Fatalf("expected no settings for unknown mint")
	}
}

func TestSettingsCorruptEntryTreatedAsAbsent(t *testing.T) {
	kv := cache.NewTTLCache()
	if err := kv.SetBytes(context.Background(), "chart:settings:mint-a", []byte("{broken"), 0); err != nil {
		t.Fatalf("seed: %v", err)
	}
	store := NewKVSettingsStore(kv)
	_, ok, err := store.Load(context.Background(), "mint-a")
	if err != nil {
		t.Fatalf("corrupt entry must not fail the load: %v", err)
	}
	if ok {
		t.Fatalf("corrupt entry must read as absent")
	}
}

func TestSettingsPerMintIsolation(t *testing.T) {
	store := NewKVSettingsStore(cache.NewTTLCache())
	_ = store.Save(context.Background(), "mint-a", &models.ChartSettings{Timeframe: "1h"})
	_ = store.Save(context.Background(), "mint-b", &models.ChartSettings{Timeframe: "1d"})

	a, _, _ := store.Load(context.Background(), "mint-a")
	b, _, _ := store.Load(context.Background(), "mint-b")
	if a.Timeframe != "1h" || b.Timeframe != "1d" {
		t.Fatalf("settings must be keyed per mint: %+v %+v", a, b)
	}
}
