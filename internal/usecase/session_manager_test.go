package usecase

import (
	"context"
	"testing"
	"time"

	"SolCharts/internal/domain/models"
	drepo "SolCharts/internal/domain/repository"
	"SolCharts/internal/middleware"
	"SolCharts/internal/services/indicators"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	fm := &fakeMetrics{}
	hist := &fakeHistory{candles: map[drepo.Timeframe][]models.Candle{
		drepo.TF1m: {{Time: 60, Close: 1}},
	}}
	return NewManager(
		SessionConfig{HistoryLimit: 500, PollInterval: time.Hour, ResyncInterval: time.Hour},
		NewHistoryUseCase(hist, nil, 0, 0, fm),
		newFakeSettings(),
		middleware.NewTickPipeline(fm),
		indicators.NewEngine(indicators.DefaultParams()),
		NewUpdateProcessor(nil, nil, fm, "none"),
		func() drepo.TickStream { return &fakeStream{} },
		fm,
		testLogger(t),
	)
}

func TestManagerReusesSessionPerMint(t *testing.T) {
	m := newTestManager(t)
	defer m.CloseAll()

	a, err := m.GetOrOpen(context.Background(), "mint-a")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	b, err := m.GetOrOpen(context.Background(), "mint-a")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if a != b {
		t.Fatalf("same mint must share one session")
	}

	c, err := m.GetOrOpen(context.Background(), "mint-b")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if c == a {
		t.Fatalf("different mints must get distinct sessions")
	}
}

func TestManagerRequiresMint(t *testing.T) {
	m := newTestManager(t)
	defer m.CloseAll()
	if _, err := m.GetOrOpen(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty mint")
	}
}

func TestManagerCloseAll(t *testing.T) {
	m := newTestManager(t)
	s, err := m.GetOrOpen(context.Background(), "mint-a")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	updates := s.Subscribe()
	m.CloseAll()
	if _, ok := <-updates; ok {
		t.Fatalf("close-all must close subscriber channels")
	}
	if _, ok := m.Get("mint-a"); ok {
		t.Fatalf("closed sessions must be dropped from the registry")
	}
}
