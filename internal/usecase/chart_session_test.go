package usecase

import (
	"context"
	"testing"
	"time"

	"SolCharts/internal/domain/models"
	drepo "SolCharts/internal/domain/repository"
	"SolCharts/internal/middleware"
	"SolCharts/internal/services/indicators"
	applogger "SolCharts/pkg/logger"
)

type fakeMetrics struct {
	merged  int
	resyncs int
}

func (f *fakeMetrics) RecordTickMerged(mint, source string)       { f.merged++ }
func (f *fakeMetrics) RecordTickDropped(reason string)            {}
func (f *fakeMetrics) RecordTradeSide(mint, side string)          {}
func (f *fakeMetrics) RecordResync(mint string)                   { f.resyncs++ }
func (f *fakeMetrics) RecordLastPrice(mint string, price float64) {}
func (f *fakeMetrics) RecordError(kind string)                    {}
func (f *fakeMetrics) RecordLatency(op string, seconds float64)   {}

type fakeHistory struct {
	candles   map[drepo.Timeframe][]models.Candle
	quote     *models.PriceQuote
	calls     int
	lastLimit int
}

func (f *fakeHistory) GetHistory(ctx context.Context, mint string, tf drepo.Timeframe, limit int) ([]models.Candle, error) {
	f.calls++
	f.lastLimit = limit
	return f.candles[tf], nil
}

func (f *fakeHistory) GetLatestPrice(ctx context.Context, mint string) (*models.PriceQuote, error) {
	return f.quote, nil
}

type fakeSettings struct {
	saved map[string]models.ChartSettings
}

func newFakeSettings() *fakeSettings { return &fakeSettings{saved: make(map[string]models.ChartSettings)} }

func (f *fakeSettings) Load(ctx context.Context, mint string) (*models.ChartSettings, bool, error) {
	s, ok := f.saved[mint]
	if !ok {
		return nil, false, nil
	}
	return &s, true, nil
}

func (f *fakeSettings) Save(ctx context.Context, mint string, s *models.ChartSettings) error {
	f.saved[mint] = *s
	return nil
}

type fakeStream struct {
	subscribed    []string
	unsubscribed  []string
	onUnsubscribe func()
}

func (f *fakeStream) Connect(ctx context.Context) error { return nil }

func (f *fakeStream) Subscribe(ctx context.Context, mint string) error {
	f.subscribed = append(f.subscribed, mint)
	return nil
}

func (f *fakeStream) Unsubscribe(ctx context.Context, mint string) error {
	f.unsubscribed = append(f.unsubscribed, mint)
	if f.onUnsubscribe != nil {
		f.onUnsubscribe()
	}
	return nil
}

func (f *fakeStream) Read(ctx context.Context) (<-chan *models.Tick, <-chan error) {
	return make(chan *models.Tick), make(chan error)
}

func (f *fakeStream) Reconnect(ctx context.Context) error { return nil }
func (f *fakeStream) Close() error                        { return nil }
func (f *fakeStream) IsConnected() bool                   { return true }

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func newTestSession(t *testing.T, hist *fakeHistory, settings *fakeSettings) (*ChartSession, *fakeMetrics, *fakeStream) {
	t.Helper()
	fm := &fakeMetrics{}
	stream := &fakeStream{}
	l := testLogger(t)

	s := NewChartSession(
		"mint-a",
		SessionConfig{HistoryLimit: 500, PollInterval: time.Hour, ResyncInterval: time.Hour},
		NewHistoryUseCase(hist, nil, 0, 0, fm),
		settings,
		middleware.NewTickPipeline(fm),
		indicators.NewEngine(indicators.DefaultParams()),
		NewUpdateProcessor(nil, nil, fm, "none"),
		func() drepo.TickStream { return stream },
		fm,
		l,
	)
	return s, fm, stream
}

func TestSessionOpenLoadsHistoryAndSubscribes(t *testing.T) {
	hist := &fakeHistory{candles: map[drepo.Timeframe][]models.Candle{
		drepo.TF1m: {{Time: 60, Close: 1}, {Time: 120, Close: 2}},
	}}
	s, _, stream := newTestSession(t, hist, newFakeSettings())
	defer s.Close()

	if err := s.Open(context.Background()); err != nil {
		t.Fatalf("open: %v", err)
	}
	candles, _, tf := s.Snapshot()
	if len(candles) != 2 {
		t.Fatalf("expected 2 candles after bulk load, got %d", len(candles))
	}
	if tf != drepo.TF1m {
		t.Fatalf("expected default timeframe, got %s", tf)
	}
	if len(stream.subscribed) != 1 || stream.subscribed[0] != "mint-a" {
		t.Fatalf("expected push subscription for mint-a, got %v", stream.subscribed)
	}
}

func TestSessionOpenRestoresSavedSettings(t *testing.T) {
	hist := &fakeHistory{candles: map[drepo.Timeframe][]models.Candle{
		drepo.TF1h: {{Time: 3600, Close: 1}},
	}}
	settings := newFakeSettings()
	settings.saved["mint-a"] = models.ChartSettings{
		Timeframe:  "1h",
		Indicators: models.IndicatorToggles{EMA: true},
	}
	s, _, _ := newTestSession(t, hist, settings)
	defer s.Close()

	if err := s.Open(context.Background()); err != nil {
		t.Fatalf("open: %v", err)
	}
	_, _, tf := s.Snapshot()
	if tf != drepo.TF1h {
		t.Fatalf("expected restored timeframe 1h, got %s", tf)
	}
	set, toggles := s.Indicators()
	if !toggles.EMA {
		t.Fatalf("expected restored EMA toggle")
	}
	if set.EMA == nil {
		t.Fatalf("restored toggle must compute its overlay on load")
	}
}

func TestSessionHandleTickBroadcasts(t *testing.T) {
	hist := &fakeHistory{candles: map[drepo.Timeframe][]models.Candle{
		drepo.TF1m: {{Time: 60, Open: 1, High: 1, Low: 1, Close: 1, Volume: 1}},
	}}
	s, fm, _ := newTestSession(t, hist, newFakeSettings())
	defer s.Close()
	if err := s.Open(context.Background()); err != nil {
		t.Fatalf("open: %v", err)
	}

	updates := s.Subscribe()
	defer s.Unsubscribe(updates)

	s.handleTick(&models.Tick{Mint: "mint-a", Price: 2, Timestamp: 125_000}, "push")

	select {
	case u := <-updates:
		if u.Reset {
			t.Fatalf("tick merge must produce an incremental update")
		}
		if u.Candle == nil || u.Candle.Time != 120 || u.Candle.Close != 2 {
			t.Fatalf("unexpected update candle %+v", u.Candle)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected a broadcast update")
	}
	if fm.merged != 1 {
		t.Fatalf("expected 1 merged tick, got %d", fm.merged)
	}
}

func TestSessionDropsSpikeTicks(t *testing.T) {
	hist := &fakeHistory{candles: map[drepo.Timeframe][]models.Candle{
		drepo.TF1m: {{Time: 60, Close: 1}},
	}}
	s, fm, _ := newTestSession(t, hist, newFakeSettings())
	defer s.Close()
	if err := s.Open(context.Background()); err != nil {
		t.Fatalf("open: %v", err)
	}

	s.handleTick(&models.Tick{Mint: "mint-a", Price: 50, Timestamp: 125_000}, "push")
	candles, _, _ := s.Snapshot()
	if len(candles) != 1 {
		t.Fatalf("spike tick must not reach the aggregator, got %d candles", len(candles))
	}
	if fm.merged != 0 {
		t.Fatalf("spike tick must not count as merged")
	}
}

func TestSessionSetTimeframeReloadsAndPersists(t *testing.T) {
	hist := &fakeHistory{candles: map[drepo.Timeframe][]models.Candle{
		drepo.TF1m: {{Time: 60, Close: 1}, {Time: 120, Close: 2}},
		drepo.TF5m: {{Time: 300, Close: 3}},
	}}
	settings := newFakeSettings()
	s, _, stream := newTestSession(t, hist, settings)
	defer s.Close()
	if err := s.Open(context.Background()); err != nil {
		t.Fatalf("open: %v", err)
	}

	updates := s.Subscribe()
	defer s.Unsubscribe(updates)

	if err := s.SetTimeframe(context.Background(), "5m"); err != nil {
		t.Fatalf("set timeframe: %v", err)
	}

	candles, _, tf := s.Snapshot()
	if tf != drepo.TF5m || len(candles) != 1 || candles[0].Close != 3 {
		t.Fatalf("expected 5m snapshot, got tf=%s candles=%v", tf, candles)
	}
	if saved := settings.saved["mint-a"]; saved.Timeframe != "5m" {
		t.Fatalf("timeframe switch must persist, got %+v", saved)
	}
	if len(stream.unsubscribed) == 0 {
		t.Fatalf("old subscription must be torn down before the reload")
	}

	select {
	case u := <-updates:
		if !u.Reset {
			t.Fatalf("timeframe switch must broadcast a reset, got %+v", u)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected a reset broadcast")
	}
}

func TestSessionSetTimeframeStopsFeedBeforeSwitch(t *testing.T) {
	hist := &fakeHistory{candles: map[drepo.Timeframe][]models.Candle{
		drepo.TF1m: {{Time: 60, Close: 1}},
		drepo.TF5m: {{Time: 300, Close: 2}},
	}}
	s, _, stream := newTestSession(t, hist, newFakeSettings())
	defer s.Close()
	if err := s.Open(context.Background()); err != nil {
		t.Fatalf("open: %v", err)
	}

	var tfAtTeardown drepo.Timeframe
	stream.onUnsubscribe = func() {
		_, _, tfAtTeardown = s.Snapshot()
	}

	if err := s.SetTimeframe(context.Background(), "5m"); err != nil {
		t.Fatalf("set timeframe: %v", err)
	}
	if tfAtTeardown != drepo.TF1m {
		t.Fatalf("old feed must be torn down while the old timeframe is still active, saw %s", tfAtTeardown)
	}
}

func TestSessionDefaultTimeframeFromConfig(t *testing.T) {
	hist := &fakeHistory{candles: map[drepo.Timeframe][]models.Candle{
		drepo.TF5m: {{Time: 300, Close: 2}},
	}}
	fm := &fakeMetrics{}
	s := NewChartSession(
		"mint-a",
		SessionConfig{DefaultTimeframe: drepo.TF5m, HistoryLimit: 500, PollInterval: time.Hour, ResyncInterval: time.Hour},
		NewHistoryUseCase(hist, nil, 0, 0, fm),
		newFakeSettings(),
		middleware.NewTickPipeline(fm),
		indicators.NewEngine(indicators.DefaultParams()),
		NewUpdateProcessor(nil, nil, fm, "none"),
		func() drepo.TickStream { return &fakeStream{} },
		fm,
		testLogger(t),
	)
	defer s.Close()

	if err := s.Open(context.Background()); err != nil {
		t.Fatalf("open: %v", err)
	}
	candles, _, tf := s.Snapshot()
	if tf != drepo.TF5m {
		t.Fatalf("expected configured default timeframe 5m, got %s", tf)
	}
	if len(candles) != 1 || candles[0].Time != 300 {
		t.Fatalf("bulk load must target the configured default, got %v", candles)
	}
}

func TestSessionSetTimeframeSameIsNoOp(t *testing.T) {
	hist := &fakeHistory{candles: map[drepo.Timeframe][]models.Candle{
		drepo.TF1m: {{Time: 60, Close: 1}},
	}}
	s, _, _ := newTestSession(t, hist, newFakeSettings())
	defer s.Close()
	if err := s.Open(context.Background()); err != nil {
		t.Fatalf("open: %v", err)
	}

	before := hist.calls
	if err := s.SetTimeframe(context.Background(), "1m"); err != nil {
		t.Fatalf("set timeframe: %v", err)
	}
	if hist.calls != before {
		t.Fatalf("switching to the active timeframe must not reload")
	}
}

func TestSessionSetTogglesRecomputes(t *testing.T) {
	hist := &fakeHistory{candles: map[drepo.Timeframe][]models.Candle{
		drepo.TF1m: {{Time: 60, Close: 1}, {Time: 120, Close: 2}, {Time: 180, Close: 3}},
	}}
	settings := newFakeSettings()
	s, _, _ := newTestSession(t, hist, settings)
	defer s.Close()
	if err := s.Open(context.Background()); err != nil {
		t.Fatalf("open: %v", err)
	}

	s.SetToggles(context.Background(), models.IndicatorToggles{EMA: true})
	set, _ := s.Indicators()
	if set.EMA == nil {
		t.Fatalf("enabling EMA must compute its series")
	}

	s.SetToggles(context.Background(), models.IndicatorToggles{})
	set, _ = s.Indicators()
	if set.EMA != nil {
		t.Fatalf("disabling EMA must discard its series")
	}
	if settings.saved["mint-a"].Indicators.EMA {
		t.Fatalf("toggle change must persist")
	}
}

func TestSessionCloseStopsEverything(t *testing.T) {
	hist := &fakeHistory{candles: map[drepo.Timeframe][]models.Candle{
		drepo.TF1m: {{Time: 60, Close: 1}},
	}}
	s, _, _ := newTestSession(t, hist, newFakeSettings())
	if err := s.Open(context.Background()); err != nil {
		t.Fatalf("open: %v", err)
	}

	updates := s.Subscribe()
	s.Close()

	if _, ok := <-updates; ok {
		t.Fatalf("close must close subscriber channels")
	}

	// Late ticks after close are ignored.
	s.handleTick(&models.Tick{Mint: "mint-a", Price: 1, Timestamp: 125_000}, "push")
}
