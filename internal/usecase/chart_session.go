package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"SolCharts/internal/domain/models"
	drepo "SolCharts/internal/domain/repository"
	"SolCharts/internal/middleware"
	"SolCharts/internal/services/indicators"
	applogger "SolCharts/pkg/logger"
)

// StreamFactory builds a fresh push-feed connection for a session. Each
// session owns its own connection so tearing one chart down never disturbs
// another.
type StreamFactory func() drepo.TickStream

// SessionConfig carries the per-session tunables.
type SessionConfig struct {
	DefaultTimeframe drepo.Timeframe
	HistoryLimit     int
	PollInterval     time.Duration
	ResyncInterval   time.Duration
}

// ChartSession is the live chart state for one mint: the candle series, the
// active timeframe, indicator overlays, drawings, and the reconciler feeding
// it. All mutation funnels through one mutex, so the aggregator sees a
// strictly serial stream of operations no matter which path (push, poll,
// resync, API request) produced them.
type ChartSession struct {
	mint string
	cfg  SessionConfig

	history       *HistoryUseCase
	settings      drepo.SettingsStore
	pipe          *middleware.TickPipeline
	engine        *indicators.Engine
	proc          *UpdateProcessor
	streamFactory StreamFactory
	metrics       drepo.Metrics
	logger        *applogger.Logger

	// lifecycle serializes Open, SetTimeframe and Close so a reconciler
	// restart never interleaves with another restart.
	lifecycle sync.Mutex

	mu      sync.Mutex
	tf      drepo.Timeframe
	agg     *Aggregator
	toggles models.IndicatorToggles
	set     models.IndicatorSet
	board   *DrawingBoard
	rec     *Reconciler
	subs    map[chan models.ChartUpdate]struct{}
	closed  bool
}

// NewChartSession creates a session for one mint. Call Open before use.
func NewChartSession(
	mint string,
	cfg SessionConfig,
	history *HistoryUseCase,
	settings drepo.SettingsStore,
	pipe *middleware.TickPipeline,
	engine *indicators.Engine,
	proc *UpdateProcessor,
	streamFactory StreamFactory,
	metrics drepo.Metrics,
	logger *applogger.Logger,
) *ChartSession {
	tf := cfg.DefaultTimeframe
	if !drepo.IsValidTimeframe(tf) {
		tf = drepo.DefaultTimeframe()
	}
	return &ChartSession{
		mint:          mint,
		cfg:           cfg,
		history:       history,
		settings:      settings,
		pipe:          pipe,
		engine:        engine,
		proc:          proc,
		streamFactory: streamFactory,
		metrics:       metrics,
		logger:        logger,
		tf:            tf,
		agg:           NewAggregator(),
		board:         NewDrawingBoard(),
		subs:          make(map[chan models.ChartUpdate]struct{}),
	}
}

// Open restores persisted settings, performs the initial bulk load, and
// starts the reconciler.
func (s *ChartSession) Open(ctx context.Context) error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	if saved, ok, err := s.settings.Load(ctx, s.mint); err != nil {
		s.logger.Warn("settings load failed, using defaults",
			applogger.String("mint", s.mint), applogger.Error(err))
	} else if ok {
		s.mu.Lock()
		s.tf = drepo.NormalizeTimeframe(saved.Timeframe)
		s.toggles = saved.Indicators
		s.mu.Unlock()
	}

	if err := s.bulkLoad(ctx); err != nil {
		return fmt.Errorf("open %s: %w", s.mint, err)
	}
	s.startReconciler()
	return nil
}

// SetTimeframe switches the candle resolution. The reconciler is stopped
// before the reload so no in-flight tick from the old timeframe can land in
// the new series, then restarted against the fresh snapshot.
func (s *ChartSession) SetTimeframe(ctx context.Context, raw string) error {
	tf := drepo.NormalizeTimeframe(raw)

	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return fmt.Errorf("session closed")
	}
	if tf == s.tf {
		s.mu.Unlock()
		return nil
	}
	rec := s.rec
	s.rec = nil
	s.mu.Unlock()

	// Stop the old reconciler before the timeframe becomes visible, so no
	// in-flight tick is merged with the new bucket duration into the old
	// series.
	if rec != nil {
		rec.Stop()
	}
	s.mu.Lock()
	s.tf = tf
	s.mu.Unlock()

	if err := s.bulkLoad(ctx); err != nil {
		return fmt.Errorf("switch timeframe: %w", err)
	}
	s.startReconciler()
	s.saveSettings(ctx)
	return nil
}

// SetToggles flips indicator visibility and recomputes the overlays against
// the current series.
func (s *ChartSession) SetToggles(ctx context.Context, toggles models.IndicatorToggles) {
	s.mu.Lock()
	s.toggles = toggles
	s.set = s.engine.Compute(s.agg.Candles(), toggles)
	s.mu.Unlock()
	s.saveSettings(ctx)
}

// bulkLoad replaces the series with a fresh history snapshot and pushes a
// reset update so every consumer refits its view.
func (s *ChartSession) bulkLoad(ctx context.Context) error {
	s.mu.Lock()
	tf := s.tf
	s.mu.Unlock()

	candles, err := s.history.GetHistory(ctx, s.mint, tf, s.cfg.HistoryLimit)
	if err != nil {
		return err
	}

	s.mu.Lock()
	scale := s.agg.Load(candles)
	s.set = s.engine.Compute(s.agg.Candles(), s.toggles)
	snapshot := make([]models.Candle, len(candles))
	copy(snapshot, candles)
	u := models.ChartUpdate{
		Mint:      s.mint,
		Timeframe: string(tf),
		Reset:     true,
		Candles:   snapshot,
	}
	subs := s.subscriberList()
	s.mu.Unlock()

	s.logger.Info("chart loaded",
		applogger.String("mint", s.mint),
		applogger.String("timeframe", string(tf)),
		applogger.Int("candles", len(candles)),
		applogger.Int("precision", scale.Precision))

	s.fanOut(subs, u)
	s.process(&u)
	return nil
}

// resync is the periodic correctness backstop: it re-applies the full
// history snapshot over whatever the real-time paths accumulated.
func (s *ChartSession) resync(ctx context.Context) {
	if err := s.bulkLoad(ctx); err != nil {
		s.logger.Warn("resync failed", applogger.String("mint", s.mint), applogger.Error(err))
		return
	}
	s.metrics.RecordResync(s.mint)
}

// handleTick runs one tick through the pipeline and merges it. Called from
// the reconciler goroutine for both push and poll ticks.
func (s *ChartSession) handleTick(t *models.Tick, source string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	lastClose, hasLast := s.agg.LastClose()
	clean, ok := s.pipe.Prepare(t, lastClose, hasLast, source)
	if !ok {
		s.mu.Unlock()
		return
	}
	c, outcome := s.agg.Merge(clean, drepo.BucketMs(s.tf))
	if outcome == MergeUnchanged {
		s.mu.Unlock()
		return
	}
	s.set = s.engine.Compute(s.agg.Candles(), s.toggles)
	u := models.ChartUpdate{
		Mint:      s.mint,
		Timeframe: string(s.tf),
		Candle:    &c,
	}
	price := clean.Price
	subs := s.subscriberList()
	s.mu.Unlock()

	s.metrics.RecordTickMerged(s.mint, source)
	s.metrics.RecordTradeSide(s.mint, string(clean.TradeType))
	s.metrics.RecordLastPrice(s.mint, price)
	s.fanOut(subs, u)
	s.process(&u)
}

func (s *ChartSession) startReconciler() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	rec := newReconciler(s, s.streamFactory(), s.cfg.PollInterval, s.cfg.ResyncInterval)
	s.rec = rec
	s.mu.Unlock()
	rec.Start()
}

func (s *ChartSession) saveSettings(ctx context.Context) {
	s.mu.Lock()
	snap := models.ChartSettings{Timeframe: string(s.tf), Indicators: s.toggles}
	s.mu.Unlock()
	if err := s.settings.Save(ctx, s.mint, &snap); err != nil {
		s.metrics.RecordError("settings_save")
		s.logger.Warn("settings save failed", applogger.String("mint", s.mint), applogger.Error(err))
	}
}

// process hands the update to the configured backend. Runs outside the
// session lock with its own deadline so a slow backend cannot stall merges.
func (s *ChartSession) process(u *models.ChartUpdate) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.proc.Process(ctx, u); err != nil {
		s.logger.Debug("update backend rejected", applogger.Error(err))
	}
}

// Subscribe registers a consumer channel. The caller receives incremental
// and reset updates until Unsubscribe; slow consumers miss updates rather
// than block the merge path, and the next resync makes them whole.
func (s *ChartSession) Subscribe() chan models.ChartUpdate {
	ch := make(chan models.ChartUpdate, 64)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a consumer channel.
func (s *ChartSession) Unsubscribe(ch chan models.ChartUpdate) {
	s.mu.Lock()
	if _, ok := s.subs[ch]; ok {
		delete(s.subs, ch)
		close(ch)
	}
	s.mu.Unlock()
}

func (s *ChartSession) subscriberList() []chan models.ChartUpdate {
	out := make([]chan models.ChartUpdate, 0, len(s.subs))
	for ch := range s.subs {
		out = append(out, ch)
	}
	return out
}

func (s *ChartSession) fanOut(subs []chan models.ChartUpdate, u models.ChartUpdate) {
	for _, ch := range subs {
		select {
		case ch <- u:
		default:
		}
	}
}

// Snapshot returns the current series, display scale, and timeframe.
func (s *ChartSession) Snapshot() ([]models.Candle, PriceScale, drepo.Timeframe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	candles := make([]models.Candle, len(s.agg.Candles()))
	copy(candles, s.agg.Candles())
	return candles, s.agg.Scale(), s.tf
}

// SnapshotUpdate packages the current series as a reset update, the same
// shape a bulk load broadcasts. Used to seed new stream consumers.
func (s *ChartSession) SnapshotUpdate() models.ChartUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()
	candles := make([]models.Candle, len(s.agg.Candles()))
	copy(candles, s.agg.Candles())
	return models.ChartUpdate{
		Mint:      s.mint,
		Timeframe: string(s.tf),
		Reset:     true,
		Candles:   candles,
	}
}

// Indicators returns the current overlay set and toggles.
func (s *ChartSession) Indicators() (models.IndicatorSet, models.IndicatorToggles) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set, s.toggles
}

// SelectTool activates a drawing tool, discarding any half-placed drawing.
func (s *ChartSession) SelectTool(tool models.DrawingTool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board.SelectTool(tool)
}

// Click forwards a chart click to the drawing board.
func (s *ChartSession) Click(pt models.ChartPoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board.Click(pt)
}

// Pointer forwards a pointer move, driving the two-point preview.
func (s *ChartSession) Pointer(pt models.ChartPoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board.Pointer(pt)
}

// CancelDrawing discards an in-progress drawing.
func (s *ChartSession) CancelDrawing() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board.Cancel()
}

// ClearDrawings removes every drawing on the chart.
func (s *ChartSession) ClearDrawings() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board.ClearAll()
}

// Drawings returns committed drawings plus the live placeholder, if any.
func (s *ChartSession) Drawings() []models.DrawingPrimitive {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Primitives()
}

// Close stops the reconciler and closes every subscriber channel. The
// session cannot be reopened.
func (s *ChartSession) Close() {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	rec := s.rec
	s.rec = nil
	subs := s.subscriberList()
	s.subs = make(map[chan models.ChartUpdate]struct{})
	s.mu.Unlock()

	if rec != nil {
		rec.Stop()
	}
	for _, ch := range subs {
		close(ch)
	}
	s.logger.Info("chart session closed", applogger.String("mint", s.mint))
}
