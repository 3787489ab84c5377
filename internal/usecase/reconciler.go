package usecase

import (
	"context"
	"time"

	"SolCharts/internal/domain/models"
	drepo "SolCharts/internal/domain/repository"
	applogger "SolCharts/pkg/logger"
)

// Reconciler owns the two real-time update paths for one chart session: the
// push subscription and the fixed-interval poll, plus the periodic full
// resync that corrects any drift the push path accumulated (missed events
// during a reconnect).
//
// A single goroutine consumes all paths, so their effects are serialized
// onto the session's aggregator. No path "wins" a race for the same
// instant; the aggregator's stale-bucket no-op rule makes re-delivery from
// either path harmless. The resync is the correctness backstop and must not
// be removed as a redundant optimization.
type Reconciler struct {
	mint    string
	session *ChartSession
	stream  drepo.TickStream
	logger  *applogger.Logger
	metrics drepo.Metrics

	pollInterval   time.Duration
	resyncInterval time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

func newReconciler(session *ChartSession, stream drepo.TickStream, pollInterval, resyncInterval time.Duration) *Reconciler {
	return &Reconciler{
		mint:           session.mint,
		session:        session,
		stream:         stream,
		logger:         session.logger,
		metrics:        session.metrics,
		pollInterval:   pollInterval,
		resyncInterval: resyncInterval,
		done:           make(chan struct{}),
	}
}

// Start attaches both update paths. The reconciler keeps running until
// Stop, independent of the caller's request context.
func (r *Reconciler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	ticks, errs := r.attach(ctx)
	go r.run(ctx, ticks, errs)
}

// Stop detaches the push subscription and both timers, then waits for the
// loop to exit. Required before a new bulk load so a stale callback cannot
// mutate the now-irrelevant aggregator state.
func (r *Reconciler) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	_ = r.stream.Unsubscribe(context.Background(), r.mint)
	_ = r.stream.Close()
	<-r.done
}

func (r *Reconciler) run(ctx context.Context, ticks <-chan *models.Tick, errs <-chan error) {
	defer close(r.done)

	pollT := time.NewTicker(r.pollInterval)
	defer pollT.Stop()
	resyncT := time.NewTicker(r.resyncInterval)
	defer resyncT.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case t, ok := <-ticks:
			if !ok {
				ticks = nil
				continue
			}
			if t == nil || t.Mint != r.mint {
				continue
			}
			r.session.handleTick(t, "push")

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err != nil {
				r.metrics.RecordError("stream")
				r.logger.Warn("pumpfeed stream error, reconnecting", applogger.Error(err))
				if rerr := r.stream.Reconnect(ctx); rerr != nil {
					r.logger.Error("pumpfeed reconnect failed", applogger.Error(rerr))
					continue
				}
				ticks, errs = r.stream.Read(ctx)
			}

		case <-pollT.C:
			r.poll(ctx)

		case <-resyncT.C:
			r.session.resync(ctx)
		}
	}
}

// attach connects and subscribes the push path. On failure the session runs
// poll-only; the poll and resync paths keep the series moving without it.
func (r *Reconciler) attach(ctx context.Context) (<-chan *models.Tick, <-chan error) {
	if err := r.stream.Connect(ctx); err != nil {
		r.metrics.RecordError("stream_connect")
		r.logger.Error("pumpfeed connect failed, running poll-only", applogger.Error(err))
		return nil, nil
	}
	if err := r.stream.Subscribe(ctx, r.mint); err != nil {
		r.metrics.RecordError("stream_subscribe")
		r.logger.Error("pumpfeed subscribe failed, running poll-only", applogger.Error(err))
		return nil, nil
	}
	return r.stream.Read(ctx)
}

// poll synthesizes a tick from the latest known price and feeds it through
// the same pipeline as push ticks.
func (r *Reconciler) poll(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, r.pollInterval)
	defer cancel()

	quote, err := r.session.history.GetLatestPrice(pctx, r.mint)
	if err != nil {
		r.logger.Debug("poll failed", applogger.String("mint", r.mint), applogger.Error(err))
		return
	}
	r.session.handleTick(&models.Tick{
		Mint:      r.mint,
		Price:     quote.Price,
		Timestamp: quote.Timestamp,
		TradeType: models.TradeBuy,
	}, "poll")
}
