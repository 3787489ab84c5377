package middleware

import (
	"fmt"

	"SolCharts/internal/domain/models"
	domrepo "SolCharts/internal/domain/repository"
)

// rescaleFactors are the decimal-base mismatches seen from raw push feeds:
// lamports vs SOL and the common token decimal counts.
var rescaleFactors = []float64{1e3, 1e6, 1e9}

// TickPipeline is the gate between the real-time sources and the aggregator.
// It normalizes upstream unit quirks, drops malformed ticks, and applies the
// spike filter against the last known close.
type TickPipeline struct {
	minRatio float64
	maxRatio float64
	rescale  bool
	metrics  domrepo.Metrics
}

type PipelineOption func(*TickPipeline)

// WithSpikeBounds sets the accepted price/lastClose ratio window.
func WithSpikeBounds(min, max float64) PipelineOption {
	return func(p *TickPipeline) {
		if min > 0 && max > min {
			p.minRatio = min
			p.maxRatio = max
		}
	}
}

// WithUnitRescale enables the raw-unit correction heuristic for push ticks.
func WithUnitRescale(on bool) PipelineOption {
	return func(p *TickPipeline) { p.rescale = on }
}

// NewTickPipeline creates a pipeline with the default 0.1x/10x spike window.
func NewTickPipeline(metrics domrepo.Metrics, opts ...PipelineOption) *TickPipeline {
	p := &TickPipeline{
		minRatio: 0.1,
		maxRatio: 10,
		metrics:  metrics,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Prepare validates and normalizes a tick against the last known close.
// Returns false when the tick must not reach the aggregator. hasLast is
// false when the series is empty, in which case the spike filter is
// bypassed (the first tick has nothing to be compared against).
func (p *TickPipeline) Prepare(t *models.Tick, lastClose float64, hasLast bool, source string) (*models.Tick, bool) {
	if err := validateTick(t); err != nil {
		p.metrics.RecordTickDropped("malformed")
		return nil, false
	}

	if !hasLast || lastClose <= 0 {
		return t, true
	}

	ratio := t.Price / lastClose
	if ratio >= p.minRatio && ratio <= p.maxRatio {
		return t, true
	}

	// The push feed sometimes reports prices in a different decimal base
	// (raw token units). If dividing or multiplying by a known factor lands
	// the price back inside the window, trust the corrected value.
	if p.rescale && source == "push" {
		if fixed, ok := p.tryRescale(t.Price, lastClose); ok {
			c := *t
			c.Price = fixed
			return &c, true
		}
	}

	// Heuristic, not a correctness guarantee: a genuinely violent move on an
	// illiquid token can be dropped here. The periodic resync repairs it.
	p.metrics.RecordTickDropped("spike")
	return nil, false
}

func (p *TickPipeline) tryRescale(price, lastClose float64) (float64, bool) {
	for _, f := range rescaleFactors {
		for _, candidate := range []float64{price / f, price * f} {
			ratio := candidate / lastClose
			if ratio >= p.minRatio && ratio <= p.maxRatio {
				return candidate, true
			}
		}
	}
	return 0, false
}

func validateTick(t *models.Tick) error {
	if t == nil {
		return fmt.Errorf("tick nil")
	}
	if t.Mint == "" {
		return fmt.Errorf("mint empty")
	}
	if t.Timestamp <= 0 {
		return fmt.Errorf("timestamp invalid")
	}
	if t.Price <= 0 {
		return fmt.Errorf("price invalid")
	}
	return nil
}
