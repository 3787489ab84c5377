package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	ticksMerged  *prometheus.CounterVec
	ticksDropped *prometheus.CounterVec
	tradeSides   *prometheus.CounterVec
	resyncs      *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	lastPrice    *prometheus.GaugeVec
	latency      *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		ticksMerged: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solcharts_ticks_merged_total",
				Help: "Total number of ticks merged into the candle series",
			},
			[]string{"mint", "source"},
		),
		ticksDropped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solcharts_ticks_dropped_total",
				Help: "Total number of ticks dropped before the aggregator",
			},
			[]string{"reason"},
		),
		tradeSides: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solcharts_trades_total",
				Help: "Total number of observed trades by side",
			},
			[]string{"mint", "side"},
		),
		resyncs: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solcharts_resyncs_total",
				Help: "Total number of full history resyncs",
			},
			[]string{"mint"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solcharts_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "solcharts_last_price",
				Help: "Last accepted price for a mint",
			},
			[]string{"mint"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "solcharts_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordTickMerged records a tick accepted by the aggregator.
func (r *Recorder) RecordTickMerged(mint, source string) {
	r.ticksMerged.WithLabelValues(mint, source).Inc()
}

// RecordTickDropped records a tick rejected before the aggregator.
func (r *Recorder) RecordTickDropped(reason string) {
	r.ticksDropped.WithLabelValues(reason).Inc()
}

// RecordTradeSide records the buy/sell side of an observed trade.
func (r *Recorder) RecordTradeSide(mint, side string) {
	r.tradeSides.WithLabelValues(mint, side).Inc()
}

// RecordResync records a full history resync for a mint.
func (r *Recorder) RecordResync(mint string) {
	r.resyncs.WithLabelValues(mint).Inc()
}

// RecordLastPrice records the last accepted price for a mint.
func (r *Recorder) RecordLastPrice(mint string, price float64) {
	r.lastPrice.WithLabelValues(mint).Set(price)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
