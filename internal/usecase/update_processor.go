package usecase

import (
	"context"
	"fmt"
	"time"

	"SolCharts/internal/domain/models"
	drepo "SolCharts/internal/domain/repository"
)

// UpdateProcessor routes accepted candle updates to the configured backend
// so downstream consumers (alerting, copy-trade bots) see the same series
// the chart does.
type UpdateProcessor struct {
	pub     drepo.UpdatePublisher
	archive drepo.UpdateArchive
	metrics drepo.Metrics
	backend string
}

// NewUpdateProcessor creates a new UpdateProcessor instance.
// backend is one of "none", "kafka", "clickhouse".
func NewUpdateProcessor(pub drepo.UpdatePublisher, archive drepo.UpdateArchive, metrics drepo.Metrics, backend string) *UpdateProcessor {
	return &UpdateProcessor{pub: pub, archive: archive, metrics: metrics, backend: backend}
}

// Process routes a single update to the configured backend.
func (p *UpdateProcessor) Process(ctx context.Context, u *models.ChartUpdate) error {
	if u == nil {
		return fmt.Errorf("update is nil")
	}

	start := time.Now()
	var err error

	switch p.backend {
	case "none", "":
		return nil
	case "kafka":
		err = p.pub.Publish(ctx, u)
	case "clickhouse":
		err = p.archive.Store(ctx, u)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("update_process")
		return fmt.Errorf("process update: %w", err)
	}

	p.metrics.RecordLatency("update_process", time.Since(start).Seconds())
	return nil
}

// Close closes underlying resources if available.
func (p *UpdateProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
	if p.archive != nil {
		_ = p.archive.Close()
	}
}
