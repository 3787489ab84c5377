package repository

import (
	"context"

	"SolCharts/internal/domain/models"
)

// HistoryProvider is the historical-data collaborator: candle snapshots and
// latest known prices, served by an upstream REST API.
type HistoryProvider interface {
	GetHistory(ctx context.Context, mint string, tf Timeframe, limit int) ([]models.Candle, error)
	GetLatestPrice(ctx context.Context, mint string) (*models.PriceQuote, error)
}

// TickStream is the push-feed collaborator delivering live token trades.
type TickStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context, mint string) error
	Unsubscribe(ctx context.Context, mint string) error
	Read(ctx context.Context) (<-chan *models.Tick, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// SettingsStore persists per-mint chart settings across sessions.
type SettingsStore interface {
	Load(ctx context.Context, mint string) (*models.ChartSettings, bool, error)
	Save(ctx context.Context, mint string, s *models.ChartSettings) error
}

// UpdatePublisher pushes accepted candle updates to a message broker.
type UpdatePublisher interface {
	Publish(ctx context.Context, u *models.ChartUpdate) error
	Close() error
}

// UpdateArchive persists accepted candle updates to long-term storage.
type UpdateArchive interface {
	Init(ctx context.Context) error
	Store(ctx context.Context, u *models.ChartUpdate) error
	Health(ctx context.Context) error
	Close() error
}

// Metrics records operational metrics for the chart engine.
type Metrics interface {
	RecordTickMerged(mint, source string)
	RecordTickDropped(reason string)
	RecordTradeSide(mint, side string)
	RecordResync(mint string)
	RecordLastPrice(mint string, price float64)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
