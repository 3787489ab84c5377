package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"SolCharts/internal/domain/models"
	"SolCharts/internal/domain/repository"
	pkgkafka "SolCharts/pkg/kafka"
)

// ClickHouseArchive implements UpdateArchive for ClickHouse. Each accepted
// candle update lands as one row keyed (mint, tf, bucket); ReplacingMergeTree
// collapses repeated updates of the same bucket to the latest state.
type ClickHouseArchive struct {
	db    *sql.DB
	table string
}

// NewClickHouseArchive creates ClickHouse archive storage.
func NewClickHouseArchive(db *sql.DB, table string) repository.UpdateArchive {
	return &ClickHouseArchive{db: db, table: table}
}

func (s *ClickHouseArchive) Init(ctx context.Context) error {
	return nil // Schema init in pkg
}

func (s *ClickHouseArchive) Store(ctx context.Context, u *models.ChartUpdate) error {
	candles := u.Candles
	if u.Candle != nil {
		candles = []models.Candle{*u.Candle}
	}
	if len(candles) == 0 {
		return nil
	}

	q := fmt.Sprintf("INSERT INTO %s (mint, tf, bucket, open, high, low, close, volume, updated) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)", s.table)
	now := time.Now()
	for _, c := range candles {
		if _, err := s.db.ExecContext(ctx, q,
			u.Mint,
			u.Timeframe,
			time.Unix(c.Time, 0),
			c.Open,
			c.High,
			c.Low,
			c.Close,
			c.Volume,
			now,
		); err != nil {
			return fmt.Errorf("archive insert: %w", err)
		}
	}
	return nil
}

func (s *ClickHouseArchive) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseArchive) Close() error {
	return nil // Managed by pkg
}

// KafkaUpdatePublisher implements UpdatePublisher for Kafka. Keyed by mint
// so per-token ordering is preserved through partitioning.
type KafkaUpdatePublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaUpdatePublisher creates a Kafka publisher.
func NewKafkaUpdatePublisher(producer *pkgkafka.Producer, topic string) repository.UpdatePublisher {
	return &KafkaUpdatePublisher{producer: producer, topic: topic}
}

func (p *KafkaUpdatePublisher) Publish(ctx context.Context, u *models.ChartUpdate) error {
	return p.producer.Publish(ctx, p.topic, []byte(u.Mint), u)
}

func (p *KafkaUpdatePublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
