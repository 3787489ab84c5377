package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"SolCharts/internal/domain/models"
	domrepo "SolCharts/internal/domain/repository"
	"SolCharts/internal/service/cache"
)

// HistoryUseCase fronts the historical-data collaborator with a short-TTL
// cache so dashboard fan-out does not hammer the upstream REST API.
type HistoryUseCase struct {
	provider     domrepo.HistoryProvider
	cache        cache.BytesCache
	ttl          time.Duration
	defaultLimit int
	metrics      domrepo.Metrics
}

func NewHistoryUseCase(provider domrepo.HistoryProvider, c cache.BytesCache, ttl time.Duration, defaultLimit int, metrics domrepo.Metrics) *HistoryUseCase {
	if defaultLimit <= 0 {
		defaultLimit = 500
	}
	return &HistoryUseCase{provider: provider, cache: c, ttl: ttl, defaultLimit: defaultLimit, metrics: metrics}
}

// GetHistory fetches a candle snapshot, serving from cache when fresh.
func (uc *HistoryUseCase) GetHistory(ctx context.Context, mint string, tf domrepo.Timeframe, limit int) ([]models.Candle, error) {
	if mint == "" {
		return nil, fmt.Errorf("mint required")
	}
	if limit <= 0 {
		limit = uc.defaultLimit
	}

	key := fmt.Sprintf("history:%s:%s:%d", mint, tf, limit)
	if uc.cache != nil && uc.ttl > 0 {
		if b, ok, err := uc.cache.GetBytes(ctx, key); err == nil && ok {
			var candles []models.Candle
			if err := json.Unmarshal(b, &candles); err == nil {
				return candles, nil
			}
		}
	}

	start := time.Now()
	candles, err := uc.provider.GetHistory(ctx, mint, tf, limit)
	if err != nil {
		uc.metrics.RecordError("history_fetch")
		return nil, fmt.Errorf("get history: %w", err)
	}
	uc.metrics.RecordLatency("history_fetch", time.Since(start).Seconds())

	if uc.cache != nil && uc.ttl > 0 {
		if b, err := json.Marshal(candles); err == nil {
			_ = uc.cache.SetBytes(ctx, key, b, uc.ttl)
		}
	}
	return candles, nil
}

// GetLatestPrice fetches the latest known price, bypassing the cache: the
// poll path needs the freshest value the collaborator has.
func (uc *HistoryUseCase) GetLatestPrice(ctx context.Context, mint string) (*models.PriceQuote, error) {
	q, err := uc.provider.GetLatestPrice(ctx, mint)
	if err != nil {
		uc.metrics.RecordError("poll")
		return nil, fmt.Errorf("get latest price: %w", err)
	}
	return q, nil
}
