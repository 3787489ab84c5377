package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"SolCharts/internal/domain/models"
	domrepo "SolCharts/internal/domain/repository"
	"SolCharts/internal/service/cache"
)

const settingsKeyPrefix = "chart:settings:"

// KVSettingsStore persists per-mint chart settings in a BytesCache.
// Backed by Redis in production so settings survive restarts; the
// in-process TTLCache serves as the fallback when Redis is disabled.
type KVSettingsStore struct {
	kv cache.BytesCache
}

func NewKVSettingsStore(kv cache.BytesCache) domrepo.SettingsStore {
	return &KVSettingsStore{kv: kv}
}

func (s *KVSettingsStore) Load(ctx context.Context, mint string) (*models.ChartSettings, bool, error) {
	b, ok, err := s.kv.GetBytes(ctx, settingsKeyPrefix+mint)
	if err != nil {
		return nil, false, fmt.Errorf("settings load: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	var cfg models.ChartSettings
	if err := json.Unmarshal(b, &cfg); err != nil {
		// Corrupt entry: treat as absent rather than failing the mount.
		return nil, false, nil
	}
	return &cfg, true, nil
}

func (s *KVSettingsStore) Save(ctx context.Context, mint string, cfg *models.ChartSettings) error {
	b, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("settings marshal: %w", err)
	}
	if err := s.kv.SetBytes(ctx, settingsKeyPrefix+mint, b, 0); err != nil {
		return fmt.Errorf("settings save: %w", err)
	}
	return nil
}
