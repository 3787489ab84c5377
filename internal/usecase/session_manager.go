package usecase

import (
	"context"
	"fmt"
	"sync"

	drepo "SolCharts/internal/domain/repository"
	"SolCharts/internal/middleware"
	"SolCharts/internal/services/indicators"
	applogger "SolCharts/pkg/logger"
)

// Manager owns one ChartSession per mint. Sessions are opened lazily on
// first request and torn down together on shutdown.
type Manager struct {
	cfg           SessionConfig
	history       *HistoryUseCase
	settings      drepo.SettingsStore
	pipe          *middleware.TickPipeline
	engine        *indicators.Engine
	proc          *UpdateProcessor
	streamFactory StreamFactory
	metrics       drepo.Metrics
	logger        *applogger.Logger

	mu       sync.Mutex
	sessions map[string]*ChartSession
}

// NewManager creates a session manager.
func NewManager(
	cfg SessionConfig,
	history *HistoryUseCase,
	settings drepo.SettingsStore,
	pipe *middleware.TickPipeline,
	engine *indicators.Engine,
	proc *UpdateProcessor,
	streamFactory StreamFactory,
	metrics drepo.Metrics,
	logger *applogger.Logger,
) *Manager {
	return &Manager{
		cfg:           cfg,
		history:       history,
		settings:      settings,
		pipe:          pipe,
		engine:        engine,
		proc:          proc,
		streamFactory: streamFactory,
		metrics:       metrics,
		logger:        logger,
		sessions:      make(map[string]*ChartSession),
	}
}

// GetOrOpen returns the session for mint, opening it on first use. Open
// runs outside the manager lock; if two requests race the same new mint,
// the loser's session is closed and the winner's is returned.
func (m *Manager) GetOrOpen(ctx context.Context, mint string) (*ChartSession, error) {
	if mint == "" {
		return nil, fmt.Errorf("mint required")
	}

	m.mu.Lock()
	if s, ok := m.sessions[mint]; ok {
		m.mu.Unlock()
		return s, nil
	}
	m.mu.Unlock()

	s := NewChartSession(mint, m.cfg, m.history, m.settings, m.pipe, m.engine,
		m.proc, m.streamFactory, m.metrics, m.logger)
	if err := s.Open(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	if existing, ok := m.sessions[mint]; ok {
		m.mu.Unlock()
		s.Close()
		return existing, nil
	}
	m.sessions[mint] = s
	m.mu.Unlock()
	return s, nil
}

// Get returns the session for mint if one is open.
func (m *Manager) Get(mint string) (*ChartSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[mint]
	return s, ok
}

// CloseAll tears every session down. Used on shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := make([]*ChartSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*ChartSession)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
	m.logger.Info("all chart sessions closed", applogger.Int("count", len(sessions)))
}
