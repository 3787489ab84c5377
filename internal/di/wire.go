//go:build wireinject
// +build wireinject

package di

import (
	"SolCharts/pkg/config"
	"SolCharts/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideBytesCache,

		// Repositories
		ProvideUpdateArchive,
		ProvideUpdatePublisher,
		ProvideSettingsStore,
		ProvideHistoryProvider,

		// Use cases
		ProvideUpdateProcessor,
		ProvideHistoryUseCase,
		ProvideTickPipeline,
		ProvideIndicatorEngine,
		ProvideStreamFactory,
		ProvideSessionManager,

		// HTTP handler
		ProvideChartHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
