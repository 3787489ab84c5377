package di

import (
	"context"
	"fmt"
	"time"

	"SolCharts/internal/domain/repository"
	"SolCharts/internal/handler/api"
	mid "SolCharts/internal/middleware"
	internalrepo "SolCharts/internal/repository"
	icache "SolCharts/internal/service/cache"
	"SolCharts/internal/service/pumpfeed"
	"SolCharts/internal/services/indicators"
	"SolCharts/internal/usecase"
	pkgch "SolCharts/pkg/clickhouse"
	"SolCharts/pkg/config"
	xhttp "SolCharts/pkg/http"
	pkgkafka "SolCharts/pkg/kafka"
	applogger "SolCharts/pkg/logger"
	"SolCharts/pkg/metrics"
	"SolCharts/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := "info"
	format := "json"
	if cfg.Environment == "development" {
		level = "debug"
		format = "console"
	}
	l, err := applogger.New(&applogger.Config{Level: level, Format: format, Output: "stdout"})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client when the archive
// backend is enabled. Returns nil otherwise so the rest of the graph can
// skip it.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.Backend.Type != "clickhouse" {
		return nil, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := cfg.ClickHouse.Database
	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + db,
		"CREATE TABLE IF NOT EXISTS " + db + ".chart_candles (" +
			"mint String, tf String, bucket DateTime, " +
			"open Float64, high Float64, low Float64, close Float64, volume Float64, " +
			"updated DateTime) ENGINE=ReplacingMergeTree(updated) ORDER BY (mint, tf, bucket)",
	}); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer when the broker backend is
// enabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if cfg.Backend.Type != "kafka" {
		return nil, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideUpdateArchive creates ClickHouse archive storage.
func ProvideUpdateArchive(chClient *pkgch.Client, cfg *config.Config) repository.UpdateArchive {
	if chClient == nil {
		return nil
	}
	return internalrepo.NewClickHouseArchive(chClient.DB(), cfg.ClickHouse.Database+".chart_candles")
}

// ProvideUpdatePublisher creates a Kafka update publisher.
func ProvideUpdatePublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.UpdatePublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaUpdatePublisher(producer, cfg.Kafka.Topic)
}

// ProvideUpdateProcessor creates the backend router for accepted updates.
func ProvideUpdateProcessor(
	pub repository.UpdatePublisher,
	archive repository.UpdateArchive,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.UpdateProcessor {
	return usecase.NewUpdateProcessor(pub, archive, m, cfg.Backend.Type)
}

// ProvideBytesCache creates the settings/history KV: Redis when enabled,
// in-process TTL cache otherwise.
func ProvideBytesCache(cfg *config.Config) icache.BytesCache {
	if cfg.Redis.Enabled {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	return icache.NewTTLCache()
}

// ProvideSettingsStore creates the per-mint settings store.
func ProvideSettingsStore(kv icache.BytesCache) repository.SettingsStore {
	return internalrepo.NewKVSettingsStore(kv)
}

// ProvideHistoryProvider creates the HTTP client for the history API.
func ProvideHistoryProvider(cfg *config.Config) repository.HistoryProvider {
	client := xhttp.NewClient(xhttp.WithTimeout(cfg.History.Timeout))
	return internalrepo.NewHistoryHTTP(client, cfg.History.BaseURL)
}

// ProvideHistoryUseCase creates the cached history use case.
func ProvideHistoryUseCase(
	provider repository.HistoryProvider,
	kv icache.BytesCache,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.HistoryUseCase {
	return usecase.NewHistoryUseCase(provider, kv, cfg.History.CacheTTL, cfg.History.DefaultLimit, m)
}

// ProvideTickPipeline creates the spike/normalization gate.
func ProvideTickPipeline(m repository.Metrics, cfg *config.Config) *mid.TickPipeline {
	return mid.NewTickPipeline(m,
		mid.WithSpikeBounds(cfg.Chart.SpikeMinRatio, cfg.Chart.SpikeMaxRatio),
		mid.WithUnitRescale(cfg.Chart.UnitRescale),
	)
}

// ProvideIndicatorEngine creates the overlay computation engine.
func ProvideIndicatorEngine(cfg *config.Config) *indicators.Engine {
	ind := cfg.Chart.Indicators
	return indicators.NewEngine(indicators.Params{
		SMAPeriod:  ind.SMAPeriod,
		EMAPeriod:  ind.EMAPeriod,
		BollPeriod: ind.BollPeriod,
		BollK:      ind.BollK,
		MACDFast:   ind.MACDFast,
		MACDSlow:   ind.MACDSlow,
		MACDSignal: ind.MACDSignal,
	})
}

// ProvideStreamFactory creates per-session push-feed connections.
func ProvideStreamFactory(cfg *config.Config, l *applogger.Logger) usecase.StreamFactory {
	return func() repository.TickStream {
		return pumpfeed.New(
			cfg.PumpFeed.WebSocketURL,
			cfg.PumpFeed.ReconnectDelay,
			cfg.PumpFeed.PingInterval,
			l,
		)
	}
}

// ProvideSessionManager creates the chart session manager.
func ProvideSessionManager(
	cfg *config.Config,
	history *usecase.HistoryUseCase,
	settings repository.SettingsStore,
	pipe *mid.TickPipeline,
	engine *indicators.Engine,
	proc *usecase.UpdateProcessor,
	factory usecase.StreamFactory,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.Manager {
	return usecase.NewManager(
		usecase.SessionConfig{
			DefaultTimeframe: repository.NormalizeTimeframe(cfg.Chart.DefaultTimeframe),
			HistoryLimit:     cfg.Chart.HistoryLimit,
			PollInterval:     cfg.Chart.PollInterval,
			ResyncInterval:   cfg.Chart.ResyncInterval,
		},
		history, settings, pipe, engine, proc, factory, m, l,
	)
}

// ProvideChartHandler creates the chart HTTP handler.
func ProvideChartHandler(l *applogger.Logger, sessions *usecase.Manager, cfg *config.Config) *api.ChartHandler {
	return api.NewChartHandler(l, sessions, cfg.Chart.PointerRate.Capacity, cfg.Chart.PointerRate.RefillSec)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler *api.ChartHandler,
	sessions *usecase.Manager,
	proc *usecase.UpdateProcessor,
	chClient *pkgch.Client,
	kv icache.BytesCache,
) *server.App {
	return server.New(cfg, l, handler, sessions, proc, chClient, kv)
}
