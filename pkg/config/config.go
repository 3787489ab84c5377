package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	History struct {
		BaseURL      string        `yaml:"base_url"`
		Timeout      time.Duration `yaml:"timeout"`
		CacheTTL     time.Duration `yaml:"cache_ttl"`
		DefaultLimit int           `yaml:"default_limit"`
	} `yaml:"history"`
	PumpFeed struct {
		WebSocketURL   string        `yaml:"websocket_url"`
		ReconnectDelay time.Duration `yaml:"reconnect_delay"`
		PingInterval   time.Duration `yaml:"ping_interval"`
	} `yaml:"pumpfeed"`
	Chart struct {
		DefaultTimeframe string        `yaml:"default_timeframe"`
		HistoryLimit     int           `yaml:"history_limit"`
		PollInterval     time.Duration `yaml:"poll_interval"`
		ResyncInterval   time.Duration `yaml:"resync_interval"`
		// Spike filter bounds: ticks whose price/lastClose ratio falls outside
		// [min_ratio, max_ratio] are dropped. Inherited constants, kept
		// configurable pending product confirmation.
		SpikeMinRatio float64 `yaml:"spike_min_ratio"`
		SpikeMaxRatio float64 `yaml:"spike_max_ratio"`
		UnitRescale   bool    `yaml:"unit_rescale"`
		Indicators    struct {
			SMAPeriod  int     `yaml:"sma_period"`
			EMAPeriod  int     `yaml:"ema_period"`
			BollPeriod int     `yaml:"boll_period"`
			BollK      float64 `yaml:"boll_k"`
			MACDFast   int     `yaml:"macd_fast"`
			MACDSlow   int     `yaml:"macd_slow"`
			MACDSignal int     `yaml:"macd_signal"`
		} `yaml:"indicators"`
		PointerRate struct {
			Capacity  float64 `yaml:"capacity"`
			RefillSec float64 `yaml:"refill_per_sec"`
		} `yaml:"pointer_rate"`
	} `yaml:"chart"`
	Backend struct {
		Type string `yaml:"type"` // none, kafka, clickhouse
	} `yaml:"backend"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("HISTORY_URL"); v != "" {
		c.History.BaseURL = v
	}
	if v := os.Getenv("PUMPFEED_URL"); v != "" {
		c.PumpFeed.WebSocketURL = v
	}
	if v := os.Getenv("BACKEND"); v != "" {
		c.Backend.Type = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Backend.Type == "" {
		c.Backend.Type = "none"
	}
	if c.Chart.DefaultTimeframe == "" {
		c.Chart.DefaultTimeframe = "1m"
	}
	if c.Chart.HistoryLimit <= 0 {
		c.Chart.HistoryLimit = 500
	}
	if c.Chart.PollInterval <= 0 {
		c.Chart.PollInterval = 5 * time.Second
	}
	if c.Chart.ResyncInterval <= 0 {
		c.Chart.ResyncInterval = 60 * time.Second
	}
	if c.Chart.SpikeMinRatio <= 0 {
		c.Chart.SpikeMinRatio = 0.1
	}
	if c.Chart.SpikeMaxRatio <= 0 {
		c.Chart.SpikeMaxRatio = 10
	}
	ind := &c.Chart.Indicators
	if ind.SMAPeriod <= 0 {
		ind.SMAPeriod = 20
	}
	if ind.EMAPeriod <= 0 {
		ind.EMAPeriod = 9
	}
	if ind.BollPeriod <= 0 {
		ind.BollPeriod = 20
	}
	if ind.BollK <= 0 {
		ind.BollK = 2
	}
	if ind.MACDFast <= 0 {
		ind.MACDFast = 12
	}
	if ind.MACDSlow <= 0 {
		ind.MACDSlow = 26
	}
	if ind.MACDSignal <= 0 {
		ind.MACDSignal = 9
	}
	if c.Chart.PointerRate.Capacity <= 0 {
		c.Chart.PointerRate.Capacity = 30
	}
	if c.Chart.PointerRate.RefillSec <= 0 {
		c.Chart.PointerRate.RefillSec = 30
	}
	if c.History.DefaultLimit <= 0 {
		c.History.DefaultLimit = 500
	}
	if c.History.Timeout <= 0 {
		c.History.Timeout = 10 * time.Second
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	switch c.Backend.Type {
	case "none", "kafka", "clickhouse":
	default:
		return fmt.Errorf("backend.type must be 'none', 'kafka' or 'clickhouse', got '%s'", c.Backend.Type)
	}
	if c.History.BaseURL == "" {
		return fmt.Errorf("history.base_url is required")
	}
	if c.PumpFeed.WebSocketURL == "" {
		return fmt.Errorf("pumpfeed.websocket_url is required")
	}
	if c.Chart.SpikeMinRatio >= c.Chart.SpikeMaxRatio {
		return fmt.Errorf("chart.spike_min_ratio must be below chart.spike_max_ratio")
	}
	return nil
}
