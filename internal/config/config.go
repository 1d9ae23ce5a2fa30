// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/deeparb/deeparb/internal/asset"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Network   NetworkConfig   `mapstructure:"network"`
	Indexer   IndexerConfig   `mapstructure:"indexer"`
	Scanner   ScannerConfig   `mapstructure:"scanner"`
	Store     StoreConfig     `mapstructure:"store"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// NetworkConfig selects the ledger network.
type NetworkConfig struct {
	Name string `mapstructure:"name"`
}

// Network returns the configured network as asset.Network.
func (c *NetworkConfig) Network() asset.Network {
	return asset.Network(c.Name)
}

// IndexerConfig holds order-book indexer endpoints.
type IndexerConfig struct {
	HTTPURL           string        `mapstructure:"http_url"`
	WSURL             string        `mapstructure:"ws_url"`
	SnapshotDepth     int           `mapstructure:"snapshot_depth"`
	StaleTimeout      time.Duration `mapstructure:"stale_timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
}

// ScannerConfig holds arbitrage scan parameters.
type ScannerConfig struct {
	Interval         time.Duration `mapstructure:"interval"`
	BorrowAmount     float64       `mapstructure:"borrow_amount"`
	MinProfitPercent float64       `mapstructure:"min_profit_percent"`
	MaxConcurrency   int           `mapstructure:"max_concurrency"`
	FetchTimeout     time.Duration `mapstructure:"fetch_timeout"`
	FeeRate          float64       `mapstructure:"fee_rate"`
	FixedFee         float64       `mapstructure:"fixed_fee"`
}

// StoreConfig holds the manager record store settings.
type StoreConfig struct {
	Driver string `mapstructure:"driver"` // "memory" or "sqlite"
	Path   string `mapstructure:"path"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string `mapstructure:"otlp_headers"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
	HealthPort     int    `mapstructure:"health_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("DEEP")
	v.AutomaticEnv()

	// Bind env vars to config keys
	bindEnvVars(v)

	// Set defaults
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "DEEP_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "DEEP_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "DEEP_LOG_LEVEL", "LOG_LEVEL")

	// Network. The variable must not equal the section name: with
	// AutomaticEnv a DEEP_NETWORK value would shadow the whole
	// network section during unmarshal.
	v.BindEnv("network.name", "DEEP_NETWORK_NAME", "NETWORK")

	// Indexer
	v.BindEnv("indexer.http_url", "DEEP_INDEXER_HTTP_URL", "INDEXER_HTTP_URL")
	v.BindEnv("indexer.ws_url", "DEEP_INDEXER_WS_URL", "INDEXER_WS_URL")

	// Scanner
	v.BindEnv("scanner.interval", "DEEP_SCAN_INTERVAL")
	v.BindEnv("scanner.borrow_amount", "DEEP_BORROW_AMOUNT")
	v.BindEnv("scanner.min_profit_percent", "DEEP_MIN_PROFIT_PERCENT")

	// Store
	v.BindEnv("store.driver", "DEEP_STORE_DRIVER")
	v.BindEnv("store.path", "DEEP_STORE_PATH")

	// Telemetry
	v.BindEnv("telemetry.enabled", "DEEP_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "DEEP_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "DEEP_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "deeparb")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Network defaults
	v.SetDefault("network.name", "testnet")

	// Indexer defaults
	v.SetDefault("indexer.http_url", "https://deepbook-indexer.testnet.mystenlabs.com")
	v.SetDefault("indexer.ws_url", "wss://deepbook-indexer.testnet.mystenlabs.com/ws")
	v.SetDefault("indexer.snapshot_depth", 20)
	v.SetDefault("indexer.stale_timeout", "5s")
	v.SetDefault("indexer.requests_per_minute", 300)

	// Scanner defaults
	v.SetDefault("scanner.interval", "10s")
	v.SetDefault("scanner.borrow_amount", 100.0)
	v.SetDefault("scanner.min_profit_percent", 0.1)
	v.SetDefault("scanner.max_concurrency", 8)
	v.SetDefault("scanner.fetch_timeout", "5s")
	v.SetDefault("scanner.fee_rate", 0.003)
	v.SetDefault("scanner.fixed_fee", 0.0)

	// Store defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "deeparb.db")

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "deeparb")
	v.SetDefault("telemetry.prometheus_port", 9090)
	v.SetDefault("telemetry.health_port", 8081)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Network.Network() {
	case asset.NetworkMainnet, asset.NetworkTestnet:
	default:
		return fmt.Errorf("unknown network.name: %s", c.Network.Name)
	}
	if c.Indexer.HTTPURL == "" {
		return fmt.Errorf("indexer.http_url is required")
	}
	if c.Indexer.WSURL == "" {
		return fmt.Errorf("indexer.ws_url is required")
	}
	if c.Scanner.BorrowAmount <= 0 {
		return fmt.Errorf("scanner.borrow_amount must be positive, got %v", c.Scanner.BorrowAmount)
	}
	if c.Scanner.MinProfitPercent < 0 {
		return fmt.Errorf("scanner.min_profit_percent cannot be negative, got %v", c.Scanner.MinProfitPercent)
	}
	if c.Scanner.FeeRate < 0 || c.Scanner.FeeRate >= 1 {
		return fmt.Errorf("scanner.fee_rate must be in [0, 1), got %v", c.Scanner.FeeRate)
	}
	switch c.Store.Driver {
	case "memory":
	case "sqlite":
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown store.driver: %s", c.Store.Driver)
	}
	return nil
}
