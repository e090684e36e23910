package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Data source kinds
const (
	SourceREST   = "rest"
	SourceStatic = "static"
	SourceMock   = "mock"
)

// Storage modes
const (
	StorageLocal = "local"
	StorageGCS   = "gcs"
)

// Config holds all configuration for the dashboard service
type Config struct {
	// Server configuration
	Port        string `env:"PORT,default=8981"`
	Environment string `env:"ENVIRONMENT,default=development"`

	// Data source: rest (remote API), static (JSON documents) or mock (built-in sample)
	DataSource string `env:"DATA_SOURCE,default=static"`
	APIBaseURL string `env:"API_BASE_URL"`
	APIOrigin  string `env:"API_ORIGIN,default=http://localhost"`

	// Zero means no timeout; a hung request stalls only the chart waiting on it
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT,default=0s"`

	// Storage for static documents and exported images
	StorageMode string `env:"STORAGE_MODE,default=local"`
	DataDir     string `env:"DATA_DIR,default=./data"`
	GCSBucket   string `env:"GCS_BUCKET"`
	ExportDir   string `env:"EXPORT_DIR,default=./exports"`

	// View and chart configuration
	BannerTTL       time.Duration `env:"BANNER_TTL,default=5s"`
	ChartWidth      int           `env:"CHART_WIDTH,default=800"`
	ChartHeight     int           `env:"CHART_HEIGHT,default=500"`
	ExportCacheSize int           `env:"EXPORT_CACHE_SIZE,default=32"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=auto"`
	LogFile   string `env:"LOG_FILE"`
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and cross-field requirements
func (c *Config) Validate() error {
	c.DataSource = strings.ToLower(c.DataSource)
	switch c.DataSource {
	case SourceREST, SourceStatic, SourceMock:
	default:
		return fmt.Errorf("invalid DATA_SOURCE %q: want rest, static or mock", c.DataSource)
	}

	c.StorageMode = strings.ToLower(c.StorageMode)
	switch c.StorageMode {
	case StorageLocal:
	case StorageGCS:
		if c.GCSBucket == "" {
			return fmt.Errorf("GCS_BUCKET is required when STORAGE_MODE=gcs")
		}
	default:
		return fmt.Errorf("invalid STORAGE_MODE %q: want local or gcs", c.StorageMode)
	}

	if c.ChartWidth <= 0 || c.ChartHeight <= 0 {
		return fmt.Errorf("chart dimensions must be positive, got %dx%d", c.ChartWidth, c.ChartHeight)
	}
	if c.FetchTimeout < 0 {
		return fmt.Errorf("FETCH_TIMEOUT must not be negative")
	}
	return nil
}

// IsLocal reports whether the service runs against local storage
func (c *Config) IsLocal() bool {
	return c.StorageMode == StorageLocal
}
