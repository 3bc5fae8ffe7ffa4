package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the environment driven configuration for the report service.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"report-api"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"REPORT_API_PORT" envDefault:"8390"`
	LogLevel        string        `env:"REPORT_LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"REPORT_LOG_FORMAT" envDefault:"console"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Application database (read-write; reports, cache, desk assignments)
	DBPostgresqlWriteDSN string `env:"DB_POSTGRESQL_WRITE_DSN,notEmpty"`

	// Analytics database (read-only upstream; activity, violations, attendance)
	AnalyticsDSN string `env:"ANALYTICS_POSTGRESQL_DSN,notEmpty"`

	// Database Connection Pool
	DBMaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBMaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"15"`
	DBConnLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`

	// API Configuration
	APIURL string `env:"REPORT_API_URL" envDefault:"http://localhost:8390"`

	// Storage Backend Selection
	StorageBackend string `env:"REPORT_STORAGE_BACKEND" envDefault:"local"` // Options: "s3" or "local"

	// Local Storage Configuration
	LocalStoragePath string `env:"REPORT_LOCAL_STORAGE_PATH" envDefault:"./report-data"`

	// S3 Storage Configuration
	S3Endpoint     string `env:"REPORT_S3_ENDPOINT"`
	S3Region       string `env:"REPORT_S3_REGION" envDefault:"us-west-2"`
	S3Bucket       string `env:"REPORT_S3_BUCKET"`
	S3AccessKeyID  string `env:"REPORT_S3_ACCESS_KEY_ID"`
	S3SecretKey    string `env:"REPORT_S3_SECRET_ACCESS_KEY"`
	S3UsePathStyle bool   `env:"REPORT_S3_USE_PATH_STYLE" envDefault:"true"`

	// Report Configuration
	ReportRetention time.Duration `env:"REPORT_RETENTION" envDefault:"168h"` // 7 days
	CacheTTL        time.Duration `env:"REPORT_CACHE_TTL" envDefault:"15m"`
	DefaultWindow   int           `env:"REPORT_DEFAULT_WINDOW_HOURS" envDefault:"24"`
	SweepInterval   time.Duration `env:"REPORT_SWEEP_INTERVAL" envDefault:"1h"`
	MaxListPageSize int           `env:"REPORT_MAX_LIST_PAGE_SIZE" envDefault:"100"`

	// Authentication
	AuthEnabled bool   `env:"AUTH_ENABLED" envDefault:"false"`
	AuthIssuer  string `env:"AUTH_ISSUER"`
	AuthJWKSURL string `env:"AUTH_JWKS_URL"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.S3Bucket = strings.TrimSpace(cfg.S3Bucket)
	cfg.S3AccessKeyID = strings.TrimSpace(cfg.S3AccessKeyID)
	cfg.S3SecretKey = strings.TrimSpace(cfg.S3SecretKey)
	cfg.S3Endpoint = strings.TrimSpace(cfg.S3Endpoint)

	if cfg.ReportRetention <= 0 {
		cfg.ReportRetention = 168 * time.Hour
	}
	if cfg.DefaultWindow <= 0 {
		cfg.DefaultWindow = 24
	}
	if cfg.AuthEnabled {
		if strings.TrimSpace(cfg.AuthIssuer) == "" {
			return nil, fmt.Errorf("AUTH_ISSUER is required when AUTH_ENABLED is true")
		}
		if strings.TrimSpace(cfg.AuthJWKSURL) == "" {
			return nil, fmt.Errorf("AUTH_JWKS_URL is required when AUTH_ENABLED is true")
		}
	}
	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// DownloadURL returns the public download URL for a report file.
func (c *Config) DownloadURL(filename string) string {
	return fmt.Sprintf("%s/v1/reports/download/%s", strings.TrimSuffix(c.APIURL, "/"), filename)
}

// IsLocalStorage returns true if local storage backend is configured.
func (c *Config) IsLocalStorage() bool {
	backend := strings.ToLower(strings.TrimSpace(c.StorageBackend))
	return backend == "" || backend == "local"
}
