package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for meetingmap.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Database DatabaseConfig `yaml:"database"`
	API      APIConfig      `yaml:"api"`
	NLP      NLPConfig      `yaml:"nlp"`
	Search   SearchConfig   `yaml:"search"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Logging  LoggingConfig  `yaml:"logging"`
	Security SecurityConfig `yaml:"security"`
	Web      WebConfig      `yaml:"web"`
}

// SiteConfig identifies the deployment.
type SiteConfig struct {
	Name string `yaml:"name"`
}

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DatabaseConfig contains relational store settings.
type DatabaseConfig struct {
	// Driver selects the backend: "sqlite" (default) or "postgres".
	Driver string `yaml:"driver"`

	// Path is the SQLite database file. Ignored for postgres.
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`

	// DSN is the PostgreSQL connection string. Ignored for sqlite.
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns"`

	// Migrate applies the embedded schema at startup. Unset means on for
	// sqlite and off for postgres, where the store is owned upstream.
	Migrate *bool `yaml:"migrate"`
}

// ShouldMigrate reports whether the embedded schema is applied at startup.
func (d DatabaseConfig) ShouldMigrate() bool {
	if d.Migrate != nil {
		return *d.Migrate
	}
	return d.Driver != DriverPostgres
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// APITimeoutConfig contains HTTP timeout settings in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// NLPConfig contains settings for the intent-extraction service.
type NLPConfig struct {
	BaseURL string `yaml:"base_url"`

	// Version is the API version token sent with every request (the "v" query parameter).
	Version string `yaml:"version"`

	// Token is the bearer credential. Set via MEETINGMAP_NLP_TOKEN.
	Token string `yaml:"token"`

	// Timeout bounds a single call, in seconds.
	Timeout int `yaml:"timeout"`

	// CacheTTL memoises responses per query text, in seconds. 0 disables the cache.
	CacheTTL int `yaml:"cache_ttl"`
}

// SearchConfig contains search pipeline tuning.
type SearchConfig struct {
	// MinConfidence is the threshold below which an entity imposes no filter.
	MinConfidence float64 `yaml:"min_confidence"`

	// NeighborhoodRadius is the maximum haversine central angle, in radians,
	// between a location and the neighborhood centroid.
	NeighborhoodRadius float64 `yaml:"neighborhood_radius"`
}

// InfluxDBConfig contains InfluxDB connection settings for search analytics.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// SecurityConfig contains security settings.
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig limits the search endpoint, which spends paid NLP calls.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
	Burst             int  `yaml:"burst"`
}

// WebConfig contains settings for the map page.
type WebConfig struct {
	// AssetsDir serves static assets from disk instead of the embedded copy (development).
	AssetsDir string `yaml:"assets_dir"`

	// MapboxToken is the public access token rendered into the page.
	MapboxToken string `yaml:"mapbox_token"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. A .env file in the working directory, if present
//  4. Environment variables (override file values)
//
// Environment variables follow the pattern: MEETINGMAP_SECTION_KEY
// For example: MEETINGMAP_DATABASE_PATH, MEETINGMAP_NLP_TOKEN
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Existing environment always wins over .env entries.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			Name: "meetingmap",
		},
		Database: DatabaseConfig{
			Driver:       DriverSQLite,
			Path:         "./data/meetingmap.db",
			WALMode:      true,
			BusyTimeout:  5,
			MaxOpenConns: 10,
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 3000,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		NLP: NLPConfig{
			BaseURL:  "https://api.wit.ai",
			Version:  "20181212",
			Timeout:  10,
			CacheTTL: 300,
		},
		Search: SearchConfig{
			MinConfidence:      0.9,
			NeighborhoodRadius: 0.75,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Security: SecurityConfig{
			RateLimit: RateLimitConfig{
				Enabled:           false,
				RequestsPerMinute: 120,
				Burst:             20,
			},
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	// Database
	if v := os.Getenv("MEETINGMAP_DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("MEETINGMAP_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("MEETINGMAP_DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("MEETINGMAP_DATABASE_MIGRATE"); v != "" {
		if migrate, err := strconv.ParseBool(v); err == nil {
			cfg.Database.Migrate = &migrate
		}
	}

	// API
	if v := os.Getenv("MEETINGMAP_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("MEETINGMAP_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = port
		}
	}

	// NLP
	if v := os.Getenv("MEETINGMAP_NLP_TOKEN"); v != "" {
		cfg.NLP.Token = v
	}
	if v := os.Getenv("MEETINGMAP_NLP_BASE_URL"); v != "" {
		cfg.NLP.BaseURL = v
	}

	// InfluxDB
	if v := os.Getenv("MEETINGMAP_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Web
	if v := os.Getenv("MEETINGMAP_MAPBOX_TOKEN"); v != "" {
		cfg.Web.MapboxToken = v
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []string

	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			errs = append(errs, "database.path is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			errs = append(errs, "database.dsn is required for the postgres driver (set MEETINGMAP_DATABASE_DSN)")
		}
	default:
		errs = append(errs, fmt.Sprintf("database.driver must be %q or %q", DriverSQLite, DriverPostgres))
	}

	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if c.NLP.BaseURL == "" {
		errs = append(errs, "nlp.base_url is required")
	}
	if c.NLP.Token == "" {
		errs = append(errs, "nlp.token is required (set MEETINGMAP_NLP_TOKEN environment variable)")
	}
	if c.NLP.CacheTTL < 0 {
		errs = append(errs, "nlp.cache_ttl must not be negative")
	}

	if c.Search.MinConfidence < 0 || c.Search.MinConfidence > 1 {
		errs = append(errs, "search.min_confidence must be between 0 and 1")
	}
	if c.Search.NeighborhoodRadius <= 0 {
		errs = append(errs, "search.neighborhood_radius must be positive")
	}

	if c.InfluxDB.Enabled && (c.InfluxDB.URL == "" || c.InfluxDB.Bucket == "") {
		errs = append(errs, "influxdb.url and influxdb.bucket are required when influxdb is enabled")
	}

	if c.Security.RateLimit.Enabled && c.Security.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, "security.rate_limit.requests_per_minute must be positive when enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}

// GetNLPTimeout returns the NLP call timeout as a Duration.
func (c *Config) GetNLPTimeout() time.Duration {
	return time.Duration(c.NLP.Timeout) * time.Second
}

// GetNLPCacheTTL returns the NLP response cache lifetime as a Duration.
func (c *Config) GetNLPCacheTTL() time.Duration {
	return time.Duration(c.NLP.CacheTTL) * time.Second
}
