// Package config holds the runtime configuration of sis-handball: defaults,
// the YAML config file, .env files and SIS_HANDBALL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/Grabber66/sis-handball/internal/cache"
	"github.com/Grabber66/sis-handball/internal/league"
	"github.com/Grabber66/sis-handball/internal/scraper"
	"github.com/Grabber66/sis-handball/internal/storage"
	"github.com/adrg/xdg"
)

// AppName is the application name used for XDG directory paths.
const AppName = "sis-handball"

const (
	DefaultCacheTimeout  = "8h"
	DefaultSweepInterval = time.Hour
	DefaultServerAddr    = ":8080"
	DefaultTimezone      = "Europe/Berlin"
	DefaultLogLevel      = "INFO"
	DefaultRetries       = 0
)

var (
	ErrInvalidTimeout      = errors.New("upstream timeout must be positive")
	ErrInvalidCacheTimeout = errors.New("invalid cache timeout")
	ErrUnknownDriver       = errors.New("unknown storage driver")
	ErrInvalidCharset      = errors.New("invalid charset")
	ErrInvalidMaxBodySize  = errors.New("max body size must be positive")
	ErrInvalidTimezone     = errors.New("invalid timezone")
	ErrInvalidRetries      = errors.New("retries must not be negative")
)

// Config is the complete configuration.
type Config struct {
	Upstream Upstream `yaml:"upstream"`
	Cache    Cache    `yaml:"cache"`
	Storage  Storage  `yaml:"storage"`
	Server   Server   `yaml:"server"`
	Render   Render   `yaml:"render"`
	LogLevel string   `yaml:"log_level"`
}

// Upstream configures the fetcher.
type Upstream struct {
	BaseURL     string        `yaml:"base_url"`
	UserAgent   string        `yaml:"user_agent"`
	Timeout     time.Duration `yaml:"timeout"`
	Charset     string        `yaml:"charset"`
	MaxBodySize int64         `yaml:"max_body_size"`
	Retries     int           `yaml:"retries"`
}

// Cache configures the result cache. Timeout also bounds how often a team's
// position is refreshed.
type Cache struct {
	Enabled       bool          `yaml:"enabled"`
	Timeout       string        `yaml:"timeout"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
	// ShowUpdate renders the time of the cached result below the table.
	ShowUpdate bool `yaml:"show_update"`
}

// Storage selects the row store.
type Storage struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
	Dir    string `yaml:"dir"`
}

// Server configures "sis-handball serve".
type Server struct {
	Addr           string        `yaml:"addr"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

// Render configures the HTML output.
type Render struct {
	HideErrors bool `yaml:"hide_errors"`
	// LazyLoadLimit renders rows past a limit hidden instead of dropping them.
	LazyLoadLimit bool   `yaml:"lazy_load_limit"`
	Timezone      string `yaml:"timezone"`
	// Texts overrides display labels, keyed by the English header text or a
	// render label key.
	Texts map[string]string `yaml:"texts"`
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		Upstream: Upstream{
			BaseURL:     league.DefaultBaseURL,
			UserAgent:   scraper.UserAgent,
			Timeout:     scraper.Timeout,
			Charset:     scraper.DefaultCharset,
			MaxBodySize: scraper.MaxBodySize,
			Retries:     DefaultRetries,
		},
		Cache: Cache{
			Enabled:       true,
			Timeout:       DefaultCacheTimeout,
			SweepInterval: DefaultSweepInterval,
		},
		Storage: Storage{
			Driver: storage.DriverSQLite,
			Dir:    XDGDataDir(),
		},
		Server: Server{
			Addr:         DefaultServerAddr,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 45 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Render: Render{
			Timezone: DefaultTimezone,
		},
		LogLevel: DefaultLogLevel,
	}
}

// XDGDataDir returns the XDG data directory for sis-handball.
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigFile returns the config file path inside the XDG config directory.
func XDGConfigFile() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// Validate checks the configuration for values the pipeline cannot work with.
func (c *Config) Validate() error {
	if c.Upstream.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Upstream.MaxBodySize <= 0 {
		return ErrInvalidMaxBodySize
	}
	if c.Upstream.Retries < 0 {
		return ErrInvalidRetries
	}
	if _, err := scraper.LookupCharset(c.Upstream.Charset); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidCharset, c.Upstream.Charset)
	}
	if !cache.ValidTimeout(c.Cache.Timeout) {
		return fmt.Errorf("%w: %q", ErrInvalidCacheTimeout, c.Cache.Timeout)
	}
	switch c.Storage.Driver {
	case storage.DriverSQLite, storage.DriverPostgres:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Storage.Driver)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// CacheTimeout returns the parsed cache timeout.
func (c *Config) CacheTimeout() time.Duration {
	return cache.ParseTimeout(c.Cache.Timeout)
}

// Location returns the timezone used for displayed times.
func (c *Config) Location() (*time.Location, error) {
	if c.Render.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Render.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, c.Render.Timezone)
	}
	return loc, nil
}

// ScraperOptions returns the fetcher options.
func (c *Config) ScraperOptions() scraper.Options {
	return scraper.Options{
		UserAgent:   c.Upstream.UserAgent,
		Timeout:     c.Upstream.Timeout,
		Charset:     c.Upstream.Charset,
		MaxBodySize: c.Upstream.MaxBodySize,
		Retries:     c.Upstream.Retries,
	}
}

// StorageOptions returns the row store options.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Driver: c.Storage.Driver,
		DSN:    c.Storage.DSN,
		Dir:    c.Storage.Dir,
	}
}
