package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config file name searched in the current and home directory.
const DefaultConfigFile = ".sis-handball.yaml"

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SIS_HANDBALL_"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

//go:embed template.yaml
var template []byte

// Template returns the commented config file written by "sis-handball init".
func Template() []byte {
	return template
}

// FindConfigFile searches for the configuration file in the following order:
// 1. configPath, if specified
// 2. .sis-handball.yaml in the current directory
// 3. .sis-handball.yaml in the user's home directory
// 4. config.yaml in the XDG config directory
//
// Returns "" when none exists.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, XDGConfigFile())

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

// LoadFile reads a YAML file over the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Load builds the effective configuration: defaults, then the config file
// (an explicit configPath must exist), then .env files and SIS_HANDBALL_*
// environment variables. The result is validated.
func Load(configPath string, envFiles ...string) (*Config, error) {
	cfg := NewConfig()

	if path := FindConfigFile(configPath); path != "" {
		fileCfg, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	} else if configPath != "" {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
	}

	if err := loadDotEnv(envFiles...); err != nil {
		return nil, err
	}

	env, err := FromEnv(os.LookupEnv)
	if err != nil {
		return nil, err
	}
	if err := mergo.Merge(cfg, env, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("merging environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDotEnv loads the given .env files, or ./.env when none are given.
// A missing default .env is not an error. Variables already set win.
func loadDotEnv(files ...string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		files = []string{".env"}
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("loading env file: %w", err)
	}
	return nil
}

// FromEnv builds a partial Config from SIS_HANDBALL_* variables. Unset
// variables leave their field at the zero value so the result can be merged
// over another Config.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	var cfg Config
	var errs []error

	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	dur := func(name string, dst *time.Duration) {
		if v, ok := lookup(EnvPrefix + name); ok {
			d, err := time.ParseDuration(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = d
		}
	}
	boolean := func(name string, dst *bool) {
		if v, ok := lookup(EnvPrefix + name); ok {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = b
		}
	}

	str("BASE_URL", &cfg.Upstream.BaseURL)
	str("USER_AGENT", &cfg.Upstream.UserAgent)
	dur("TIMEOUT", &cfg.Upstream.Timeout)
	str("CHARSET", &cfg.Upstream.Charset)
	if v, ok := lookup(EnvPrefix + "MAX_BODY_SIZE"); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sMAX_BODY_SIZE: %w", EnvPrefix, err))
		} else {
			cfg.Upstream.MaxBodySize = n
		}
	}

	if v, ok := lookup(EnvPrefix + "RETRIES"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%sRETRIES: %w", EnvPrefix, err))
		} else {
			cfg.Upstream.Retries = n
		}
	}

	boolean("CACHE_ENABLED", &cfg.Cache.Enabled)
	str("CACHE_TIMEOUT", &cfg.Cache.Timeout)
	dur("SWEEP_INTERVAL", &cfg.Cache.SweepInterval)
	boolean("SHOW_UPDATE", &cfg.Cache.ShowUpdate)

	str("DB_DRIVER", &cfg.Storage.Driver)
	str("DB_DSN", &cfg.Storage.DSN)
	str("DATA_DIR", &cfg.Storage.Dir)

	str("ADDR", &cfg.Server.Addr)
	if v, ok := lookup(EnvPrefix + "ALLOWED_ORIGINS"); ok {
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.Server.AllowedOrigins = append(cfg.Server.AllowedOrigins, o)
			}
		}
	}

	boolean("HIDE_ERRORS", &cfg.Render.HideErrors)
	boolean("LAZY_LOAD_LIMIT", &cfg.Render.LazyLoadLimit)
	str("TIMEZONE", &cfg.Render.Timezone)
	str("LOG_LEVEL", &cfg.LogLevel)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &cfg, nil
}
