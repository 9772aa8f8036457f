// Package config loads process configuration from a YAML file with environment
// overrides, and scenario/portfolio definition files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when configuration fails validation.
var ErrInvalidConfig = errors.New("invalid config")

var validate = validator.New()

// Config is the riskctl process configuration.
type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Storage StorageConfig `yaml:"storage"`
	Cache   CacheConfig   `yaml:"cache"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// EngineConfig holds scenario engine settings and run defaults.
type EngineConfig struct {
	Workers                int     `yaml:"workers" validate:"gte=1,lte=256"`
	DefaultIterations      int     `yaml:"default_iterations" validate:"gte=1"`
	DefaultHorizonDays     int     `yaml:"default_horizon_days" validate:"gte=1"`
	CorrelationProbability float64 `yaml:"correlation_probability" validate:"gte=0,lte=1"`
}

// StorageConfig selects where results are persisted.
// ClickhouseDSN is optional; when set, iteration outcomes are also written there.
type StorageConfig struct {
	Backend          string `yaml:"backend" validate:"oneof=memory postgres"`
	PostgresDSN      string `yaml:"postgres_dsn" validate:"required_if=Backend postgres"`
	PostgresMaxConns int32  `yaml:"postgres_max_conns" validate:"gte=0"`
	ClickhouseDSN    string `yaml:"clickhouse_dsn"`
}

// CacheConfig selects the result cache for seeded runs.
type CacheConfig struct {
	Backend       string        `yaml:"backend" validate:"oneof=none memory redis"`
	TTL           time.Duration `yaml:"ttl" validate:"gte=0"`
	MaxEntries    int           `yaml:"max_entries" validate:"gte=0"`
	RedisAddr     string        `yaml:"redis_addr" validate:"required_if=Backend redis"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db" validate:"gte=0"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=trace debug info warn error"`
	Pretty bool   `yaml:"pretty"`
}

// MetricsConfig configures the Prometheus endpoint. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when no file or environment overrides are given.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			Workers:                4,
			DefaultIterations:      1000,
			DefaultHorizonDays:     365,
			CorrelationProbability: 0.3,
		},
		Storage: StorageConfig{
			Backend: "memory",
		},
		Cache: CacheConfig{
			Backend:    "memory",
			TTL:        time.Hour,
			MaxEntries: 128,
		},
		Log: LogConfig{
			Level:  "info",
			Pretty: true,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if path
// is non-empty), then environment overrides, then validation.
// Unknown YAML keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := decodeStrict(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// applyEnvOverrides applies RISKLAB_* and service DSN variables.
func applyEnvOverrides(cfg *Config) error {
	strs := []struct {
		env string
		dst *string
	}{
		{"RISKLAB_STORAGE_BACKEND", &cfg.Storage.Backend},
		{"POSTGRES_DSN", &cfg.Storage.PostgresDSN},
		{"CLICKHOUSE_DSN", &cfg.Storage.ClickhouseDSN},
		{"RISKLAB_CACHE_BACKEND", &cfg.Cache.Backend},
		{"REDIS_ADDR", &cfg.Cache.RedisAddr},
		{"REDIS_PASSWORD", &cfg.Cache.RedisPassword},
		{"RISKLAB_LOG_LEVEL", &cfg.Log.Level},
		{"RISKLAB_METRICS_ADDR", &cfg.Metrics.Addr},
	}
	for _, s := range strs {
		if v, ok := os.LookupEnv(s.env); ok && v != "" {
			*s.dst = v
		}
	}

	ints := []struct {
		env string
		dst *int
	}{
		{"RISKLAB_WORKERS", &cfg.Engine.Workers},
		{"RISKLAB_DEFAULT_ITERATIONS", &cfg.Engine.DefaultIterations},
		{"RISKLAB_DEFAULT_HORIZON_DAYS", &cfg.Engine.DefaultHorizonDays},
		{"RISKLAB_CACHE_MAX_ENTRIES", &cfg.Cache.MaxEntries},
		{"REDIS_DB", &cfg.Cache.RedisDB},
	}
	for _, i := range ints {
		if v, ok := os.LookupEnv(i.env); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, i.env, v, err)
			}
			*i.dst = n
		}
	}

	if v, ok := os.LookupEnv("RISKLAB_CACHE_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: RISKLAB_CACHE_TTL=%q: %v", ErrInvalidConfig, v, err)
		}
		cfg.Cache.TTL = d
	}
	if v, ok := os.LookupEnv("RISKLAB_LOG_PRETTY"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: RISKLAB_LOG_PRETTY=%q: %v", ErrInvalidConfig, v, err)
		}
		cfg.Log.Pretty = b
	}
	return nil
}

// LoadEnvFile sets variables from a KEY=VALUE file that are not already set in the
// environment. Blank lines and # comments are skipped; surrounding quotes are removed.
// A missing file is not an error.
func LoadEnvFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read env file %s: %w", path, err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(strings.TrimPrefix(key, "export "))
		value = strings.TrimSpace(value)
		if len(value) >= 2 && (value[0] == '"' || value[0] == '\'') && value[len(value)-1] == value[0] {
			value = value[1 : len(value)-1]
		}

		// Don't override existing env vars
		if _, set := os.LookupEnv(key); !set {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("set %s: %w", key, err)
			}
		}
	}
	return nil
}
