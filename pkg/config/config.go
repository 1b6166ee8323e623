// Package config provides configuration structures and loading logic for
// primecore front ends.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. PRIMECORE_LOG_LEVEL.
const EnvPrefix = "PRIMECORE_"

// Config holds the global configuration.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envPrefix:"LOG_"`
	Telemetry TelemetryConfig `yaml:"telemetry" envPrefix:"OTEL_"`
	Metrics   MetricsConfig   `yaml:"metrics" envPrefix:"METRICS_"`
	Engine    EngineConfig    `yaml:"engine" envPrefix:"ENGINE_"`
}

// LoggingConfig holds configuration for logging.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" env:"FORMAT" validate:"oneof=json text"`
}

// TelemetryConfig holds configuration for OpenTelemetry trace export.
// An empty endpoint disables export.
type TelemetryConfig struct {
	ServiceName  string `yaml:"service_name" env:"SERVICE_NAME" validate:"required"`
	OTLPEndpoint string `yaml:"otlp_endpoint" env:"ENDPOINT" validate:"omitempty,hostname_port"`
	Insecure     bool   `yaml:"insecure" env:"INSECURE"`
	Environment  string `yaml:"environment" env:"ENVIRONMENT"`
}

// MetricsConfig holds configuration for the Prometheus endpoint. An empty
// address disables it.
type MetricsConfig struct {
	Address string `yaml:"address" env:"ADDRESS" validate:"omitempty,hostname_port"`
}

// EngineConfig tunes the operation engine.
type EngineConfig struct {
	// Workers bounds batch concurrency. 0 selects GOMAXPROCS.
	Workers int `yaml:"workers" env:"WORKERS" validate:"gte=0,lte=1024"`
	// Timeout is the per-operation deadline. 0 disables it.
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT" validate:"gte=0"`
	// Seed makes random choices reproducible. 0 seeds from the runtime.
	Seed uint64 `yaml:"seed" env:"SEED"`
	// ProbableRounds is the default Miller-Rabin round count for the
	// probabilistic test.
	ProbableRounds int `yaml:"probable_rounds" env:"PROBABLE_ROUNDS" validate:"gte=1,lte=1000"`
	// StrictFactorization refuses to report a remainder rho could not split.
	StrictFactorization bool `yaml:"strict_factorization" env:"STRICT_FACTORIZATION"`
	// StrictRetries is the number of extra rho rounds in strict mode.
	StrictRetries int `yaml:"strict_retries" env:"STRICT_RETRIES" validate:"gte=0,lte=100"`
	// DefaultTerms is the progression term cap used when a caller passes none.
	DefaultTerms int `yaml:"default_terms" env:"DEFAULT_TERMS" validate:"gte=1,lte=10000"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "primecore",
		},
		Engine: EngineConfig{
			ProbableRounds: 20,
			StrictRetries:  3,
			DefaultTerms:   1000,
		},
	}
}

// Load reads configuration from a file and applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		//nolint:gosec // Config file path is controlled by the operator
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate normalizes and validates the entire configuration.
func (c *Config) Validate() error {
	c.Logging.normalize()

	if err := validate.Struct(c); err != nil {
		return err
	}

	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("engine configuration: %w", err)
	}

	return nil
}

func (c *LoggingConfig) normalize() {
	c.Level = strings.ToLower(strings.TrimSpace(c.Level))
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Level == "warning" {
		c.Level = "warn"
	}
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	if c.Format == "" {
		c.Format = "json"
	}
}

// Validate checks cross-field constraints of the engine configuration.
func (c *EngineConfig) Validate() error {
	if c.Timeout > 0 && c.Timeout < time.Millisecond {
		return fmt.Errorf("timeout %s is below the 1ms minimum", c.Timeout)
	}
	return nil
}
