package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "primecore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "primecore", cfg.Telemetry.ServiceName)
	assert.Equal(t, 20, cfg.Engine.ProbableRounds)
	assert.Equal(t, 1000, cfg.Engine.DefaultTerms)
	assert.Zero(t, cfg.Engine.Timeout)
	assert.False(t, cfg.Engine.StrictFactorization)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: "DEBUG"
  format: "text"
telemetry:
  service_name: "primectl"
  otlp_endpoint: "localhost:4317"
  insecure: true
metrics:
  address: ":9464"
engine:
  workers: 4
  timeout: 250ms
  seed: 42
  probable_rounds: 8
  strict_factorization: true
  strict_retries: 5
  default_terms: 50
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "primectl", cfg.Telemetry.ServiceName)
	assert.Equal(t, "localhost:4317", cfg.Telemetry.OTLPEndpoint)
	assert.True(t, cfg.Telemetry.Insecure)
	assert.Equal(t, ":9464", cfg.Metrics.Address)
	assert.Equal(t, 4, cfg.Engine.Workers)
	assert.Equal(t, 250*time.Millisecond, cfg.Engine.Timeout)
	assert.Equal(t, uint64(42), cfg.Engine.Seed)
	assert.Equal(t, 8, cfg.Engine.ProbableRounds)
	assert.True(t, cfg.Engine.StrictFactorization)
	assert.Equal(t, 5, cfg.Engine.StrictRetries)
	assert.Equal(t, 50, cfg.Engine.DefaultTerms)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: info
engine:
  workers: 2
`)
	t.Setenv("PRIMECORE_LOG_LEVEL", "error")
	t.Setenv("PRIMECORE_ENGINE_WORKERS", "8")
	t.Setenv("PRIMECORE_ENGINE_TIMEOUT", "2s")
	t.Setenv("PRIMECORE_ENGINE_STRICT_FACTORIZATION", "true")
	t.Setenv("PRIMECORE_METRICS_ADDRESS", "127.0.0.1:9464")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, 8, cfg.Engine.Workers)
	assert.Equal(t, 2*time.Second, cfg.Engine.Timeout)
	assert.True(t, cfg.Engine.StrictFactorization)
	assert.Equal(t, "127.0.0.1:9464", cfg.Metrics.Address)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{
			name:    "bad log level",
			content: "logging:\n  level: verbose\n",
			errText: "configuration validation failed",
		},
		{
			name:    "bad format",
			content: "logging:\n  format: xml\n",
			errText: "configuration validation failed",
		},
		{
			name:    "zero probable rounds",
			content: "engine:\n  probable_rounds: 0\n",
			errText: "ProbableRounds",
		},
		{
			name:    "term cap above limit",
			content: "engine:\n  default_terms: 10001\n",
			errText: "DefaultTerms",
		},
		{
			name:    "negative workers",
			content: "engine:\n  workers: -1\n",
			errText: "Workers",
		},
		{
			name:    "sub-millisecond timeout",
			content: "engine:\n  timeout: 10us\n",
			errText: "1ms minimum",
		},
		{
			name:    "bad metrics address",
			content: "metrics:\n  address: \"not an address\"\n",
			errText: "Address",
		},
		{
			name:    "malformed yaml",
			content: "engine: [",
			errText: "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_BadEnv(t *testing.T) {
	t.Setenv("PRIMECORE_ENGINE_WORKERS", "many")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}
