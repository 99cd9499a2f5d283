package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, TransportStdio, cfg.Server.Transport)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.InDelta(t, 10.0, cfg.Server.RateLimitRPS, 0.001)
	assert.Equal(t, 20, cfg.Server.RateLimitBurst)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 3, cfg.Analysis.MinCompetitors)
	assert.Equal(t, 90, cfg.Analysis.FreshnessThresholdDays)
	assert.Len(t, cfg.Analysis.RequiredMarketFields, 6)
	assert.Contains(t, cfg.Analysis.RequiredMarketFields, "totalMarketSize")
	assert.False(t, cfg.Steering.Enabled)
	assert.Equal(t, ".steering", cfg.Steering.Dir)
	assert.Equal(t, "claude-sonnet-4-5-20250929", cfg.Quota.Model)
	assert.Equal(t, 4, cfg.Quota.CharsPerToken)
	assert.Equal(t, 4, cfg.Batch.MaxConcurrent)
	assert.Empty(t, cfg.Pricing.Anthropic)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
log:
  level: debug
  format: console
server:
  transport: http
  port: 9090
analysis:
  min_competitors: 5
steering:
  enabled: true
  dir: /tmp/steer
pricing:
  anthropic:
    custom-model:
      input: 1.5
      output: 7.5
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, TransportHTTP, cfg.Server.Transport)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Analysis.MinCompetitors)
	assert.True(t, cfg.Steering.Enabled)
	assert.Equal(t, "/tmp/steer", cfg.Steering.Dir)
	require.Contains(t, cfg.Pricing.Anthropic, "custom-model")
	assert.InDelta(t, 7.5, cfg.Pricing.Anthropic["custom-model"].Output, 0.001)
	// Defaults still apply for unset values
	assert.Equal(t, 90, cfg.Analysis.FreshnessThresholdDays)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
server:
  transport: http
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("PMTOOLS_SERVER_TRANSPORT", "stdio")
	t.Setenv("PMTOOLS_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "stdio", cfg.Server.Transport)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("PMTOOLS_SERVER_PORT", "3000")
	t.Setenv("PMTOOLS_ANALYSIS_FRESHNESS_THRESHOLD_DAYS", "180")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 180, cfg.Analysis.FreshnessThresholdDays)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log: [unterminated"), 0644))

	_, err := Load()
	assert.Error(t, err)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerStderr(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json", Stderr: true})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Server.Transport = TransportStdio
	cfg.Server.Port = 8080
	cfg.Server.RateLimitRPS = 10
	cfg.Server.RateLimitBurst = 20
	cfg.Analysis.MinCompetitors = 3
	cfg.Analysis.FreshnessThresholdDays = 90
	cfg.Batch.MaxConcurrent = 4
	cfg.Quota.CharsPerToken = 4
	return cfg
}

func TestValidateServe_Stdio(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	assert.NoError(t, cfg.Validate("serve"))
}

func TestValidateServe_HTTP(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Transport = TransportHTTP
	assert.NoError(t, cfg.Validate("serve"))

	cfg.Server.Port = 0
	cfg.Server.RateLimitRPS = 0
	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
	assert.Contains(t, err.Error(), "server.rate_limit_rps must be > 0")
}

func TestValidateServe_UnknownTransport(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Transport = "grpc"

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.transport")
}

func TestValidateServe_SteeringDir(t *testing.T) {
	cfg := validDefaults()
	cfg.Steering.Enabled = true

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "steering.dir is required")

	cfg.Steering.Dir = ".steering"
	assert.NoError(t, cfg.Validate("serve"))
}

func TestValidateAssess_ConcurrencyBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Batch.MaxConcurrent = 0
	err := cfg.Validate("assess")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "batch.max_concurrent must be between 1 and 64")

	cfg.Batch.MaxConcurrent = 65
	assert.Error(t, cfg.Validate("assess"))

	cfg.Batch.MaxConcurrent = 64
	assert.NoError(t, cfg.Validate("assess"))
}

func TestValidateAnalysisThresholds(t *testing.T) {
	cfg := validDefaults()
	cfg.Analysis.MinCompetitors = 0
	cfg.Analysis.FreshnessThresholdDays = -1

	err := cfg.Validate("validate")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "analysis.min_competitors")
	assert.Contains(t, err.Error(), "analysis.freshness_threshold_days")
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}
