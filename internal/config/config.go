package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Steering SteeringConfig `yaml:"steering" mapstructure:"steering"`
	Quota    QuotaConfig    `yaml:"quota" mapstructure:"quota"`
	Batch    BatchConfig    `yaml:"batch" mapstructure:"batch"`
	Pricing  PricingConfig  `yaml:"pricing" mapstructure:"pricing"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	// Stderr routes log output to stderr so stdout stays free for protocol frames.
	Stderr bool `yaml:"stderr" mapstructure:"stderr"`
}

// ServerConfig configures the tool server transports.
type ServerConfig struct {
	Transport      string   `yaml:"transport" mapstructure:"transport"`
	Port           int      `yaml:"port" mapstructure:"port"`
	RateLimitRPS   float64  `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
	RateLimitBurst int      `yaml:"rate_limit_burst" mapstructure:"rate_limit_burst"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// AnalysisConfig holds the degradation thresholds applied by the tools.
type AnalysisConfig struct {
	MinCompetitors         int      `yaml:"min_competitors" mapstructure:"min_competitors"`
	FreshnessThresholdDays int      `yaml:"freshness_threshold_days" mapstructure:"freshness_threshold_days"`
	RequiredMarketFields   []string `yaml:"required_market_fields" mapstructure:"required_market_fields"`
}

// SteeringConfig configures steering context files.
type SteeringConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Dir     string `yaml:"dir" mapstructure:"dir"`
}

// QuotaConfig configures the usage estimate attached to tool responses.
type QuotaConfig struct {
	Model         string `yaml:"model" mapstructure:"model"`
	CharsPerToken int    `yaml:"chars_per_token" mapstructure:"chars_per_token"`
}

// BatchConfig configures batch assessment.
type BatchConfig struct {
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// PricingConfig holds per-provider pricing rates.
type PricingConfig struct {
	Anthropic map[string]ModelPricing `yaml:"anthropic" mapstructure:"anthropic"`
}

// ModelPricing holds per-model token pricing (USD per million tokens).
type ModelPricing struct {
	Input         float64 `yaml:"input" mapstructure:"input"`
	Output        float64 `yaml:"output" mapstructure:"output"`
	BatchDiscount float64 `yaml:"batch_discount" mapstructure:"batch_discount"`
	CacheWriteMul float64 `yaml:"cache_write_mul" mapstructure:"cache_write_mul"`
	CacheReadMul  float64 `yaml:"cache_read_mul" mapstructure:"cache_read_mul"`
}

// Transports.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PMTOOLS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.transport", TransportStdio)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit_rps", 10.0)
	v.SetDefault("server.rate_limit_burst", 20)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("analysis.min_competitors", 3)
	v.SetDefault("analysis.freshness_threshold_days", 90)
	v.SetDefault("analysis.required_market_fields", []string{
		"industry", "totalMarketSize", "customerSegments",
		"pricingData", "valueProposition", "customerWillingness",
	})
	v.SetDefault("steering.enabled", false)
	v.SetDefault("steering.dir", ".steering")
	v.SetDefault("quota.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("quota.chars_per_token", 4)
	v.SetDefault("batch.max_concurrent", 4)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command relies on. Mode is one of
// "serve", "assess" or "validate".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "serve":
		switch c.Server.Transport {
		case TransportStdio:
		case TransportHTTP:
			if c.Server.Port <= 0 {
				errs = append(errs, "server.port must be > 0")
			}
			if c.Server.RateLimitRPS <= 0 {
				errs = append(errs, "server.rate_limit_rps must be > 0")
			}
			if c.Server.RateLimitBurst <= 0 {
				errs = append(errs, "server.rate_limit_burst must be > 0")
			}
		default:
			errs = append(errs, fmt.Sprintf("server.transport must be %q or %q, got %q",
				TransportStdio, TransportHTTP, c.Server.Transport))
		}
		if c.Steering.Enabled && strings.TrimSpace(c.Steering.Dir) == "" {
			errs = append(errs, "steering.dir is required when steering is enabled")
		}
	case "assess":
		if c.Batch.MaxConcurrent < 1 || c.Batch.MaxConcurrent > 64 {
			errs = append(errs, "batch.max_concurrent must be between 1 and 64")
		}
	case "validate":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Analysis.MinCompetitors <= 0 {
		errs = append(errs, "analysis.min_competitors must be > 0")
	}
	if c.Analysis.FreshnessThresholdDays <= 0 {
		errs = append(errs, "analysis.freshness_threshold_days must be > 0")
	}
	if c.Quota.CharsPerToken < 0 {
		errs = append(errs, "quota.chars_per_token must be >= 0")
	}

	if len(errs) > 0 {
		return eris.New("config: " + strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	if cfg.Stderr {
		zapCfg.OutputPaths = []string{"stderr"}
		zapCfg.ErrorOutputPaths = []string{"stderr"}
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
