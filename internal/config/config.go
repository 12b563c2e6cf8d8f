package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	FMP       FMPConfig       `yaml:"fmp" mapstructure:"fmp"`
	Edgar     EdgarConfig     `yaml:"edgar" mapstructure:"edgar"`
	FRED      FREDConfig      `yaml:"fred" mapstructure:"fred"`
	OSHA      OSHAConfig      `yaml:"osha" mapstructure:"osha"`
	News      NewsConfig      `yaml:"news" mapstructure:"news"`
	Websearch WebsearchConfig `yaml:"websearch" mapstructure:"websearch"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Pipeline  PipelineConfig  `yaml:"pipeline" mapstructure:"pipeline"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// FMPConfig holds Financial Modeling Prep settings.
type FMPConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// EdgarConfig holds SEC EDGAR settings. UserAgent must identify the caller
// per SEC fair-access policy.
type EdgarConfig struct {
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
}

// FREDConfig holds FRED API settings.
type FREDConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// OSHAConfig holds DOL enforcement data API settings.
type OSHAConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// NewsConfig holds NewsAPI settings.
type NewsConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// WebsearchConfig holds web research API settings.
type WebsearchConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// AnthropicConfig holds reasoning service settings.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// PipelineConfig configures pipeline timing and scoring behavior.
type PipelineConfig struct {
	// ProviderTimeoutSecs bounds each provider fetch inside the aggregator.
	ProviderTimeoutSecs int `yaml:"provider_timeout_secs" mapstructure:"provider_timeout_secs"`

	// RunTimeoutSecs is the overall deadline for one analysis run.
	RunTimeoutSecs int `yaml:"run_timeout_secs" mapstructure:"run_timeout_secs"`

	// EstimatedCompletionSecs is surfaced to polling clients on trigger.
	EstimatedCompletionSecs int `yaml:"estimated_completion_secs" mapstructure:"estimated_completion_secs"`

	// EvaluateRatePerMin throttles sequential evaluation calls.
	EvaluateRatePerMin int `yaml:"evaluate_rate_per_min" mapstructure:"evaluate_rate_per_min"`

	// JitterSeed seeds the resilience-score jitter when nonzero; zero means
	// a time-derived seed (scores vary run to run).
	JitterSeed int64 `yaml:"jitter_seed" mapstructure:"jitter_seed"`
}

// ProviderTimeout returns the per-provider timeout as a duration.
func (p PipelineConfig) ProviderTimeout() time.Duration {
	return time.Duration(p.ProviderTimeoutSecs) * time.Second
}

// RunTimeout returns the overall run deadline as a duration.
func (p PipelineConfig) RunTimeout() time.Duration {
	return time.Duration(p.RunTimeoutSecs) * time.Second
}

// BatchConfig configures batch analysis.
type BatchConfig struct {
	MaxConcurrentCompanies int `yaml:"max_concurrent_companies" mapstructure:"max_concurrent_companies"`
	MaxCompanies           int `yaml:"max_companies" mapstructure:"max_companies"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment. An explicit path
// must exist; the default config.yaml search is optional.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Config file
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Environment
	v.SetEnvPrefix("VENDORRISK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("fmp.base_url", "https://financialmodelingprep.com/api/v3")
	v.SetDefault("edgar.base_url", "https://data.sec.gov")
	v.SetDefault("edgar.user_agent", "Sells Advisors blake@sellsadvisors.com")
	v.SetDefault("fred.base_url", "https://api.stlouisfed.org/fred")
	v.SetDefault("osha.base_url", "https://enforcedata.dol.gov/views/data_api.php")
	v.SetDefault("news.base_url", "https://newsapi.org/v2")
	v.SetDefault("websearch.base_url", "https://api.perplexity.ai")
	v.SetDefault("websearch.model", "sonar-pro")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("pipeline.provider_timeout_secs", 20)
	v.SetDefault("pipeline.run_timeout_secs", 300)
	v.SetDefault("pipeline.estimated_completion_secs", 45)
	v.SetDefault("pipeline.evaluate_rate_per_min", 10)
	v.SetDefault("batch.max_concurrent_companies", 5)
	v.SetDefault("batch.max_companies", 10)

	// Read config file (optional unless explicitly requested)
	if err := v.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if path != "" || !notFound {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the keys required to run the full pipeline are set.
func (c *Config) Validate() error {
	if c.FMP.Key == "" {
		return eris.New("config: fmp.key is required (VENDORRISK_FMP_KEY)")
	}
	if c.Anthropic.Key == "" {
		return eris.New("config: anthropic.key is required (VENDORRISK_ANTHROPIC_KEY)")
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

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
