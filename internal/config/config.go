// Package config handles configuration loading for ratewatch.
// It supports YAML config files with environment variable overrides.
// With no file and no environment, every value equals the fixed
// constants the report has always used.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Default upstream endpoints.
const (
	DefaultCommoditiesURL = "https://markets.businessinsider.com/commodities"
	DefaultBunkerURL      = "https://shipandbunker.com/prices/av/global/av-glb-global-average-bunker-price"
	DefaultFXURL          = "https://open.er-api.com/v6/latest/USD"
	DefaultKiborURL       = "https://www.sbp.org.pk/ecodata/kibor_index.asp"
	DefaultCharterURL     = "https://www.handybulk.com/ship-charter-rates/"
)

// Config represents the complete application configuration.
type Config struct {
	Sources   SourcesConfig   `mapstructure:"sources"   yaml:"sources"`
	HTTP      HTTPConfig      `mapstructure:"http"      yaml:"http"`
	Browser   BrowserConfig   `mapstructure:"browser"   yaml:"browser"`
	Aggregate AggregateConfig `mapstructure:"aggregate" yaml:"aggregate"`
	Report    ReportConfig    `mapstructure:"report"    yaml:"report"`
	API       APIConfig       `mapstructure:"api"       yaml:"api"`
	Metrics   MetricsConfig   `mapstructure:"metrics"   yaml:"metrics"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
}

// SourcesConfig holds the upstream pages and their request quirks.
type SourcesConfig struct {
	CommoditiesURL       string `mapstructure:"commodities_url"        yaml:"commodities_url"`
	CommoditiesUserAgent string `mapstructure:"commodities_user_agent" yaml:"commodities_user_agent"`
	BunkerURL            string `mapstructure:"bunker_url"             yaml:"bunker_url"`
	FXURL                string `mapstructure:"fx_url"                 yaml:"fx_url"`
	KiborURL             string `mapstructure:"kibor_url"              yaml:"kibor_url"`
	CharterURL           string `mapstructure:"charter_url"            yaml:"charter_url"`
	CharterMaxLines      int    `mapstructure:"charter_max_lines"      yaml:"charter_max_lines"`
}

// HTTPConfig holds outbound HTTP client settings.
type HTTPConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"    yaml:"timeout"`
	RateLimit float64       `mapstructure:"rate_limit" yaml:"rate_limit"` // requests per second, 0 = unlimited
	RateBurst int           `mapstructure:"rate_burst" yaml:"rate_burst"`
}

// BrowserConfig holds headless Chrome settings for client-rendered pages.
type BrowserConfig struct {
	ExecPath        string        `mapstructure:"exec_path"        yaml:"exec_path"` // empty = look up Chrome on PATH
	Headless        bool          `mapstructure:"headless"         yaml:"headless"`
	NavigateTimeout time.Duration `mapstructure:"navigate_timeout" yaml:"navigate_timeout"` // page load
	RenderTimeout   time.Duration `mapstructure:"render_timeout"   yaml:"render_timeout"`   // wait for content after load
	PollInterval    time.Duration `mapstructure:"poll_interval"    yaml:"poll_interval"`
	WindowWidth     int           `mapstructure:"window_width"     yaml:"window_width"`
	WindowHeight    int           `mapstructure:"window_height"    yaml:"window_height"`
}

// AggregateConfig controls how sources are collected.
type AggregateConfig struct {
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"` // 1 = one source at a time
}

// ReportConfig holds report output settings.
type ReportConfig struct {
	Output   string `mapstructure:"output"   yaml:"output"`
	Timezone string `mapstructure:"timezone" yaml:"timezone"` // "Local", "PKT", or an IANA name
}

// APIConfig holds HTTP server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// MetricsConfig holds the Prometheus listener address. Empty disables it.
type MetricsConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.ratewatch/config.yaml (home directory)
//  3. /etc/ratewatch/config.yaml (system)
//
// Environment variables override config file values.
// Format: RATEWATCH_<SECTION>_<KEY>, e.g., RATEWATCH_HTTP_TIMEOUT
func Load() (*Config, error) {
	v := newViper()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".ratewatch"))
	v.AddConfigPath("/etc/ratewatch")

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return unmarshal(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	return unmarshal(v)
}

// Default returns the built-in configuration without reading files or environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg, _ := unmarshal(v)
	return cfg
}

// Addr returns the host:port the report server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.API.Host, c.API.Port)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("RATEWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values no component can work with.
func (c *Config) Validate() error {
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be positive, got %s", c.HTTP.Timeout)
	}
	if c.Browser.NavigateTimeout <= 0 {
		return fmt.Errorf("browser.navigate_timeout must be positive, got %s", c.Browser.NavigateTimeout)
	}
	if c.Browser.RenderTimeout <= 0 {
		return fmt.Errorf("browser.render_timeout must be positive, got %s", c.Browser.RenderTimeout)
	}
	if c.Sources.CharterMaxLines < 0 {
		return fmt.Errorf("sources.charter_max_lines must not be negative, got %d", c.Sources.CharterMaxLines)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}

// setDefaults sets the values used when nothing else is configured.
func setDefaults(v *viper.Viper) {
	// Sources
	v.SetDefault("sources.commodities_url", DefaultCommoditiesURL)
	v.SetDefault("sources.commodities_user_agent", "Mozilla/5.0")
	v.SetDefault("sources.bunker_url", DefaultBunkerURL)
	v.SetDefault("sources.fx_url", DefaultFXURL)
	v.SetDefault("sources.kibor_url", DefaultKiborURL)
	v.SetDefault("sources.charter_url", DefaultCharterURL)
	v.SetDefault("sources.charter_max_lines", 10)

	// HTTP
	v.SetDefault("http.timeout", 10*time.Second)
	v.SetDefault("http.rate_limit", 0)
	v.SetDefault("http.rate_burst", 1)

	// Browser
	v.SetDefault("browser.exec_path", "")
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.navigate_timeout", 30*time.Second)
	v.SetDefault("browser.render_timeout", 10*time.Second)
	v.SetDefault("browser.poll_interval", 250*time.Millisecond)
	v.SetDefault("browser.window_width", 1920)
	v.SetDefault("browser.window_height", 1080)

	// Aggregation
	v.SetDefault("aggregate.concurrency", 5)

	// Report
	v.SetDefault("report.output", "commodity_report.html")
	v.SetDefault("report.timezone", "Local")

	// API
	v.SetDefault("api.host", "127.0.0.1")
	v.SetDefault("api.port", 5000)
	v.SetDefault("api.cors_origins", []string{})

	// Metrics
	v.SetDefault("metrics.addr", "")

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
