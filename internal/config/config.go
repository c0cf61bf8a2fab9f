package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Security  SecurityConfig  `koanf:"security"`
	Overrides OverridesConfig `koanf:"overrides"`
	Summary   SummaryConfig   `koanf:"summary"`
	Update    UpdateConfig    `koanf:"update"`
	Geocoding GeocodingConfig `koanf:"geocoding"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Port string `koanf:"port" validate:"required"`
}

// DatabaseConfig snapshot store location
type DatabaseConfig struct {
	Path string `koanf:"path" validate:"required"`
}

// SecurityConfig guards the location update endpoint
type SecurityConfig struct {
	JWTSecret       string        `koanf:"jwt_secret"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs" validate:"min=1"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window" validate:"gt=0"`
}

// OverridesConfig points at the manual correction file
type OverridesConfig struct {
	Path string `koanf:"path" validate:"required"`
}

// SummaryConfig tunes segmentation and output
type SummaryConfig struct {
	OutputDir        string        `koanf:"output_dir" validate:"required"`
	BreakDistance    float64       `koanf:"break_distance" validate:"gt=0"`
	LayoverThreshold time.Duration `koanf:"layover_threshold" validate:"gt=0"`
}

// UpdateConfig controls which location updates are accepted
type UpdateConfig struct {
	MinInterval     time.Duration `koanf:"min_interval" validate:"gte=0"`
	UserAgentPrefix string        `koanf:"user_agent_prefix"`
}

// GeocodingConfig configures the reverse geocoder and timezone lookup
type GeocodingConfig struct {
	BaseURL     string        `koanf:"base_url" validate:"required,url"`
	TimezoneURL string        `koanf:"timezone_url" validate:"required,url"`
	UserAgent   string        `koanf:"user_agent" validate:"required"`
	Timeout     time.Duration `koanf:"timeout" validate:"gt=0"`
	RetryCount  int           `koanf:"retry_count" validate:"gte=0"`
	CacheDir    string        `koanf:"cache_dir"` // empty keeps the cache in memory
	CacheTTL    time.Duration `koanf:"cache_ttl" validate:"gt=0"`
}

// LoggingConfig configures zerolog
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// ConfigPathEnvVar overrides the config file location
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
}

func defaultConfig() *Config {
	return &Config{
		Server:   ServerConfig{Port: ":8080"},
		Database: DatabaseConfig{Path: "./data/location/location.db"},
		Security: SecurityConfig{
			JWTSecret:       "",
			RateLimitReqs:   30,
			RateLimitWindow: time.Minute,
		},
		Overrides: OverridesConfig{Path: "overwrite.json"},
		Summary: SummaryConfig{
			OutputDir:        ".",
			BreakDistance:    2.0,
			LayoverThreshold: 12 * time.Hour,
		},
		Update: UpdateConfig{
			MinInterval:     3 * time.Hour,
			UserAgentPrefix: "OwnTracks",
		},
		Geocoding: GeocodingConfig{
			BaseURL:     "https://nominatim.openstreetmap.org",
			TimezoneURL: "https://timeapi.io",
			UserAgent:   "location-history-go",
			Timeout:     10 * time.Second,
			RetryCount:  2,
			CacheDir:    "./data/location/geocache",
			CacheTTL:    30 * 24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// envMappings maps environment variables (lower-cased) to config keys
var envMappings = map[string]string{
	"port":                     "server.port",
	"db_path":                  "database.path",
	"jwt_secret":               "security.jwt_secret",
	"rate_limit_reqs":          "security.rate_limit_reqs",
	"rate_limit_window":        "security.rate_limit_window",
	"overrides_path":           "overrides.path",
	"output_dir":               "summary.output_dir",
	"summary_break_distance":   "summary.break_distance",
	"summary_layover_duration": "summary.layover_threshold",
	"update_min_interval":      "update.min_interval",
	"update_user_agent_prefix": "update.user_agent_prefix",
	"geocoder_url":             "geocoding.base_url",
	"timezone_url":             "geocoding.timezone_url",
	"geocoder_user_agent":      "geocoding.user_agent",
	"geocoder_timeout":         "geocoding.timeout",
	"geocoder_cache_dir":       "geocoding.cache_dir",
	"geocoder_cache_ttl":       "geocoding.cache_ttl",
	"log_level":                "logging.level",
	"log_format":               "logging.format",
}

func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	// unmapped variables are skipped
	return ""
}

// Load 加载配置: defaults, then the YAML file, then environment variables
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every section
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// ValidateServer adds the checks only the HTTP server needs
func (c *Config) ValidateServer() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("security.jwt_secret is required to accept location updates")
	}
	return nil
}
