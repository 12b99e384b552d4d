package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	API         APIConfig     `toml:"api"`
	Charts      ChartsConfig  `toml:"charts"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// APIConfig contains settings for the remote financial-data service.
type APIConfig struct {
	BaseURL              string `toml:"base_url"`
	APIKey               string `toml:"api_key"`
	Timeout              string `toml:"timeout"`
	RateLimit            int    `toml:"rate_limit"`             // requests per second
	MaxConcurrentTickers int    `toml:"max_concurrent_tickers"` // per-ticker bundles in flight
	IncludeNews          bool   `toml:"include_news"`
}

// GetTimeout parses and returns the request timeout.
func (c *APIConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return DefaultAPITimeout
	}
	return d
}

// ChartsConfig contains rendered chart cache settings.
type ChartsConfig struct {
	CacheTTL   string `toml:"cache_ttl"`
	MaxEntries int    `toml:"max_entries"`
}

// GetCacheTTL parses and returns the chart cache TTL.
func (c *ChartsConfig) GetCacheTTL() time.Duration {
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 5 * time.Minute
	}
	return d
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Format     string   `toml:"format"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// ConfigError lists every problem found while validating a Config.
type ConfigError struct {
	Issues []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", strings.Join(e.Issues, "; "))
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> .env -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	// A missing .env is normal; real environment variables always win.
	_ = godotenv.Load()

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies FOLIO_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FOLIO_ENV"); env != "" {
		config.Environment = env
	}
	if port := os.Getenv("FOLIO_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("FOLIO_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if baseURL := os.Getenv("FOLIO_API_BASE_URL"); baseURL != "" {
		config.API.BaseURL = baseURL
	}
	if key := os.Getenv("FOLIO_API_KEY"); key != "" {
		config.API.APIKey = key
	}
	if timeout := os.Getenv("FOLIO_API_TIMEOUT"); timeout != "" {
		config.API.Timeout = timeout
	}
	if level := os.Getenv("FOLIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("FOLIO_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks mandatory fields. It returns a *ConfigError listing every
// issue, or nil when the configuration is usable.
func (c *Config) Validate() error {
	var issues []string

	if strings.TrimSpace(c.API.BaseURL) == "" {
		issues = append(issues, "api.base_url is required (FOLIO_API_BASE_URL)")
	} else if u, err := url.Parse(c.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		issues = append(issues, fmt.Sprintf("api.base_url %q is not an absolute URL", c.API.BaseURL))
	}
	if strings.TrimSpace(c.API.APIKey) == "" {
		issues = append(issues, "api.api_key is required (FOLIO_API_KEY)")
	}
	if c.API.Timeout != "" {
		if d, err := time.ParseDuration(c.API.Timeout); err != nil || d <= 0 {
			issues = append(issues, fmt.Sprintf("api.timeout %q is not a positive duration", c.API.Timeout))
		}
	}
	if c.API.RateLimit < 0 {
		issues = append(issues, "api.rate_limit must not be negative")
	}
	if c.API.MaxConcurrentTickers < 0 {
		issues = append(issues, "api.max_concurrent_tickers must not be negative")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		issues = append(issues, fmt.Sprintf("server.port %d is out of range", c.Server.Port))
	}
	if c.Charts.CacheTTL != "" {
		if _, err := time.ParseDuration(c.Charts.CacheTTL); err != nil {
			issues = append(issues, fmt.Sprintf("charts.cache_ttl %q is not a duration", c.Charts.CacheTTL))
		}
	}

	if len(issues) > 0 {
		return &ConfigError{Issues: issues}
	}
	return nil
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// BaseURL returns the dashboard's own base URL.
func (c *Config) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", c.Server.Host, c.Server.Port)
}
