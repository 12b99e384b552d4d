package config

import "time"

// DefaultAPITimeout bounds every remote data request.
const DefaultAPITimeout = 20 * time.Second

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 4250,
			Host: "localhost",
		},
		API: APIConfig{
			Timeout:              "20s",
			RateLimit:            10,
			MaxConcurrentTickers: 5,
			IncludeNews:          true,
		},
		Charts: ChartsConfig{
			CacheTTL:   "5m",
			MaxEntries: 100,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Outputs:    []string{"console"},
			FilePath:   "logs/folio-dashboard.log",
			MaxSizeMB:  10,
			MaxBackups: 5,
		},
	}
}
