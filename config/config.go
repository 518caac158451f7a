// Package config provides configuration management for the notes service.
// It handles loading and validating configuration from YAML/JSON files and environment variables.
package config

import "time"

// AppConfig represents the complete application configuration
type AppConfig struct {
	App       AppInfoConfig   `koanf:"app"`
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Dashboard DashboardConfig `koanf:"dashboard"`
	Metrics   MetricsConfig   `koanf:"metrics"`
	CORS      CORSConfig      `koanf:"cors"`
}

// AppInfoConfig identifies the running service
type AppInfoConfig struct {
	Name        string `koanf:"name"`
	Environment string `koanf:"environment"` // "development", "production", ...
}

// IsProduction reports whether the service runs in the production environment
func (a AppInfoConfig) IsProduction() bool {
	return a.Environment == "production"
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
	TrustProxy   bool          `koanf:"trust_proxy"` // Take the client ip from X-Forwarded-For / X-Real-IP
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level          string        `koanf:"level"`
	Dir            string        `koanf:"dir"`             // Explicit override; empty selects a default
	ProductionDir  string        `koanf:"production_dir"`  // Used when dir is empty in production
	DevelopmentDir string        `koanf:"development_dir"` // Used when dir is empty elsewhere
	ErrorFile      string        `koanf:"error_file"`
	CombinedFile   string        `koanf:"combined_file"`
	FlushInterval  time.Duration `koanf:"flush_interval"`
}

// DashboardConfig holds the log dashboard redirect target
type DashboardConfig struct {
	GrafanaURL string `koanf:"grafana_url"`
	OrgID      int    `koanf:"org_id"`
	Datasource string `koanf:"datasource"`
	RangeFrom  string `koanf:"range_from"`
	RangeTo    string `koanf:"range_to"`
}

// MetricsConfig holds Prometheus endpoint configuration
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// CORSConfig holds cross-origin settings for the browser front-end
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
	MaxAge         int      `koanf:"max_age"`
}
