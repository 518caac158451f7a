package config

import "time"

// DefaultAppConfig returns an AppConfig struct with sensible default values
func DefaultAppConfig() AppConfig {
	return AppConfig{
		App: AppInfoConfig{
			Name:        "notes-app",
			Environment: "development",
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         3000,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
			TrustProxy:   false,
		},
		Log: LogConfig{
			Level:          "info",
			Dir:            "",
			ProductionDir:  "/var/log/app",
			DevelopmentDir: "./logs",
			ErrorFile:      "error.log",
			CombinedFile:   "combined.log",
			FlushInterval:  time.Second,
		},
		Dashboard: DashboardConfig{
			GrafanaURL: "http://localhost:3001",
			OrgID:      1,
			Datasource: "Loki",
			RangeFrom:  "now-1h",
			RangeTo:    "now",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
			MaxAge:         300,
		},
	}
}
