package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for namespaced environment overrides,
// e.g. NOTES_SERVER_PORT maps to server.port.
const EnvPrefix = "NOTES_"

// DefaultConfigFiles are probed in order when no config file is given
var DefaultConfigFiles = []string{"config.yaml", "config.yml", "config.json"}

// plainEnvKeys maps the conventional unprefixed variables onto config keys.
// They take precedence over everything else.
var plainEnvKeys = map[string]string{
	"PORT":        "server.port",
	"LOG_DIR":     "log.dir",
	"LOG_LEVEL":   "log.level",
	"NODE_ENV":    "app.environment",
	"GRAFANA_URL": "dashboard.grafana_url",
}

var validLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// LoadConfig loads configuration from multiple sources with strict priority:
// 1. Plain environment variables (PORT, LOG_DIR, LOG_LEVEL, NODE_ENV, GRAFANA_URL)
// 2. NOTES_ prefixed environment variables
// 3. Config file (config.yaml, config.yml or config.json)
// 4. Defaults (lowest priority)
func LoadConfig() (AppConfig, error) {
	return LoadConfigFromFile("")
}

// LoadConfigFromFile is LoadConfig with an explicit config file path.
func LoadConfigFromFile(configFilePath string) (AppConfig, error) {
	k := koanf.New(".")

	// Load default configuration first
	if err := k.Load(structs.Provider(DefaultAppConfig(), "koanf"), nil); err != nil {
		return AppConfig{}, fmt.Errorf("failed to load default config: %w", err)
	}

	// Load from config file
	if configFilePath != "" {
		if _, err := os.Stat(configFilePath); err != nil {
			return AppConfig{}, fmt.Errorf("specified config file %s not found: %w", configFilePath, err)
		}
		if err := k.Load(file.Provider(configFilePath), parserFor(configFilePath)); err != nil {
			return AppConfig{}, fmt.Errorf("failed to load config file %s: %w", configFilePath, err)
		}
	} else if found := FindConfigFile(); found != "" {
		if err := k.Load(file.Provider(found), parserFor(found)); err != nil {
			return AppConfig{}, fmt.Errorf("failed to load config file %s: %w", found, err)
		}
	}

	// Load environment variables with NOTES_ prefix
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
	}), nil); err != nil {
		return AppConfig{}, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Plain variables win over everything else; empty values count as unset
	if err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		return plainEnvKeys[key], value
	}), nil); err != nil {
		return AppConfig{}, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))

	if err := validateConfig(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// FindConfigFile returns the first default config file present in the
// working directory, or an empty string.
func FindConfigFile() string {
	for _, configFile := range DefaultConfigFiles {
		if _, err := os.Stat(configFile); err == nil {
			return configFile
		}
	}
	return ""
}

func parserFor(path string) koanf.Parser {
	switch {
	case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		return yaml.Parser()
	case strings.HasSuffix(path, ".json"):
		return json.Parser()
	default:
		return yaml.Parser()
	}
}

// validateConfig validates that required configuration fields are set
func validateConfig(cfg *AppConfig) error {
	if cfg.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}

	if cfg.App.Environment == "" {
		return fmt.Errorf("app.environment is required")
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", cfg.Server.Port)
	}

	if !validLevels[cfg.Log.Level] {
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Log.Level)
	}

	if cfg.Log.ErrorFile == "" || cfg.Log.CombinedFile == "" {
		return fmt.Errorf("log.error_file and log.combined_file are required")
	}

	u, err := url.Parse(cfg.Dashboard.GrafanaURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("dashboard.grafana_url %q is not an absolute URL", cfg.Dashboard.GrafanaURL)
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with /")
	}

	return nil
}

// ListenAddr returns the host:port the HTTP server binds to
func (s ServerConfig) ListenAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
