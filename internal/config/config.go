package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultServerName labels the instance when SERVER_NAME is unset
	DefaultServerName = "go-mock-api"
	// DefaultPort is used when PORT is unset or unparsable
	DefaultPort uint16 = 8080
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `json:"server" yaml:"server"`
	CORS    CORSConfig    `json:"cors" yaml:"cors"`
	Logging LoggingConfig `json:"logging" yaml:"logging"`
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
}

// ServerConfig holds server-specific settings
type ServerConfig struct {
	Name            string        `json:"name" yaml:"name"`
	Address         string        `json:"address" yaml:"address"`
	Port            uint16        `json:"port" yaml:"port"`
	ReadTimeout     time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout" yaml:"write_timeout"`
	IdleTimeout     time.Duration `json:"idle_timeout" yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// CORSConfig holds cross-origin settings
type CORSConfig struct {
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins"`
	AllowedMethods []string `json:"allowed_methods" yaml:"allowed_methods"`
	AllowedHeaders []string `json:"allowed_headers" yaml:"allowed_headers"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level      string `json:"level" yaml:"level"`
	Format     string `json:"format" yaml:"format"` // "json" or "console"
	OutputPath string `json:"output_path" yaml:"output_path"`
}

// MetricsConfig holds metrics settings
type MetricsConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Path    string `json:"path" yaml:"path"`
}

// Load loads configuration from a file or environment variables
func Load(filePath string) (*Config, error) {
	cfg := defaultConfig()

	if filePath != "" {
		if err := loadFromFile(filePath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Override with environment variables
	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns default configuration values
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name:            DefaultServerName,
			Address:         "0.0.0.0",
			Port:            DefaultPort,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID"},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// loadFromFile loads configuration from a YAML or JSON file
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	switch filepath.Ext(filePath) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".json":
		return json.Unmarshal(data, cfg)
	default:
		// Try YAML first, then JSON
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return json.Unmarshal(data, cfg)
		}
		return nil
	}
}

// loadFromEnv overrides configuration with environment variables.
// SERVER_NAME and PORT are the variables the load balancer setup passes to
// every backend; the rest are prefixed.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("SERVER_NAME"); v != "" {
		cfg.Server.Name = v
	}
	if v, ok := os.LookupEnv("PORT"); ok {
		cfg.Server.Port = ParsePort(v, DefaultPort)
	}
	if v := os.Getenv("MOCKAPI_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("MOCKAPI_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("MOCKAPI_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("MOCKAPI_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = v == "true" || v == "1"
	}
}

// ParsePort parses s as an unsigned 16-bit port, returning fallback when
// s is not a valid number in that range.
func ParsePort(s string, fallback uint16) uint16 {
	p, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return fallback
	}
	return uint16(p)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Name == "" {
		return fmt.Errorf("server name is required")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed CORS origin is required")
	}
	if c.Metrics.Enabled && (c.Metrics.Path == "" || c.Metrics.Path[0] != '/') {
		return fmt.Errorf("metrics path must start with '/': %q", c.Metrics.Path)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format: %q", c.Logging.Format)
	}
	return nil
}
