package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atriumhq/atrium/pkg/observability"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Session configuration
	Session SessionConfig

	// Seed configuration
	Seed SeedConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for k8s probes)
	HealthPort string

	CORSAllowedOrigins []string
}

// SessionConfig holds session persistence and simulation settings
type SessionConfig struct {
	// StorePath is where the durable session record lives
	StorePath string

	// SimulatedLatency is applied to service operations to mimic real
	// backend round trips; zero disables it
	SimulatedLatency time.Duration

	// ToastTTL is how long a notification stays active
	ToastTTL time.Duration
}

// SeedConfig selects the dataset the console starts with
type SeedConfig struct {
	// File is an optional YAML dataset; empty means the embedded default
	File string
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	LogLevel       observability.LogLevel
	MetricsEnabled bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		Session:       loadSessionConfig(),
		Seed:          loadSeedConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadServerConfig loads server configuration from environment
func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:               getEnv("ATRIUM_HOST", "0.0.0.0"),
		Port:               getEnv("ATRIUM_PORT", "8080"),
		ReadTimeout:        getEnvDuration("ATRIUM_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:       getEnvDuration("ATRIUM_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:        getEnvDuration("ATRIUM_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:    getEnvDuration("ATRIUM_SHUTDOWN_TIMEOUT", 30*time.Second),
		HealthPort:         getEnv("ATRIUM_HEALTH_PORT", "9090"),
		CORSAllowedOrigins: getEnvList("ATRIUM_CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

// loadSessionConfig loads session configuration from environment
func loadSessionConfig() SessionConfig {
	return SessionConfig{
		StorePath:        getEnv("ATRIUM_SESSION_PATH", filepath.Join(os.TempDir(), "atrium-session.json")),
		SimulatedLatency: getEnvDuration("ATRIUM_SIMULATED_LATENCY", 500*time.Millisecond),
		ToastTTL:         getEnvDuration("ATRIUM_TOAST_TTL", 5*time.Second),
	}
}

// loadSeedConfig loads seed configuration from environment
func loadSeedConfig() SeedConfig {
	return SeedConfig{
		File: getEnv("ATRIUM_SEED_FILE", ""),
	}
}

// loadObservabilityConfig loads observability configuration from environment
func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:       parseLogLevel(getEnv("ATRIUM_LOG_LEVEL", "info")),
		MetricsEnabled: getEnvBool("ATRIUM_METRICS_ENABLED", true),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}

	if c.Session.StorePath == "" {
		return fmt.Errorf("session store path is required")
	}
	if c.Session.SimulatedLatency < 0 {
		return fmt.Errorf("simulated latency must not be negative")
	}

	if c.Seed.File != "" {
		if _, err := os.Stat(c.Seed.File); err != nil {
			return fmt.Errorf("seed file %s is not readable: %w", c.Seed.File, err)
		}
	}

	return nil
}

// parseLogLevel parses a log level string
func parseLogLevel(level string) observability.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return observability.DebugLevel
	case "info":
		return observability.InfoLevel
	case "warn", "warning":
		return observability.WarnLevel
	case "error":
		return observability.ErrorLevel
	default:
		return observability.InfoLevel
	}
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvList returns a comma-separated environment variable or a default
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
