// Package config provides application configuration management from environment variables.
//
// # Overview
//
// This package loads and validates configuration from environment variables with
// sensible defaults for all settings.
//
// # Configuration Structure
//
// Server settings:
//
//	ATRIUM_HOST="0.0.0.0"
//	ATRIUM_PORT="8080"
//	ATRIUM_HEALTH_PORT="9090"
//	ATRIUM_READ_TIMEOUT="15s"
//	ATRIUM_WRITE_TIMEOUT="15s"
//	ATRIUM_CORS_ALLOWED_ORIGINS="*"
//
// Session settings:
//
//	ATRIUM_SESSION_PATH="/var/atrium/session.json"
//	ATRIUM_SIMULATED_LATENCY="500ms"
//	ATRIUM_TOAST_TTL="5s"
//
// Seed settings:
//
//	ATRIUM_SEED_FILE="/etc/atrium/seed.yaml"  # empty = embedded dataset
//
// Observability settings:
//
//	ATRIUM_LOG_LEVEL="info"  # debug, info, warn, error
//	ATRIUM_METRICS_ENABLED="true"
//
// # Usage Example
//
// Load configuration:
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Printf("Server: %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//	fmt.Printf("Log level: %v\n", cfg.Observability.LogLevel)
package config
