// Package config provides application configuration management from environment variables.
//
// # Overview
//
// This package loads and validates configuration from environment variables.
// Every setting has a sensible default except the JWT signing secret and the
// PostgreSQL URL, which must be provided explicitly.
//
// # Configuration Structure
//
// Server settings:
//
//	CATALOG_HOST="0.0.0.0"
//	CATALOG_PORT="8080"
//	CATALOG_READ_TIMEOUT="15s"
//	CATALOG_WRITE_TIMEOUT="15s"
//	CATALOG_SHUTDOWN_TIMEOUT="30s"
//
// Auth settings:
//
//	CATALOG_JWT_SECRET=""          # required, no default
//	CATALOG_TOKEN_TTL="24h"
//	CATALOG_BCRYPT_COST="10"
//
// Storage settings:
//
//	CATALOG_POSTGRES_URL="postgres://localhost/catalog"  # required
//	CATALOG_POSTGRES_MAX_CONNS="20"
//	CATALOG_REDIS_URL=""           # optional, enables token revocation
//	CATALOG_CACHE_ENABLED="true"
//	CATALOG_CACHE_SIZE="1024"
//
// API settings:
//
//	CATALOG_DEFAULT_PAGE_SIZE="20"
//	CATALOG_MAX_PAGE_SIZE="100"
//	CATALOG_CORS_ALLOWED_ORIGINS="*"
//
// Observability settings:
//
//	CATALOG_LOG_LEVEL="info"  # debug, info, warn, error
//	CATALOG_METRICS_ENABLED="true"
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
//	fmt.Printf("Log level: %s\n", cfg.Observability.LogLevel)
//
// # Related Packages
//
//   - pkg/storage: Uses storage configuration
//   - pkg/auth: Uses auth configuration
//   - pkg/observability: Uses observability configuration
package config
