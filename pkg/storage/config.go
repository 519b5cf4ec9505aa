package storage

import "time"

// Config holds storage backend configuration
type Config struct {
	// PostgreSQL config
	PostgresURL      string
	PostgresMaxConns int
	PostgresMinConns int
	PostgresTimeout  time.Duration

	// Redis config (optional; enables the token denylist and cache probes)
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// In-process product cache
	CacheEnabled bool
	CacheSize    int
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		PostgresMaxConns: 20,
		PostgresMinConns: 2,
		PostgresTimeout:  10 * time.Second,
		CacheEnabled:     true,
		CacheSize:        1024,
	}
}
