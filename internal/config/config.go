// Package config loads server configuration from the environment.
package config

import "os"

// Config holds all application configuration.
type Config struct {
	// Port the HTTP server listens on.
	Port string

	// DBPath is the SQLite database file path.
	DBPath string

	// CacheAddr is an optional Redis address for the shared split
	// cache. Empty selects the in-process FIFO cache.
	CacheAddr string
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", "8080"),
		DBPath:    getEnv("DB_PATH", "./data/bills.db"),
		CacheAddr: getEnv("CACHE_ADDR", ""),
	}
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
