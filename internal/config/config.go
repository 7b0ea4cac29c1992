package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP UI server
	Port string

	// Fiba backend API
	APIBaseURL     string
	RequestTimeout time.Duration

	// Degraded mode: substitute built-in demo payloads when a read fails.
	DegradeToMockOnError bool

	// Local session store
	SQLiteDBPath string

	// Web layer caching
	CacheTTL     time.Duration
	CacheMaxSize int
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		APIBaseURL:     getEnv("FIBA_API_URL", "http://localhost:5000/api"),
		RequestTimeout: getEnvDuration("FIBA_REQUEST_TIMEOUT", 10*time.Second),

		DegradeToMockOnError: getEnvBool("FIBA_DEGRADE_TO_MOCK", true),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/fiba.db"),

		CacheTTL:     getEnvDuration("CACHE_TTL", 5*time.Minute),
		CacheMaxSize: getEnvInt("CACHE_MAX_SIZE", 100),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate API base URL
	if c.APIBaseURL == "" {
		errors = append(errors, "API base URL cannot be empty")
	} else if parsedURL, err := url.Parse(c.APIBaseURL); err != nil {
		errors = append(errors, fmt.Sprintf("invalid API base URL '%s': %v", c.APIBaseURL, err))
	} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		errors = append(errors, fmt.Sprintf("invalid API base URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
	}

	// Validate request timeout
	if c.RequestTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid request timeout %v: must be at least 1 second", c.RequestTimeout))
	} else if c.RequestTimeout > time.Minute {
		errors = append(errors, fmt.Sprintf("invalid request timeout %v: must be at most 1 minute", c.RequestTimeout))
	}

	// Validate SQLite path; the store creates the directory when it opens
	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	}

	// Validate cache settings
	if c.CacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at least 1 second", c.CacheTTL))
	}
	if c.CacheMaxSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid cache max size %d: must be at least 1", c.CacheMaxSize))
	} else if c.CacheMaxSize > 10000 {
		errors = append(errors, fmt.Sprintf("invalid cache max size %d: must be at most 10000", c.CacheMaxSize))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
