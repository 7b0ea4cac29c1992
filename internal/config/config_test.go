package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:                 "8080",
		APIBaseURL:           "http://localhost:5000/api",
		RequestTimeout:       10 * time.Second,
		DegradeToMockOnError: true,
		SQLiteDBPath:         "./test.db",
		CacheTTL:             5 * time.Minute,
		CacheMaxSize:         100,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range low",
			mutate:      func(c *Config) { c.Port = "0" },
			wantErr:     true,
			errorString: "invalid port 0: must be between 1 and 65535",
		},
		{
			name:        "invalid port - out of range high",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "empty API base URL",
			mutate:      func(c *Config) { c.APIBaseURL = "" },
			wantErr:     true,
			errorString: "API base URL cannot be empty",
		},
		{
			name:        "invalid API scheme",
			mutate:      func(c *Config) { c.APIBaseURL = "ftp://example.com/api" },
			wantErr:     true,
			errorString: "invalid API base URL scheme 'ftp'",
		},
		{
			name:        "request timeout too small",
			mutate:      func(c *Config) { c.RequestTimeout = 100 * time.Millisecond },
			wantErr:     true,
			errorString: "must be at least 1 second",
		},
		{
			name:        "request timeout too large",
			mutate:      func(c *Config) { c.RequestTimeout = 2 * time.Minute },
			wantErr:     true,
			errorString: "must be at most 1 minute",
		},
		{
			name:        "empty sqlite path",
			mutate:      func(c *Config) { c.SQLiteDBPath = "" },
			wantErr:     true,
			errorString: "SQLite database path cannot be empty",
		},
		{
			name:        "cache max size too small",
			mutate:      func(c *Config) { c.CacheMaxSize = 0 },
			wantErr:     true,
			errorString: "invalid cache max size 0",
		},
		{
			name:        "multiple errors reported together",
			mutate:      func(c *Config) { c.Port = "abc"; c.APIBaseURL = "" },
			wantErr:     true,
			errorString: "API base URL cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Fatalf("error %q does not contain %q", err.Error(), tt.errorString)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected ok, got %v", err)
			}
		})
	}
}

func TestValidateDoesNotTouchFilesystem(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "deeper")
	cfg := validConfig()
	cfg.SQLiteDBPath = filepath.Join(dir, "fiba.db")

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("Validate() created %s; directory creation belongs to the store", dir)
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "FIBA_API_URL", "FIBA_REQUEST_TIMEOUT", "FIBA_DEGRADE_TO_MOCK", "SQLITE_DB_PATH", "CACHE_TTL", "CACHE_MAX_SIZE"} {
		old := os.Getenv(key)
		os.Unsetenv(key)
		defer os.Setenv(key, old)
	}

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("default port = %s, want 8080", cfg.Port)
	}
	if cfg.APIBaseURL != "http://localhost:5000/api" {
		t.Fatalf("default API URL = %s", cfg.APIBaseURL)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Fatalf("default timeout = %v, want 10s", cfg.RequestTimeout)
	}
	if !cfg.DegradeToMockOnError {
		t.Fatalf("degraded mode should default to on")
	}
}

func TestLoadFromEnv(t *testing.T) {
	os.Setenv("FIBA_API_URL", "https://api.example.com/v1")
	os.Setenv("FIBA_DEGRADE_TO_MOCK", "false")
	os.Setenv("FIBA_REQUEST_TIMEOUT", "5s")
	defer func() {
		os.Unsetenv("FIBA_API_URL")
		os.Unsetenv("FIBA_DEGRADE_TO_MOCK")
		os.Unsetenv("FIBA_REQUEST_TIMEOUT")
	}()

	cfg := Load()
	if cfg.APIBaseURL != "https://api.example.com/v1" {
		t.Fatalf("API URL not read from env: %s", cfg.APIBaseURL)
	}
	if cfg.DegradeToMockOnError {
		t.Fatalf("degraded mode should be off")
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Fatalf("timeout = %v, want 5s", cfg.RequestTimeout)
	}
}
