// Package storage persists session-local client state: the backend auth token
// and user preferences, keyed under fixed names in a small SQLite database.
// It is the browser-localStorage analog for the dashboard.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// KeyAuthToken is the fixed key the bearer credential lives under.
const KeyAuthToken = "authToken"

// ErrNotFound is returned when a settings key has no stored value.
var ErrNotFound = errors.New("setting not found")

type SettingsStore struct {
	db *sql.DB
}

func NewSettingsStore(dbPath string) (*SettingsStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SettingsStore{db: db}, nil
}

func (s *SettingsStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get returns the value stored under key, or ErrNotFound.
func (s *SettingsStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get setting %s: %w", key, err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (s *SettingsStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *SettingsStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete setting %s: %w", key, err)
	}
	return nil
}

// Token returns the stored bearer credential, or "" when absent. The API
// client treats an empty token as "send no Authorization header".
func (s *SettingsStore) Token(ctx context.Context) (string, error) {
	token, err := s.Get(ctx, KeyAuthToken)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return token, err
}

// SetToken stores the bearer credential.
func (s *SettingsStore) SetToken(ctx context.Context, token string) error {
	return s.Set(ctx, KeyAuthToken, token)
}

// ClearToken removes the bearer credential; used on 401 session invalidation.
func (s *SettingsStore) ClearToken(ctx context.Context) error {
	return s.Delete(ctx, KeyAuthToken)
}
