package repositories

import (
	"database/sql"
	"fmt"
	"time"
)

// Setting keys used by the client.
const (
	SettingDefaultProvider = "default_provider"
	SettingLanguage        = "language"
)

// SettingsRepository persists simple key/value preferences.
type SettingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new [SettingsRepository] with the given database connection
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Set writes a preference value.
func (r *SettingsRepository) Set(key, value string) error {
	if key == "" {
		return fmt.Errorf("setting key cannot be empty")
	}

	query := `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	if _, err := r.db.Exec(query, key, value, time.Now()); err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}

	return nil
}

// Get reads a preference value. The second return reports whether the
// key was set.
func (r *SettingsRepository) Get(key string) (string, bool, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read setting: %w", err)
	}
	return value, true, nil
}

// GetDefault reads a preference value, falling back when unset.
func (r *SettingsRepository) GetDefault(key, fallback string) (string, error) {
	value, ok, err := r.Get(key)
	if err != nil {
		return "", err
	}
	if !ok {
		return fallback, nil
	}
	return value, nil
}
