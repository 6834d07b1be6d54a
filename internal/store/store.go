package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// VersionStore keeps the last imported version of every source
type VersionStore struct {
	db *sql.DB
}

// DefaultPath returns the database location inside the user's config directory
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = "."
	}
	return filepath.Join(configDir, "GhostSets", "ghostsets.db")
}

// Open opens (and creates if needed) the version database at path
func Open(path string) (*VersionStore, error) {
	if path == "" {
		path = DefaultPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &VersionStore{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// init creates the schema
func (s *VersionStore) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS imported_versions (
			source TEXT PRIMARY KEY,
			version TEXT,
			updated_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// Get returns the imported version of a source, empty when nothing is imported
func (s *VersionStore) Get(name string) (string, error) {
	var version sql.NullString
	err := s.db.QueryRow("SELECT version FROM imported_versions WHERE source = ?", name).Scan(&version)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read version: %w", err)
	}
	return version.String, nil
}

// Save records the imported version of a source. An empty version clears it.
func (s *VersionStore) Save(name string, version string) error {
	value := sql.NullString{String: version, Valid: version != ""}

	_, err := s.db.Exec(`
		INSERT INTO imported_versions (source, version, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(source) DO UPDATE SET version = excluded.version, updated_at = excluded.updated_at
	`, name, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save version: %w", err)
	}
	return nil
}

// All returns every source with a row in the store
func (s *VersionStore) All() (map[string]string, error) {
	rows, err := s.db.Query("SELECT source, version FROM imported_versions ORDER BY source")
	if err != nil {
		return nil, fmt.Errorf("failed to query versions: %w", err)
	}
	defer rows.Close()

	versions := make(map[string]string)
	for rows.Next() {
		var name string
		var version sql.NullString
		if err := rows.Scan(&name, &version); err != nil {
			return nil, err
		}
		versions[name] = version.String
	}
	return versions, rows.Err()
}

// Close closes the database connection
func (s *VersionStore) Close() error {
	return s.db.Close()
}
