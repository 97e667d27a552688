package database

import (
	"path/filepath"
	"testing"
)

// setupTestDB opens a throwaway SQLite database with the full schema.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "scenedex_test.db")
	db, err := NewDB(Config{
		Type:       "sqlite",
		SQLitePath: dbPath,
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})
	return db
}
