package database

import (
	"path/filepath"
	"testing"
)

// setupTestDB creates a migrated database in a temp dir.
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")
	db, err := NewDB(Config{DatabasePath: dbPath})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewDB_CreatesSchema(t *testing.T) {
	db := setupTestDB(t)

	for _, table := range []string{"slug_resolutions", "schedule_snapshots", "goose_db_version"} {
		var name string
		err := db.conn.QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		if err != nil {
			t.Errorf("expected table %s to exist: %v", table, err)
		}
	}
}

func TestNewDB_ReopenIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	first, err := NewDB(Config{DatabasePath: dbPath})
	if err != nil {
		t.Fatalf("first open failed: %v", err)
	}
	first.Close()

	second, err := NewDB(Config{DatabasePath: dbPath})
	if err != nil {
		t.Fatalf("second open failed: %v", err)
	}
	defer second.Close()
}

func TestNewDB_RequiresPath(t *testing.T) {
	if _, err := NewDB(Config{}); err == nil {
		t.Fatal("expected error for empty path")
	}
}
