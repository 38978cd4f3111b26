package database

import (
	"path/filepath"
	"testing"
)

func TestNewDB(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "metrics.db")

	db, err := NewDB(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	var name string
	err = db.SQL.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='plan_executions'`).Scan(&name)
	if err != nil {
		t.Fatalf("Expected plan_executions table, got %v", err)
	}

	// Re-running migrations on an up-to-date database is a no-op.
	if err := RunMigrations(dbPath); err != nil {
		t.Errorf("Expected no error on second migration run, got %v", err)
	}
}
