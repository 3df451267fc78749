// Package testing provides database helpers for package tests.
package testing

import (
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/heisenbergtrx/portfolio-dashboard/internal/database"
	_ "github.com/mattn/go-sqlite3" // cgo driver for in-memory test databases
)

// NewTestDB creates a file-backed test database with the named embedded schema applied.
// Returns the database instance and a cleanup function that closes the connection and
// removes the file.
func NewTestDB(t *testing.T, name string) (*database.DB, func()) {
	t.Helper()

	tmpFile, err := os.CreateTemp("", fmt.Sprintf("test_%s_*.db", name))
	if err != nil {
		t.Fatalf("Failed to create temporary database file: %v", err)
	}
	tmpPath := tmpFile.Name()
	_ = tmpFile.Close()

	db, err := database.New(database.Config{
		Path:    tmpPath,
		Profile: database.ProfileStandard,
		Name:    name,
	})
	if err != nil {
		_ = os.Remove(tmpPath)
		t.Fatalf("Failed to create test database %s: %v", name, err)
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		_ = os.Remove(tmpPath)
		t.Fatalf("Failed to migrate test database %s: %v", name, err)
	}

	return db, func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: Failed to close test database %s: %v", name, err)
		}
		_ = os.Remove(tmpPath)
		_ = os.Remove(tmpPath + "-wal")
		_ = os.Remove(tmpPath + "-shm")
	}
}

// NewMemoryDB opens an in-memory SQLite connection with the named schema applied.
// The pool is limited to one connection because every :memory: connection is its own database.
func NewMemoryDB(t *testing.T, name string) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = conn.Close() })

	schema, err := database.Schema(name)
	if err != nil {
		t.Fatalf("Failed to load schema %s: %v", name, err)
	}
	if err := database.ApplySchema(conn, schema); err != nil {
		t.Fatalf("Failed to apply schema %s: %v", name, err)
	}
	return conn
}
