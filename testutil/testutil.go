// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/flowhub/cliparse"
	"github.com/danielhkuo/flowhub/db"
	"github.com/danielhkuo/flowhub/models"
)

// PostgresURLEnv names the variable that enables PostgreSQL tests.
const PostgresURLEnv = "TEST_DATABASE_URL"

// SetupTestDB creates a fresh SQLite database with the full schema in a
// per-test temp directory. It is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "flowhub.db")
	conn, err := db.Open(context.Background(), db.DriverSQLite, path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

// SetupPostgresDB connects to TEST_DATABASE_URL, skipping the test when it is
// unset, and empties kv_blob before handing it over.
func SetupPostgresDB(t *testing.T) *sql.DB {
	t.Helper()

	url := os.Getenv(PostgresURLEnv)
	if url == "" {
		t.Skipf("%s not set", PostgresURLEnv)
	}

	conn, err := db.Open(context.Background(), db.DriverPostgres, url)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	// Clean up tables before each test
	if _, err := conn.Exec(`DELETE FROM kv_blob`); err != nil {
		t.Fatalf("Failed to clean database: %v", err)
	}

	return conn
}

// NewTestKV returns a KV over a fresh SQLite database.
func NewTestKV(t *testing.T) *db.KV {
	t.Helper()

	kv, err := db.NewKV(SetupTestDB(t), db.DriverSQLite)
	if err != nil {
		t.Fatalf("Failed to create kv: %v", err)
	}
	return kv
}

// GetTestConfig returns a standard test configuration
func GetTestConfig(t *testing.T) cliparse.Config {
	t.Helper()

	dir := t.TempDir()
	return cliparse.Config{
		DatabaseType: db.DriverSQLite,
		DatabaseURL:  filepath.Join(dir, "flowhub.db"),
		LabelTimeout: time.Second,
		Locale:       "en-US",
		GroupSize:    4,
		Seed:         1,
		ExportDir:    filepath.Join(dir, "exports"),
	}
}

// Roster builds participants with ids p1, p2, ... for the given names.
func Roster(names ...string) []models.Participant {
	out := make([]models.Participant, len(names))
	for i, name := range names {
		out[i] = models.Participant{ID: fmt.Sprintf("p%d", i+1), Name: name}
	}
	return out
}

// NumberedRoster builds n participants named person-01, person-02, ...
func NumberedRoster(n int) []models.Participant {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("person-%02d", i+1)
	}
	return Roster(names...)
}

// SequentialIDs returns an id generator yielding prefix-1, prefix-2, ...
func SequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}
