package test

import (
	"log"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"userprofiles/internal/adapter/database/sqlite"
)

type TestSetup[T any] struct {
	DB   *sqlite.DB
	Repo *T
}

// InitTestDB opens a migrated in-memory SQLite gateway with SQL logging
// silenced.
func InitTestDB() *sqlite.DB {
	db, err := sqlite.New(":memory:", sqlite.WithLogLevel(zerolog.Disabled), sqlite.WithDBName("userprofiles_test"))

	if err != nil {
		log.Fatal(err)
	}

	return db
}

func SetupTest[T any](t *testing.T, repo *T) *TestSetup[T] {
	db := InitTestDB()

	return &TestSetup[T]{
		DB:   db,
		Repo: repo,
	}
}

func TeardownTest[T any](t *testing.T, setup *TestSetup[T]) {
	if setup.DB != nil {
		CleanDB(t, setup.DB)
		setup.DB.Close()
	}
}

// CleanDB empties every application table and resets the id sequences.
func CleanDB(t *testing.T, db *sqlite.DB) {
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT IN ('sqlite_sequence', 'schema_migrations')")
	if err != nil {
		t.Fatalf("Failed to query tables: %v", err)
	}

	var tables []string
	for rows.Next() {
		var table string

		if err := rows.Scan(&table); err != nil {
			rows.Close()
			t.Fatalf("Failed to scan table name: %v", err)
		}

		tables = append(tables, strings.TrimSpace(table))
	}

	if err := rows.Err(); err != nil {
		t.Fatalf("Error iterating over rows: %v", err)
	}
	rows.Close()

	for _, table := range tables {
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			t.Fatalf("Failed to execute delete for table %s: %v", table, err)
		}
	}

	if _, err := db.Exec("DELETE FROM sqlite_sequence"); err != nil {
		t.Fatalf("Failed to reset sequences: %v", err)
	}
}
