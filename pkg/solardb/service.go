// SolarDB holds the simulated readings of every house.
// The readings and room_activity tables are append-only:
// rows are inserted once per (timestamp, house_id) and never updated or deleted.
// Only one process should write to it at a time; readers are unrestricted.
package solardb

import (
	"database/sql"
	"embed"
	"fmt"
	"log"

	"github.com/NotCoffee418/dbmigrator"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

type Store struct {
	db *sql.DB
}

// Open connects to the sqlite file at path and applies pending migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify connection, this also creates the file
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database %s: %w", path, err)
	}

	// Apply migrations
	dbmigrator.SetDatabaseType(dbmigrator.SQLite)
	<-dbmigrator.MigrateUpCh(
		db,
		migrationFS,
		"migrations",
	)

	// Fail early if the migrations did not leave us with a usable schema
	if _, err := db.Exec("SELECT 1 FROM readings LIMIT 1"); err != nil {
		db.Close()
		return nil, fmt.Errorf("database schema missing after migrations: %w", err)
	}

	log.Printf("Opened solar database at %s", path)
	return &Store{db: db}, nil
}

// DB exposes the connection for derived tables (aggregates).
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Close() error {
	return s.db.Close()
}
