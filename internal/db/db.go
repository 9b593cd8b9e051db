package db

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schema string

// memoryDSN names a private in-memory database. Nothing is written to disk.
const memoryDSN = "file::memory:?_foreign_keys=on"

var (
	// ErrNotFound is returned when a task or column id does not exist
	ErrNotFound = errors.New("not found")
	// ErrLastColumn is returned when deleting would leave the board without columns
	ErrLastColumn = errors.New("at least one column is required")
)

// ValidationError reports a required field that was left empty or invalid
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s", e.Field)
}

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// New creates a fresh in-memory board database and initializes the schema
func New() (*DB, error) {
	db, err := sql.Open("sqlite3", memoryDSN)
	if err != nil {
		return nil, err
	}

	// Every connection to :memory: is its own database, so keep exactly one alive
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Initialize schema
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db}, nil
}

// withTx runs fn inside a transaction and commits only if fn succeeds
func (db *DB) withTx(fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func requireTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", &ValidationError{Field: "title"}
	}
	return title, nil
}
