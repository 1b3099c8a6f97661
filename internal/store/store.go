// Package store keeps projects, sprites and brushes in a SQLite database.
// Sprites and brushes are stored as the byte records produced by the codec
// package.
package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

//go:embed schema.sql
var schema string

type Store struct {
	Db     *sql.DB
	logger *slog.Logger
}

// Open opens the database at dsn, creating the tables and default brushes
// if they don't exist yet. A nil logger logs to slog.Default().
func Open(dsn string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("Couldn't open database:\n%w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("Couldn't initialise database:\n%w", err)
	}

	s := &Store{Db: db, logger: logger.With("src", "store")}
	if err := s.seedBrushes(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.Db.Close()
}

// Run operations in a transaction, committing afterward, or rolling back if the
// passed function returns an error
func (s *Store) Transact(f func(*sql.Tx) error) error {
	tx, err := s.Db.Begin()
	if err != nil {
		return err
	}

	err = f(tx)
	if err != nil {
		err2 := tx.Rollback()
		if err2 != nil {
			return fmt.Errorf("Failed to roll back transaction: %w\n\nAfter handling: %v", err2, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Failed to commit transaction:\n%w", err)
	}
	return nil
}

// QueryAndScanRows runs a query and scans every row it returns into a new T.
func QueryAndScanRows[T any](db *sql.DB, query string, args []any, scanRow func(*sql.Rows, *T) error) ([]T, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("Query execution failed:\n%w", err)
	}
	defer rows.Close()

	results := []T{}
	for rows.Next() {
		var x T
		if err := scanRow(rows, &x); err != nil {
			return nil, fmt.Errorf("Row scanning failed:\n%w", err)
		}
		results = append(results, x)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Error iterating rows:\n%w", err)
	}
	return results, nil
}
