package main

import (
	"fmt"
	"log/slog"
	"os"

	"tomgalvin.uk/msxsprite/internal/store"
)

const defaultDSN = "file:sprites.db"

// databaseDSN picks the database to use: the -db flag, then $MSXSPRITE_DB,
// then sprites.db in the working directory.
func databaseDSN(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("MSXSPRITE_DB"); env != "" {
		return env
	}
	return defaultDSN
}

func NewStore(dsn string, logger *slog.Logger) (*store.Store, error) {
	s, err := store.Open(dsn, logger)
	if err != nil {
		return nil, fmt.Errorf("Couldn't open sprite database %s:\n%w", dsn, err)
	}
	return s, nil
}
