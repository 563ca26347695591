package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/datallboy/mediashelf/internal/cache"
	_ "modernc.org/sqlite"
)

// PersistentStore holds the cache entry index, the preference keys and the blob files
// with the cached response bodies.
type PersistentStore struct {
	db    *sql.DB
	blobs *cache.FileCache

	schemaVersion uint
}

func NewPersistentStore(dbPath, blobDir string) (*PersistentStore, error) {

	dbDir := filepath.Dir(dbPath)

	// Ensure the database directory exists
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Ensure the blob directory exist
	if err := os.MkdirAll(blobDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}

	// Open the metadata db
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	// One writer at a time; read-then-write transactions would otherwise hit SQLITE_BUSY
	db.SetMaxOpenConns(1)

	// Ping makes sure the file is actually accessible and the DSN is valid
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to sqlite: %w", err)
	}

	store := &PersistentStore{db: db, blobs: &cache.FileCache{Dir: blobDir}}

	version, err := store.migrateSchema()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not migrate database: %w", err)
	}
	store.schemaVersion = version

	return store, nil
}

func (s *PersistentStore) Close() error {
	return s.db.Close()
}
