package store

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"

	"matzip/internal/config"
	"matzip/internal/schema"

	_ "modernc.org/sqlite"
)

// Store owns the SQLite database and hands out contexts
type Store struct {
	db    *sql.DB
	path  string
	mode  config.Mode
	model *schema.Model
	log   *slog.Logger
	view  *Context
}

// Open opens (and if needed creates) the store file and applies the
// schema. In debug mode an open failure destroys the store file and
// retries once; in release mode it fails immediately. Both paths
// surface ErrUnavailable when the store cannot be brought up.
func Open(cfg *config.Config, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &Store{
		path:  cfg.Database.Path,
		mode:  cfg.Mode,
		model: schema.Definition(),
		log:   logger,
	}

	db, err := openDatabase(s.path, s.model)
	if err != nil {
		if !s.mode.DestructiveRecovery() {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}

		logger.Warn("store open failed, resetting store file", "path", s.path, "error", err)
		destroyStoreFiles(s.path)

		db, err = openDatabase(s.path, s.model)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		logger.Info("store reset and recreated", "path", s.path)
	}

	s.db = db
	s.view = s.newContext("view")
	logger.Info("store opened", "path", s.path, "mode", string(s.mode))
	return s, nil
}

// MustOpen is Open with the fail-fast policy: any open error
// terminates the process.
func MustOpen(cfg *config.Config, logger *slog.Logger) *Store {
	s, err := Open(cfg, logger)
	if err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("store open failed", "path", cfg.Database.Path, "error", err)
		os.Exit(1)
	}
	return s
}

func openDatabase(path string, model *schema.Model) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// A single pooled connection: contexts already serialize their own
	// work, and an in-memory store must not fan out across connections.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma: %w", err)
		}
	}

	for _, stmt := range model.DDL() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}

	return db, nil
}

func destroyStoreFiles(path string) {
	if path == "" || path == ":memory:" {
		return
	}
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		os.Remove(p)
	}
}

// View returns the long-lived interactive context
func (s *Store) View() *Context {
	return s.view
}

// NewBackgroundContext returns a fresh context for bulk work.
// The caller owns it and must Close it when done.
func (s *Store) NewBackgroundContext() *Context {
	return s.newContext("background")
}

// Wipe batch-deletes every record of every known entity, children
// first, in one transaction. Development reset only.
func (s *Store) Wipe() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin wipe: %w", err)
	}
	defer tx.Rollback()

	for i := len(s.model.Entities) - 1; i >= 0; i-- {
		table := s.model.Entities[i].Table
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("wipe %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		s.log.Error("wipe failed", "error", err)
		return fmt.Errorf("%w: %v", ErrCommit, err)
	}
	s.log.Info("store wiped")
	return nil
}

// Close stops the view context and releases the database handle
func (s *Store) Close() error {
	s.view.Close()
	return s.db.Close()
}
