package service

import (
	"io"
	"log/slog"

	"matzip/internal/store"
)

// Service exposes CRUD and query operations over the persisted
// entities. Construct one per process and inject it wherever data
// access is needed; it is safe for concurrent use.
type Service struct {
	store *store.Store
	log   *slog.Logger
}

// New creates a service bound to an open store
func New(st *store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{store: st, log: logger}
}
