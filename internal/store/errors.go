package store

import "errors"

var (
	// ErrUnavailable means the store file could not be opened or recreated
	ErrUnavailable = errors.New("store unavailable")

	// ErrCommit means a write transaction failed to commit
	ErrCommit = errors.New("commit failed")
)
