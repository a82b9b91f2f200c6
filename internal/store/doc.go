// Package store owns the on-disk SQLite database for matzip.
//
// The store exposes one long-lived view context for interactive use
// and a factory for short-lived background contexts for bulk work.
// Each context serializes its operations on a dedicated worker
// goroutine; writes are buffered as staged records and delete
// tombstones until Save commits them in a single transaction.
//
// # Visibility and merging
//
// Every context reads through the shared database, so a committed
// background save is immediately visible to the view context. A
// context's own staged changes overlay whatever it reads, which gives
// the merge policy its foreground bias: values staged on the view
// context win over freshly committed background values until the view
// context itself saves.
//
// # Failure policy
//
// Open failures follow the build mode: debug destroys and recreates
// the store file once, release fails immediately. Commit failures are
// logged, wrapped in ErrCommit and returned to the caller; nothing in
// this package retries.
package store
