package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"

	"matzip/internal/schema"
)

// ErrClosed is returned by Perform on a closed context
var ErrClosed = errors.New("context closed")

// change is one buffered mutation: a staged record or a tombstone
type change struct {
	record  Record
	deleted bool
}

// Context is a bound unit of work against the store. Reads are
// consistent with committed state plus this context's own staged
// changes; writes are buffered until Save commits them atomically.
//
// Every operation is executed on the context's serial worker, so the
// data methods must only be called from inside Perform.
type Context struct {
	store     *Store
	name      string
	ops       chan func()
	closed    chan struct{}
	closeOnce sync.Once

	// staged changes, entity name -> id -> change.
	// Confined to the worker goroutine.
	pending map[string]map[string]*change
}

func (s *Store) newContext(name string) *Context {
	c := &Context{
		store:   s,
		name:    name,
		ops:     make(chan func()),
		closed:  make(chan struct{}),
		pending: make(map[string]map[string]*change),
	}
	go c.run()
	return c
}

func (c *Context) run() {
	for op := range c.ops {
		op()
	}
}

// Perform enqueues fn on the context's serial queue and waits for its
// result. ctx guards admission only: once fn is submitted it runs to
// completion and Perform waits for it regardless of ctx.
func (c *Context) Perform(ctx context.Context, fn func() error) error {
	select {
	case <-c.closed:
		return ErrClosed
	default:
	}

	res := make(chan error, 1)
	select {
	case c.ops <- func() { res <- fn() }:
	case <-ctx.Done():
		return ctx.Err()
	}
	return <-res
}

// Close stops the worker. Callers must not submit work concurrently
// with Close; queued operations drain before the worker exits.
func (c *Context) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		close(c.ops)
	})
}

func (c *Context) entity(name string) (*schema.Entity, error) {
	e, ok := c.store.model.Entity(name)
	if !ok {
		return nil, fmt.Errorf("unknown entity %q", name)
	}
	return e, nil
}

// FetchAll returns every record of the entity in its default order,
// with this context's staged changes overlaid.
func (c *Context) FetchAll(entity string) ([]Record, error) {
	return c.FetchWhere(entity, "")
}

// FetchWhere returns the records matching the WHERE fragment cond in
// the entity's default order, with staged changes overlaid. An empty
// cond matches everything. cond is evaluated against committed state
// only; staged records are overlaid as-is without re-checking it.
func (c *Context) FetchWhere(entity, cond string, args ...any) ([]Record, error) {
	e, err := c.entity(entity)
	if err != nil {
		return nil, err
	}

	rows, err := c.store.db.Query(buildSelect(e, cond), args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", e.Table, err)
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		rec, err := scanRecord(e, rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", e.Table, err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", e.Table, err)
	}

	return c.overlay(e, recs), nil
}

// Fetch returns the record with the given id, or nil when absent.
// A staged record or tombstone on this context takes precedence over
// committed state.
func (c *Context) Fetch(entity, id string) (Record, error) {
	e, err := c.entity(entity)
	if err != nil {
		return nil, err
	}

	if ch, ok := c.pending[entity][id]; ok {
		if ch.deleted {
			return nil, nil
		}
		return ch.record.Clone(), nil
	}

	row := c.store.db.QueryRow(buildSelectByID(e), id)
	rec, err := scanRecord(e, row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", e.Table, err)
	}
	return rec, nil
}

// Count counts committed records of the entity, up to limit.
// A limit of 1 is the cheap "is the store empty" probe.
func (c *Context) Count(entity string, limit int) (int, error) {
	e, err := c.entity(entity)
	if err != nil {
		return 0, err
	}

	var n int
	q := fmt.Sprintf("SELECT COUNT(*) FROM (SELECT 1 FROM %s LIMIT ?)", e.Table)
	if err := c.store.db.QueryRow(q, limit).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", e.Table, err)
	}
	return n, nil
}

// CountWhere counts committed records matching the WHERE fragment
func (c *Context) CountWhere(entity, cond string, args ...any) (int, error) {
	e, err := c.entity(entity)
	if err != nil {
		return 0, err
	}

	var n int
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", e.Table, cond)
	if err := c.store.db.QueryRow(q, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", e.Table, err)
	}
	return n, nil
}

// Stage buffers an insert-or-update of the record, keyed by its id
func (c *Context) Stage(entity string, rec Record) {
	id := rec.String("id")
	m := c.pending[entity]
	if m == nil {
		m = make(map[string]*change)
		c.pending[entity] = m
	}
	m[id] = &change{record: rec}
}

// Delete buffers tombstones for every record matching the id.
// Deleting an id that exists nowhere is a silent no-op at commit time.
func (c *Context) Delete(entity, id string) error {
	e, err := c.entity(entity)
	if err != nil {
		return err
	}

	rows, err := c.store.db.Query("SELECT id FROM "+e.Table+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("fetch %s for delete: %w", e.Table, err)
	}
	defer rows.Close()

	matched := false
	for rows.Next() {
		var got string
		if err := rows.Scan(&got); err != nil {
			return fmt.Errorf("scan %s for delete: %w", e.Table, err)
		}
		matched = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate %s for delete: %w", e.Table, err)
	}

	// tombstone even without a committed row so a staged insert for
	// the same id is cancelled
	_, staged := c.pending[entity][id]
	if !matched && !staged {
		return nil
	}

	m := c.pending[entity]
	if m == nil {
		m = make(map[string]*change)
		c.pending[entity] = m
	}
	m[id] = &change{deleted: true}
	return nil
}

// HasChanges reports whether anything is staged on this context
func (c *Context) HasChanges() bool {
	for _, m := range c.pending {
		if len(m) > 0 {
			return true
		}
	}
	return false
}

// Reset discards every staged change without committing
func (c *Context) Reset() {
	c.pending = make(map[string]map[string]*change)
}

// Save commits every staged change in one transaction. A context with
// nothing pending is a no-op. Failures are logged once, wrapped in
// ErrCommit and returned; staged changes are kept so the caller can
// inspect or Reset them; nothing retries automatically.
func (c *Context) Save() error {
	if !c.HasChanges() {
		return nil
	}

	tx, err := c.store.db.Begin()
	if err != nil {
		c.store.log.Error("save failed", "context", c.name, "error", err)
		return fmt.Errorf("%w: %v", ErrCommit, err)
	}
	defer tx.Rollback()

	// parents before children so staged foreign keys resolve
	for i := range c.store.model.Entities {
		e := &c.store.model.Entities[i]
		changes := c.pending[e.Name]
		if len(changes) == 0 {
			continue
		}

		ids := make([]string, 0, len(changes))
		for id := range changes {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			ch := changes[id]
			if ch.deleted {
				_, err = tx.Exec("DELETE FROM "+e.Table+" WHERE id = ?", id)
			} else {
				_, err = tx.Exec(buildUpsert(e), bindArgs(e, ch.record)...)
			}
			if err != nil {
				c.store.log.Error("save failed", "context", c.name, "table", e.Table, "id", id, "error", err)
				return fmt.Errorf("%w: %s %s: %v", ErrCommit, e.Table, id, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		c.store.log.Error("save failed", "context", c.name, "error", err)
		return fmt.Errorf("%w: %v", ErrCommit, err)
	}

	c.Reset()
	c.store.log.Debug("context saved", "context", c.name)
	return nil
}

// overlay applies this context's staged changes to fetched records:
// staged values replace committed ones, tombstoned rows drop out and
// staged records with no committed row are appended. The result is
// re-sorted into the entity's default order so staged values cannot
// break it. This is what biases the merge policy toward the
// foreground: values staged here win over whatever another context
// committed underneath.
func (c *Context) overlay(e *schema.Entity, recs []Record) []Record {
	changes := c.pending[e.Name]
	if len(changes) == 0 {
		return recs
	}

	seen := make(map[string]bool, len(recs))
	out := recs[:0]
	for _, rec := range recs {
		id := rec.String("id")
		seen[id] = true
		ch, ok := changes[id]
		if !ok {
			out = append(out, rec)
			continue
		}
		if ch.deleted {
			continue
		}
		out = append(out, ch.record.Clone())
	}

	staged := make([]string, 0, len(changes))
	for id, ch := range changes {
		if ch.deleted || seen[id] {
			continue
		}
		staged = append(staged, id)
	}
	sort.Strings(staged)
	for _, id := range staged {
		out = append(out, changes[id].record.Clone())
	}

	sortRecords(e, out)
	return out
}

// sortRecords restores the entity's default order after an overlay
func sortRecords(e *schema.Entity, recs []Record) {
	f, ok := e.Field(e.OrderBy)
	if !ok {
		return
	}
	sort.SliceStable(recs, func(i, j int) bool {
		if e.OrderDesc {
			i, j = j, i
		}
		return recordLess(f, recs[i], recs[j])
	})
}

func recordLess(f *schema.Field, a, b Record) bool {
	switch f.Type {
	case schema.Date:
		return a.Time(f.Name).Before(b.Time(f.Name))
	case schema.Double, schema.Int32, schema.Int16, schema.Bool:
		return a.Float(f.Name) < b.Float(f.Name)
	default:
		return a.String(f.Name) < b.String(f.Name)
	}
}
