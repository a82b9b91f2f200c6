package store

import (
	"fmt"
	"strings"

	"matzip/internal/schema"
)

// buildSelect renders a SELECT over every entity column with the
// entity's default order. cond is an optional WHERE fragment.
func buildSelect(e *schema.Entity, cond string) string {
	q := fmt.Sprintf("SELECT %s FROM %s", strings.Join(e.Columns(), ", "), e.Table)
	if cond != "" {
		q += " WHERE " + cond
	}
	q += " ORDER BY " + e.OrderBy
	if e.OrderDesc {
		q += " DESC"
	}
	return q
}

// buildSelectByID renders the exact-match limit-1 lookup
func buildSelectByID(e *schema.Entity) string {
	return fmt.Sprintf(
		"SELECT %s FROM %s WHERE id = ? LIMIT 1",
		strings.Join(e.Columns(), ", "), e.Table,
	)
}

// buildUpsert renders an INSERT ... ON CONFLICT(id) DO UPDATE over
// every entity column. created_at is excluded from the update set so
// it is stamped once at insert and never overwritten.
func buildUpsert(e *schema.Entity) string {
	cols := e.Columns()
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")

	var sets []string
	for _, col := range cols {
		if col == "id" || col == "created_at" {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = excluded.%s", col, col))
	}

	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		e.Table, strings.Join(cols, ", "), placeholders, strings.Join(sets, ", "),
	)
}
