package store

import (
	"database/sql"
	"time"

	"matzip/internal/schema"
)

// Record is one persisted row keyed by column name. Absent and NULL
// columns are simply missing keys; the typed accessors degrade to zero
// values so mapping code never branches on presence.
type Record map[string]any

// String returns the column as a string, or "" when absent
func (r Record) String(col string) string {
	if v, ok := r[col].(string); ok {
		return v
	}
	return ""
}

// Float returns the column as a float64, or 0 when absent
func (r Record) Float(col string) float64 {
	switch v := r[col].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	}
	return 0
}

// Int returns the column as an int64, or 0 when absent
func (r Record) Int(col string) int64 {
	switch v := r[col].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case int16:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

// Bool returns the column as a bool, or false when absent
func (r Record) Bool(col string) bool {
	switch v := r[col].(type) {
	case bool:
		return v
	case int64:
		return v != 0
	}
	return false
}

// Time returns the column as a time.Time, or the zero time when absent
func (r Record) Time(col string) time.Time {
	if v, ok := r[col].(time.Time); ok {
		return v
	}
	return time.Time{}
}

// Bytes returns the column as a blob, or nil when absent
func (r Record) Bytes(col string) []byte {
	if v, ok := r[col].([]byte); ok {
		return v
	}
	return nil
}

// Clone returns a shallow copy of the record
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

// scanRecord reads one row into a Record using the entity's field
// types to pick scan targets. NULL columns stay absent from the map.
func scanRecord(e *schema.Entity, s scanner) (Record, error) {
	holders := make([]any, len(e.Fields))
	for i, f := range e.Fields {
		switch f.Type {
		case schema.String:
			holders[i] = new(sql.NullString)
		case schema.Double:
			holders[i] = new(sql.NullFloat64)
		case schema.Int32, schema.Int16:
			holders[i] = new(sql.NullInt64)
		case schema.Bool:
			holders[i] = new(sql.NullBool)
		case schema.Date:
			holders[i] = new(sql.NullTime)
		case schema.Blob:
			holders[i] = new([]byte)
		default:
			holders[i] = new(sql.NullString)
		}
	}

	if err := s.Scan(holders...); err != nil {
		return nil, err
	}

	rec := make(Record, len(e.Fields))
	for i, f := range e.Fields {
		switch h := holders[i].(type) {
		case *sql.NullString:
			if h.Valid {
				rec[f.Name] = h.String
			}
		case *sql.NullFloat64:
			if h.Valid {
				rec[f.Name] = h.Float64
			}
		case *sql.NullInt64:
			if h.Valid {
				rec[f.Name] = h.Int64
			}
		case *sql.NullBool:
			if h.Valid {
				rec[f.Name] = h.Bool
			}
		case *sql.NullTime:
			if h.Valid {
				rec[f.Name] = h.Time
			}
		case *[]byte:
			if *h != nil {
				rec[f.Name] = *h
			}
		}
	}
	return rec, nil
}

// bindArgs orders record values by the entity's columns for binding.
// Missing keys bind as NULL.
func bindArgs(e *schema.Entity, rec Record) []any {
	args := make([]any, len(e.Fields))
	for i, f := range e.Fields {
		if v, ok := rec[f.Name]; ok {
			args[i] = v
		}
	}
	return args
}
