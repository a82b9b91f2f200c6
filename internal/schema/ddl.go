package schema

import (
	"fmt"
	"strings"
)

// Columns returns the ordered column names of the entity
func (e *Entity) Columns() []string {
	cols := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		cols[i] = f.Name
	}
	return cols
}

// Field looks a field up by column name
func (e *Entity) Field(name string) (*Field, bool) {
	for i := range e.Fields {
		if e.Fields[i].Name == name {
			return &e.Fields[i], true
		}
	}
	return nil, false
}

// DDL renders CREATE TABLE and CREATE INDEX statements for the model.
// Statements are idempotent so the store can apply them on every open.
func (m *Model) DDL() []string {
	var stmts []string
	for _, e := range m.Entities {
		var defs []string
		for _, f := range e.Fields {
			defs = append(defs, columnDDL(f))
		}
		defs = append(defs, m.foreignKeys(e.Name)...)

		stmts = append(stmts, fmt.Sprintf(
			"CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)",
			e.Table, strings.Join(defs, ",\n\t"),
		))

		for _, col := range e.Indexes {
			stmts = append(stmts, fmt.Sprintf(
				"CREATE INDEX IF NOT EXISTS idx_%s_%s ON %s(%s)",
				e.Table, col, e.Table, col,
			))
		}
	}
	return stmts
}

// foreignKeys renders FK clauses for to-one relationships backed by a
// column on the given entity. The ON DELETE action comes from the
// inverse relationship's rule: deleting the referenced parent applies
// the parent's rule to the rows holding the reference.
func (m *Model) foreignKeys(entity string) []string {
	var clauses []string
	for _, r := range m.Relationships {
		if r.Entity != entity || r.ToMany || r.Column == "" {
			continue
		}
		dest, ok := m.Entity(r.Destination)
		if !ok {
			continue
		}
		onDelete := "SET NULL"
		if inv, ok := m.relationship(r.Destination, r.Inverse); ok && inv.Rule == Cascade {
			onDelete = "CASCADE"
		}
		clauses = append(clauses, fmt.Sprintf(
			"FOREIGN KEY (%s) REFERENCES %s(id) ON DELETE %s",
			r.Column, dest.Table, onDelete,
		))
	}
	return clauses
}

func columnDDL(f Field) string {
	def := f.Name + " " + sqlType(f.Type)
	if f.Name == "id" {
		return def + " PRIMARY KEY"
	}
	if !f.Optional {
		def += " NOT NULL"
		if f.Default != nil {
			def += " DEFAULT " + defaultLiteral(f.Default)
		}
	}
	return def
}

func sqlType(t FieldType) string {
	switch t {
	case String:
		return "TEXT"
	case Double:
		return "REAL"
	case Int32, Int16, Bool:
		return "INTEGER"
	case Date:
		return "TIMESTAMP"
	case Blob:
		return "BLOB"
	default:
		return "TEXT"
	}
}

func defaultLiteral(v any) string {
	switch val := v.(type) {
	case bool:
		if val {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprintf("%v", val)
	}
}
