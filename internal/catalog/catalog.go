// Package catalog is the persisted table->schema directory. It layers
// on top of the kvstore.Store contract: every catalog entry is itself
// a row in the shared key space, keyed under the "catalog:" prefix
// defined by package keyspace.
package catalog

import (
	"encoding/json"
	"fmt"

	"nexumdb/internal/keyspace"
	"nexumdb/internal/kvstore"
	"nexumdb/internal/value"
)

// Column is a single (name, declared type) pair. The Null tag is
// forbidden as a declared column type; Catalog.Create rejects it.
type Column struct {
	Name string
	Type value.Tag
}

// TableSchema is the canonical, order-preserving column list for a
// table. Column order is assigned once at creation time and never
// mutated afterwards: there is no ALTER.
type TableSchema struct {
	Name    string
	Columns []Column
}

// ColumnIndex returns the position of name within the schema's column
// order, or -1 if it is not a column of this schema. Matching is exact
// and case-sensitive.
func (s *TableSchema) ColumnIndex(name string) int {
	for i, c := range s.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// ColumnNames returns the schema's column names in declared order.
func (s *TableSchema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// entry is the on-disk, self-describing representation of a
// TableSchema. The declared type is persisted as its Tag.String()
// discriminator so the catalog round-trips without any
// schema-of-the-schema.
type entry struct {
	Name    string        `json:"name"`
	Columns []entryColumn `json:"columns"`
}

type entryColumn struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// DuplicateTableError is returned by Create when the table already
// exists.
type DuplicateTableError struct {
	Name string
}

func (e *DuplicateTableError) Error() string {
	return fmt.Sprintf("table %q already exists", e.Name)
}

// NullColumnTypeError is returned by Create when a column declares the
// Null type, which is not a valid declared column type.
type NullColumnTypeError struct {
	Table, Column string
}

func (e *NullColumnTypeError) Error() string {
	return fmt.Sprintf("column %q of table %q declares the Null type, which is not allowed", e.Column, e.Table)
}

// Catalog is the directory of table schemas, persisted in the same
// key space as row data.
type Catalog struct {
	store kvstore.Store
}

// New wraps a KV store handle with catalog operations. The handle is
// shared with the executor; Catalog never owns write sequencing beyond
// its own create/drop calls.
func New(store kvstore.Store) *Catalog {
	return &Catalog{store: store}
}

// Create writes a new catalog entry. It fails if a table by this name
// already exists, or if any column declares the Null type.
func (c *Catalog) Create(name string, columns []Column) error {
	existing, err := c.Get(name)
	if err != nil {
		return err
	}
	if existing != nil {
		return &DuplicateTableError{Name: name}
	}
	for _, col := range columns {
		if col.Type == value.Null {
			return &NullColumnTypeError{Table: name, Column: col.Name}
		}
	}

	e := entry{Name: name, Columns: make([]entryColumn, len(columns))}
	for i, col := range columns {
		e.Columns[i] = entryColumn{Name: col.Name, Type: col.Type.String()}
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode catalog entry for %q: %w", name, err)
	}
	if err := c.store.Set(keyspace.CatalogKey(name), raw); err != nil {
		return fmt.Errorf("write catalog entry for %q: %w", name, err)
	}
	return nil
}

// Get returns the schema for name, or nil if no such table exists.
func (c *Catalog) Get(name string) (*TableSchema, error) {
	raw, ok, err := c.store.Get(keyspace.CatalogKey(name))
	if err != nil {
		return nil, fmt.Errorf("read catalog entry for %q: %w", name, err)
	}
	if !ok {
		return nil, nil
	}
	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("decode catalog entry for %q: %w", name, err)
	}
	schema := &TableSchema{Name: e.Name, Columns: make([]Column, len(e.Columns))}
	for i, ec := range e.Columns {
		schema.Columns[i] = Column{Name: ec.Name, Type: value.ParseTag(ec.Type)}
	}
	return schema, nil
}

// List returns every table name in the catalog, in byte-lexicographic
// scan order. Scan order already matches name order here since every
// catalog key is the constant prefix plus the table name.
func (c *Catalog) List() ([]string, error) {
	pairs, err := c.store.ScanPrefix(keyspace.CatalogPrefix())
	if err != nil {
		return nil, fmt.Errorf("scan catalog: %w", err)
	}
	names := make([]string, 0, len(pairs))
	for _, kv := range pairs {
		var e entry
		if err := json.Unmarshal(kv.Value, &e); err != nil {
			// A single unreadable catalog entry does not abort the
			// listing; it is simply omitted.
			continue
		}
		names = append(names, e.Name)
	}
	return names, nil
}

// Drop removes the catalog entry for name unconditionally. It never
// fails when the table does not exist.
func (c *Catalog) Drop(name string) error {
	if err := c.store.Delete(keyspace.CatalogKey(name)); err != nil {
		return fmt.Errorf("drop catalog entry for %q: %w", name, err)
	}
	return nil
}
