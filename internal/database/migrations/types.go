package migrations

import (
	"fmt"
	"strings"
)

// Index kinds emitted between CREATE and INDEX
const (
	IndexKindPlain  = ""
	IndexKindUnique = "UNIQUE"
)

// Options is the options argument of AddIndex. It is either an IndexOptions
// bag or a LegacyKind literal.
type Options interface {
	indexOptions()
}

// IndexOptions holds optional index settings. A nil field is absent, which
// is not the same as false or empty: IndexExists only constrains on present
// fields.
//
// Where is emitted verbatim after WHERE. It is never parsed or escaped, so
// callers must only pass trusted predicate SQL.
type IndexOptions struct {
	Name   *string
	Unique *bool
	Where  *string

	// Extra carries dialect specific settings. They are not interpreted here.
	Extra map[string]interface{}
}

func (IndexOptions) indexOptions() {}

// LegacyKind is the old calling convention where the whole options argument
// is the index kind literal, e.g. "UNIQUE". Name, uniqueness and predicate
// handling is skipped.
type LegacyKind string

func (LegacyKind) indexOptions() {}

// String returns a pointer to s for use in IndexOptions
func String(s string) *string {
	return &s
}

// Bool returns a pointer to b for use in IndexOptions
func Bool(b bool) *bool {
	return &b
}

// HasName reports whether an explicit name was supplied
func (o IndexOptions) HasName() bool {
	return o.Name != nil
}

// HasUnique reports whether uniqueness was supplied
func (o IndexOptions) HasUnique() bool {
	return o.Unique != nil
}

// HasWhere reports whether a predicate was supplied
func (o IndexOptions) HasWhere() bool {
	return o.Where != nil
}

// IsUnique reports whether the unique option is present and true
func (o IndexOptions) IsUnique() bool {
	return o.Unique != nil && *o.Unique
}

// IndexSpec is a fully resolved index ready for SQL emission
type IndexSpec struct {
	Name          string
	Kind          string
	Columns       []string
	QuotedColumns string
	WhereClause   string
}

// IsPartial reports whether the spec carries a predicate clause
func (s IndexSpec) IsPartial() bool {
	return s.WhereClause != ""
}

// CatalogIndex is an index as reported by the database catalog
type CatalogIndex struct {
	Name    string
	Columns []string
	Unique  bool
	Where   string // empty when the index has no predicate
}

// IsPartial reports whether the index has a predicate
func (ci CatalogIndex) IsPartial() bool {
	return ci.Where != ""
}

func (ci CatalogIndex) String() string {
	s := fmt.Sprintf("%s (%s)", ci.Name, strings.Join(ci.Columns, ", "))
	if ci.Unique {
		s = "unique " + s
	}
	if ci.Where != "" {
		s += " where " + ci.Where
	}
	return s
}

// CatalogIndexes is the index listing of one table
type CatalogIndexes []CatalogIndex

// FindByName returns the index with the given name
func (idxs CatalogIndexes) FindByName(name string) (CatalogIndex, bool) {
	for _, idx := range idxs {
		if idx.Name == name {
			return idx, true
		}
	}
	return CatalogIndex{}, false
}
