package migrations

import (
	"context"
	"strings"
)

// indexBuilder implements the Index interface
type indexBuilder struct {
	options IndexOptions
}

// NewIndex starts an empty option bag
func NewIndex() Index {
	return &indexBuilder{}
}

// Basic properties

// Name sets the index name
func (ib *indexBuilder) Name(name string) Index {
	ib.options.Name = String(name)
	return ib
}

// Index types

// Unique marks the index as unique
func (ib *indexBuilder) Unique() Index {
	ib.options.Unique = Bool(true)
	return ib
}

// NotUnique records an explicit non-unique index. This differs from never
// calling Unique when matching against the catalog.
func (ib *indexBuilder) NotUnique() Index {
	ib.options.Unique = Bool(false)
	return ib
}

// Conditions (partial indexes)

// Where adds a condition for partial indexes
func (ib *indexBuilder) Where(condition string) Index {
	ib.options.Where = String(condition)
	return ib
}

// With stores a dialect specific extension
func (ib *indexBuilder) With(key string, value interface{}) Index {
	if ib.options.Extra == nil {
		ib.options.Extra = make(map[string]interface{})
	}
	ib.options.Extra[key] = value
	return ib
}

// GetOptions returns the option bag
func (ib *indexBuilder) GetOptions() IndexOptions {
	return ib.options
}

// BuildIndexSpec resolves the name, kind, quoted columns and predicate clause
// of an index and validates the name against the dialect limit and the
// indexes already on the table. Columns keep their order. No SQL is executed;
// the only catalog access is the name existence check.
func BuildIndexSpec(ctx context.Context, gen SQLGenerator, catalog Catalog, tableName string, columns []string, options Options) (IndexSpec, error) {
	spec := IndexSpec{
		Columns: columns,
	}

	switch opts := options.(type) {
	case LegacyKind:
		spec.Name = IndexName(tableName, columns)
		spec.Kind = string(opts)
	case IndexOptions:
		spec.Name = resolveIndexName(tableName, columns, opts)
		if opts.IsUnique() {
			spec.Kind = IndexKindUnique
		}
		if gen.SupportsFeature(FeaturePartialIndexes) && opts.HasWhere() && *opts.Where != "" {
			spec.WhereClause = " WHERE " + *opts.Where
		}
	case nil:
		spec.Name = IndexName(tableName, columns)
	}

	if limit := gen.IndexNameLengthLimit(); len(spec.Name) > limit {
		return IndexSpec{}, newNameTooLongError(tableName, spec.Name, limit)
	}

	exists, err := catalog.IndexNameExists(ctx, tableName, spec.Name)
	if err != nil {
		return IndexSpec{}, err
	}
	if exists {
		return IndexSpec{}, newDuplicateIndexNameError(tableName, spec.Name)
	}

	quoted := make([]string, len(columns))
	for i, column := range columns {
		quoted[i] = gen.QuoteIdentifier(column)
	}
	spec.QuotedColumns = strings.Join(quoted, ", ")

	return spec, nil
}

// Ensure indexBuilder implements Index
var _ Index = (*indexBuilder)(nil)
