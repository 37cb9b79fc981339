package migrations

import "context"

// indexComparator checks one expected value against a catalog index
type indexComparator func(CatalogIndex) bool

// optionComparator pairs an option key with its presence test and comparison
type optionComparator struct {
	key     string
	present func(IndexOptions) bool
	matches func(IndexOptions, CatalogIndex) bool
}

// optionComparators is the fixed set of option keys IndexExists can constrain on
var optionComparators = []optionComparator{
	{
		key:     "unique",
		present: IndexOptions.HasUnique,
		matches: func(o IndexOptions, ci CatalogIndex) bool { return ci.Unique == *o.Unique },
	},
	{
		key:     "where",
		present: IndexOptions.HasWhere,
		matches: func(o IndexOptions, ci CatalogIndex) bool { return ci.Where == *o.Where },
	},
}

// buildComparators always compares the name, then adds one comparator per
// option present in the bag. Absent options impose no constraint.
func buildComparators(indexName string, options IndexOptions) []indexComparator {
	comparators := []indexComparator{
		func(ci CatalogIndex) bool { return ci.Name == indexName },
	}

	for _, oc := range optionComparators {
		if !oc.present(options) {
			continue
		}
		matches := oc.matches
		comparators = append(comparators, func(ci CatalogIndex) bool { return matches(options, ci) })
	}

	return comparators
}

// matchesAll reports whether every comparator accepts the index
func matchesAll(ci CatalogIndex, comparators []indexComparator) bool {
	for _, comparator := range comparators {
		if !comparator(ci) {
			return false
		}
	}
	return true
}

// IndexExists reports whether the table has an index with the target name
// whose uniqueness and predicate equal the supplied options. Only options
// that are present are compared, and the predicate is compared verbatim, so
// a query with fewer options than the index has can still match.
func IndexExists(ctx context.Context, catalog Catalog, tableName string, columns []string, options IndexOptions) (bool, error) {
	comparators := buildComparators(resolveIndexName(tableName, columns, options), options)

	indexes, err := catalog.ListIndexes(ctx, tableName)
	if err != nil {
		return false, err
	}

	for _, ci := range indexes {
		if matchesAll(ci, comparators) {
			return true, nil
		}
	}

	return false, nil
}
