package migrations

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
)

// catalogRow is one row of a dialect index listing query
type catalogRow struct {
	Name      string `db:"name"`
	Unique    bool   `db:"is_unique"`
	Columns   string `db:"columns"`
	Predicate string `db:"predicate"`
}

// sqlCatalog reads indexes from the live database catalog
type sqlCatalog struct {
	db     *sqlx.DB
	sqlGen SQLGenerator
}

// NewCatalog creates a catalog reading through db with the dialect queries of sqlGen
func NewCatalog(db *sqlx.DB, sqlGen SQLGenerator) Catalog {
	return &sqlCatalog{
		db:     db,
		sqlGen: sqlGen,
	}
}

// IndexNameExists checks whether the table has an index with the given name
func (c *sqlCatalog) IndexNameExists(ctx context.Context, tableName, indexName string) (bool, error) {
	var count int
	query := c.db.Rebind(c.sqlGen.GetIndexExistsQuery())
	if err := c.db.GetContext(ctx, &count, query, tableName, indexName); err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListIndexes returns every non-primary index of the table
func (c *sqlCatalog) ListIndexes(ctx context.Context, tableName string) ([]CatalogIndex, error) {
	var rows []catalogRow
	query := c.db.Rebind(c.sqlGen.GetIndexListingQuery())
	if err := c.db.SelectContext(ctx, &rows, query, tableName); err != nil {
		return nil, err
	}

	indexes := make([]CatalogIndex, 0, len(rows))
	for _, row := range rows {
		indexes = append(indexes, CatalogIndex{
			Name:    row.Name,
			Columns: splitColumns(row.Columns),
			Unique:  row.Unique,
			Where:   c.sqlGen.ParseIndexPredicate(row.Predicate),
		})
	}

	return indexes, nil
}

func splitColumns(list string) []string {
	if list == "" {
		return nil
	}
	return strings.Split(list, ",")
}

// Ensure sqlCatalog implements Catalog
var _ Catalog = (*sqlCatalog)(nil)
