// Package onyx is the public entry point for defining and checking indexes.
package onyx

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/onyx-go/schema/internal/database"
	"github.com/onyx-go/schema/internal/database/migrations"
	"github.com/onyx-go/schema/internal/logging"
)

// SchemaBuilder creates, checks and drops indexes on a live connection
type SchemaBuilder = migrations.SchemaBuilder

// SchemaConfig holds optional collaborators for a schema builder
type SchemaConfig = migrations.SchemaConfig

// Options is either an IndexOptions bag or a LegacyKind literal
type Options = migrations.Options

// IndexOptions holds optional index settings; nil fields are absent
type IndexOptions = migrations.IndexOptions

// LegacyKind is a bare index kind such as "UNIQUE"
type LegacyKind = migrations.LegacyKind

// IndexSpec is a resolved index definition
type IndexSpec = migrations.IndexSpec

// CatalogIndex describes an index read from the database catalog
type CatalogIndex = migrations.CatalogIndex

// Catalog reads the indexes a database currently has
type Catalog = migrations.Catalog

// SQLGenerator renders dialect specific statements
type SQLGenerator = migrations.SQLGenerator

// ValidationError is returned when an index definition is rejected
type ValidationError = migrations.ValidationError

// DB is a pooled database connection
type DB = database.DB

// DatabaseConfig holds connection and pool settings
type DatabaseConfig = database.Config

// Logger is the structured logger accepted by SchemaConfig
type Logger = logging.Logger

var (
	ErrNameTooLong        = migrations.ErrNameTooLong
	ErrDuplicateIndexName = migrations.ErrDuplicateIndexName
	ErrIndexNotFound      = migrations.ErrIndexNotFound
)

// Open connects to a database with the pool settings of config
func Open(ctx context.Context, config DatabaseConfig) (*DB, error) {
	return database.Open(ctx, config)
}

// NewSchemaBuilder creates a schema builder on an existing connection
func NewSchemaBuilder(db *sqlx.DB, driver string, config *SchemaConfig) SchemaBuilder {
	return migrations.NewSchemaBuilder(db, driver, config)
}

// NewIndex starts a fluent option builder
func NewIndex() migrations.Index {
	return migrations.NewIndex()
}

// IndexName returns the conventional name index_<table>_on_<columns>
func IndexName(tableName string, columns []string) string {
	return migrations.IndexName(tableName, columns)
}

// BuildIndexSpec validates and resolves an index definition without executing it
func BuildIndexSpec(ctx context.Context, gen SQLGenerator, catalog Catalog, tableName string, columns []string, options Options) (IndexSpec, error) {
	return migrations.BuildIndexSpec(ctx, gen, catalog, tableName, columns, options)
}

// IndexExists reports whether the catalog has an index equivalent to the options
func IndexExists(ctx context.Context, catalog Catalog, tableName string, columns []string, options IndexOptions) (bool, error) {
	return migrations.IndexExists(ctx, catalog, tableName, columns, options)
}

// NewSQLGenerator returns the dialect for a database/sql driver name
func NewSQLGenerator(driver string) SQLGenerator {
	return migrations.NewSQLGenerator(driver)
}

// NewCatalog reads indexes through db using the queries of gen
func NewCatalog(db *sqlx.DB, gen SQLGenerator) Catalog {
	return migrations.NewCatalog(db, gen)
}

// String returns a pointer to s for use in IndexOptions
func String(s string) *string {
	return migrations.String(s)
}

// Bool returns a pointer to b for use in IndexOptions
func Bool(b bool) *bool {
	return migrations.Bool(b)
}
