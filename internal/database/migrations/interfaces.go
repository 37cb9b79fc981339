package migrations

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
)

// SchemaBuilder provides index schema operations against a live connection
type SchemaBuilder interface {
	// Index operations
	AddIndex(ctx context.Context, tableName string, columns []string, options Options) error
	RemoveIndex(ctx context.Context, tableName string, columns []string, options IndexOptions) error

	// Information retrieval
	IndexExists(ctx context.Context, tableName string, columns []string, options IndexOptions) (bool, error)
	HasIndex(ctx context.Context, tableName, indexName string) (bool, error)
	Indexes(ctx context.Context, tableName string) ([]CatalogIndex, error)

	// Raw SQL execution
	Raw(ctx context.Context, sql string, bindings ...interface{}) error

	// Driver information
	GetDriverName() string
	GetConnection() *sqlx.DB
	GetSQLGenerator() SQLGenerator

	// Prometheus collectors of this builder
	Metrics() []prometheus.Collector
}

// Index provides fluent interface for index options
type Index interface {
	// Basic properties
	Name(name string) Index

	// Index types
	Unique() Index
	NotUnique() Index

	// Conditions (partial indexes)
	Where(condition string) Index

	// Dialect specific extensions, passed through untouched
	With(key string, value interface{}) Index

	// Get the option bag for SQL generation
	GetOptions() IndexOptions
}

// Catalog lists the indexes the database currently has. Implementations
// must read live state on every call.
type Catalog interface {
	IndexNameExists(ctx context.Context, tableName, indexName string) (bool, error)
	ListIndexes(ctx context.Context, tableName string) ([]CatalogIndex, error)
}

// SQLGenerator provides database-specific SQL generation
type SQLGenerator interface {
	// Identifier quoting
	QuoteIdentifier(name string) string
	QuoteTableName(name string) string

	// Index operations
	GenerateCreateIndex(tableName string, spec IndexSpec) string
	GenerateDropIndex(tableName string, indexName string) string

	// Introspection queries, written with ? placeholders
	GetIndexExistsQuery() string
	GetIndexListingQuery() string
	ParseIndexPredicate(raw string) string

	// Limits and capabilities
	IndexNameLengthLimit() int
	SupportsFeature(feature string) bool
	DriverName() string
}

// Common SQL generation features
const (
	FeaturePartialIndexes = "partial_indexes"
	FeatureDropIndexes    = "drop_indexes"
	FeatureRenameIndexes  = "rename_indexes"
)
