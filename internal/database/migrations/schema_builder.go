package migrations

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/onyx-go/schema/internal/logging"
)

// SchemaConfig holds optional collaborators for a schema builder
type SchemaConfig struct {
	// Logger receives emitted statements and rejections. Defaults to a null logger.
	Logger logging.Logger

	// SQLGenerator overrides the generator chosen from the driver name
	SQLGenerator SQLGenerator

	// Catalog overrides the live catalog read through the connection
	Catalog Catalog
}

// schemaBuilder implements the SchemaBuilder interface
type schemaBuilder struct {
	db      *sqlx.DB
	driver  string
	sqlGen  SQLGenerator
	catalog Catalog
	logger  logging.Logger
	metrics metrics
}

// NewSchemaBuilder creates a new schema builder instance
func NewSchemaBuilder(db *sqlx.DB, driver string, config *SchemaConfig) SchemaBuilder {
	sb := &schemaBuilder{
		db:      db,
		driver:  driver,
		logger:  logging.NewNullLogger(),
		metrics: newMetrics(),
	}

	if config != nil {
		sb.sqlGen = config.SQLGenerator
		sb.catalog = config.Catalog
		if config.Logger != nil {
			sb.logger = config.Logger
		}
	}
	if sb.sqlGen == nil {
		sb.sqlGen = NewSQLGenerator(driver)
	}
	if sb.catalog == nil {
		sb.catalog = NewCatalog(db, sb.sqlGen)
	}

	return sb
}

// AddIndex builds the index definition and executes its CREATE INDEX
// statement. Validation failures are returned before anything is executed.
// Nothing guards against another session creating the same index between
// the name check and the statement; the database arbitrates that race.
func (sb *schemaBuilder) AddIndex(ctx context.Context, tableName string, columns []string, options Options) error {
	spec, err := BuildIndexSpec(ctx, sb.sqlGen, sb.catalog, tableName, columns, options)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			sb.metrics.IndexesRejected.WithLabelValues(rejectionReason(ve.Kind)).Inc()
			sb.logger.WarnContext(ctx, "Index definition rejected", map[string]interface{}{
				"table": tableName,
				"index": ve.Name,
				"error": err.Error(),
			})
		}
		return err
	}

	if opts, ok := options.(IndexOptions); ok && opts.HasWhere() && *opts.Where != "" && !spec.IsPartial() {
		sb.logger.WarnContext(ctx, "Predicate dropped, driver does not support partial indexes", map[string]interface{}{
			"table":  tableName,
			"index":  spec.Name,
			"driver": sb.sqlGen.DriverName(),
		})
	}

	if err := sb.execute(ctx, tableName, spec.Name, sb.sqlGen.GenerateCreateIndex(tableName, spec)); err != nil {
		return err
	}

	sb.metrics.IndexesCreated.Inc()
	return nil
}

// RemoveIndex drops the index named by options.Name, or the conventional
// name derived from columns.
func (sb *schemaBuilder) RemoveIndex(ctx context.Context, tableName string, columns []string, options IndexOptions) error {
	indexName := resolveIndexName(tableName, columns, options)

	exists, err := sb.catalog.IndexNameExists(ctx, tableName, indexName)
	if err != nil {
		return err
	}
	if !exists {
		return &IndexNotFoundError{Table: tableName, Name: indexName}
	}

	if err := sb.execute(ctx, tableName, indexName, sb.sqlGen.GenerateDropIndex(tableName, indexName)); err != nil {
		return err
	}

	sb.metrics.IndexesRemoved.Inc()
	return nil
}

// IndexExists checks whether an equivalent index is already on the table
func (sb *schemaBuilder) IndexExists(ctx context.Context, tableName string, columns []string, options IndexOptions) (bool, error) {
	sb.metrics.ExistenceChecks.Inc()
	return IndexExists(ctx, sb.catalog, tableName, columns, options)
}

// HasIndex checks if an index name exists on the table
func (sb *schemaBuilder) HasIndex(ctx context.Context, tableName, indexName string) (bool, error) {
	return sb.catalog.IndexNameExists(ctx, tableName, indexName)
}

// Indexes lists the indexes of a table
func (sb *schemaBuilder) Indexes(ctx context.Context, tableName string) ([]CatalogIndex, error) {
	return sb.catalog.ListIndexes(ctx, tableName)
}

// Raw executes raw SQL
func (sb *schemaBuilder) Raw(ctx context.Context, sql string, bindings ...interface{}) error {
	sb.metrics.StatementsExecuted.Inc()
	if _, err := sb.db.ExecContext(ctx, sql, bindings...); err != nil {
		sb.metrics.StatementErrors.Inc()
		return err
	}
	return nil
}

// GetDriverName returns the database driver name
func (sb *schemaBuilder) GetDriverName() string {
	return sb.driver
}

// GetConnection returns the database connection
func (sb *schemaBuilder) GetConnection() *sqlx.DB {
	return sb.db
}

// GetSQLGenerator returns the dialect generator in use
func (sb *schemaBuilder) GetSQLGenerator() SQLGenerator {
	return sb.sqlGen
}

// execute logs and runs one DDL statement. Database errors are returned as is.
func (sb *schemaBuilder) execute(ctx context.Context, tableName, indexName, statement string) error {
	sb.logger.InfoContext(ctx, "Executing index statement", map[string]interface{}{
		"table": tableName,
		"index": indexName,
		"sql":   statement,
	})

	if err := sb.Raw(ctx, statement); err != nil {
		sb.logger.ErrorContext(ctx, "Index statement failed", map[string]interface{}{
			"table": tableName,
			"index": indexName,
			"error": err.Error(),
		})
		return err
	}

	return nil
}

// Ensure schemaBuilder implements SchemaBuilder
var _ SchemaBuilder = (*schemaBuilder)(nil)
