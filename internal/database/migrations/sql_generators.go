package migrations

import (
	"fmt"
	"regexp"
	"strings"
)

// Maximum identifier lengths per dialect
const (
	MySQLIndexNameLengthLimit      = 64
	PostgreSQLIndexNameLengthLimit = 63
	SQLiteIndexNameLengthLimit     = 64
)

// NewMySQLGenerator creates a new MySQL SQL generator
func NewMySQLGenerator() SQLGenerator {
	return &sqlGenerator{
		driver:    "mysql",
		quote:     "`",
		nameLimit: MySQLIndexNameLengthLimit,
		features: map[string]bool{
			FeatureDropIndexes:   true,
			FeatureRenameIndexes: true,
		},
		indexExistsQuery: `SELECT COUNT(*) FROM information_schema.statistics
			WHERE table_schema = DATABASE() AND table_name = ? AND index_name = ?`,
		indexListingQuery: `SELECT index_name AS name,
			MIN(non_unique) = 0 AS is_unique,
			GROUP_CONCAT(column_name ORDER BY seq_in_index SEPARATOR ',') AS columns,
			'' AS predicate
			FROM information_schema.statistics
			WHERE table_schema = DATABASE() AND table_name = ? AND index_name <> 'PRIMARY'
			GROUP BY index_name
			ORDER BY index_name`,
	}
}

// NewPostgreSQLGenerator creates a new PostgreSQL SQL generator
func NewPostgreSQLGenerator() SQLGenerator {
	return &sqlGenerator{
		driver:    "postgres",
		quote:     `"`,
		nameLimit: PostgreSQLIndexNameLengthLimit,
		features: map[string]bool{
			FeaturePartialIndexes: true,
			FeatureDropIndexes:    true,
			FeatureRenameIndexes:  true,
		},
		indexExistsQuery: `SELECT COUNT(*) FROM pg_class t
			JOIN pg_index d ON t.oid = d.indrelid
			JOIN pg_class i ON d.indexrelid = i.oid
			JOIN pg_namespace n ON n.oid = t.relnamespace
			WHERE i.relkind = 'i' AND t.relname = ? AND i.relname = ?
			AND n.nspname = ANY (current_schemas(false))`,
		indexListingQuery: `SELECT i.relname AS name,
			d.indisunique AS is_unique,
			array_to_string(ARRAY(
				SELECT pg_get_indexdef(d.indexrelid, k + 1, true)
				FROM generate_subscripts(d.indkey, 1) AS k
				ORDER BY k
			), ',') AS columns,
			COALESCE(pg_get_expr(d.indpred, d.indrelid, true), '') AS predicate
			FROM pg_class t
			JOIN pg_index d ON t.oid = d.indrelid
			JOIN pg_class i ON d.indexrelid = i.oid
			JOIN pg_namespace n ON n.oid = t.relnamespace
			WHERE i.relkind = 'i' AND NOT d.indisprimary AND t.relname = ?
			AND n.nspname = ANY (current_schemas(false))
			ORDER BY i.relname`,
	}
}

// NewSQLiteGenerator creates a new SQLite SQL generator
func NewSQLiteGenerator() SQLGenerator {
	return &sqlGenerator{
		driver:    "sqlite3",
		quote:     `"`,
		nameLimit: SQLiteIndexNameLengthLimit,
		features: map[string]bool{
			FeaturePartialIndexes: true,
			FeatureDropIndexes:    true,
		},
		indexExistsQuery: `SELECT COUNT(*) FROM sqlite_master
			WHERE type = 'index' AND tbl_name = ? AND name = ?`,
		// SQLite keeps no parsed predicate; the stored DDL is returned and
		// ParseIndexPredicate extracts the WHERE part.
		indexListingQuery: `SELECT il.name AS name,
			il."unique" AS is_unique,
			COALESCE((SELECT group_concat(ii.name, ',') FROM pragma_index_info(il.name) AS ii), '') AS columns,
			COALESCE(m.sql, '') AS predicate
			FROM pragma_index_list(?) AS il
			LEFT JOIN sqlite_master AS m ON m.type = 'index' AND m.name = il.name
			WHERE il.origin <> 'pk'
			ORDER BY il.name`,
		parsePredicate: sqliteIndexPredicate,
	}
}

// NewSQLGenerator returns the generator for a database/sql driver name
func NewSQLGenerator(driver string) SQLGenerator {
	switch driver {
	case "mysql":
		return NewMySQLGenerator()
	case "postgres", "postgresql":
		return NewPostgreSQLGenerator()
	case "sqlite3", "sqlite":
		return NewSQLiteGenerator()
	default:
		return NewMySQLGenerator() // Default fallback
	}
}

// sqlGenerator implements SQLGenerator for one dialect
type sqlGenerator struct {
	driver            string
	quote             string
	nameLimit         int
	features          map[string]bool
	indexExistsQuery  string
	indexListingQuery string
	parsePredicate    func(string) string
}

// Identifier quoting

func (g *sqlGenerator) QuoteIdentifier(name string) string {
	return g.quote + strings.ReplaceAll(name, g.quote, g.quote+g.quote) + g.quote
}

func (g *sqlGenerator) QuoteTableName(name string) string {
	parts := strings.Split(name, ".")
	for i, part := range parts {
		parts[i] = g.QuoteIdentifier(part)
	}
	return strings.Join(parts, ".")
}

// Index operations

func (g *sqlGenerator) GenerateCreateIndex(tableName string, spec IndexSpec) string {
	var sb strings.Builder
	sb.WriteString("CREATE ")
	if spec.Kind != "" {
		sb.WriteString(spec.Kind)
		sb.WriteString(" ")
	}
	fmt.Fprintf(&sb, "INDEX %s ON %s (%s)", g.QuoteIdentifier(spec.Name), g.QuoteTableName(tableName), spec.QuotedColumns)
	sb.WriteString(spec.WhereClause)
	return sb.String()
}

func (g *sqlGenerator) GenerateDropIndex(tableName string, indexName string) string {
	switch g.driver {
	case "mysql":
		return fmt.Sprintf("DROP INDEX %s ON %s", g.QuoteIdentifier(indexName), g.QuoteTableName(tableName))
	default:
		// Indexes live in the schema of their table
		if i := strings.LastIndex(tableName, "."); i >= 0 {
			return fmt.Sprintf("DROP INDEX %s.%s", g.QuoteTableName(tableName[:i]), g.QuoteIdentifier(indexName))
		}
		return fmt.Sprintf("DROP INDEX %s", g.QuoteIdentifier(indexName))
	}
}

// Introspection queries

func (g *sqlGenerator) GetIndexExistsQuery() string {
	return g.indexExistsQuery
}

func (g *sqlGenerator) GetIndexListingQuery() string {
	return g.indexListingQuery
}

func (g *sqlGenerator) ParseIndexPredicate(raw string) string {
	if g.parsePredicate != nil {
		return g.parsePredicate(raw)
	}
	return raw
}

// Limits and capabilities

func (g *sqlGenerator) IndexNameLengthLimit() int {
	return g.nameLimit
}

func (g *sqlGenerator) SupportsFeature(feature string) bool {
	return g.features[feature]
}

func (g *sqlGenerator) DriverName() string {
	return g.driver
}

var sqliteWhereRe = regexp.MustCompile(`(?is)\)\s*WHERE\s+(.+)$`)

// sqliteIndexPredicate extracts the predicate from a stored CREATE INDEX statement
func sqliteIndexPredicate(ddl string) string {
	matches := sqliteWhereRe.FindStringSubmatch(ddl)
	if len(matches) < 2 {
		return ""
	}
	return strings.TrimSpace(matches[1])
}

// Ensure sqlGenerator implements SQLGenerator
var _ SQLGenerator = (*sqlGenerator)(nil)
