package migrations

import "strings"

// IndexName derives the conventional index name for a table and an ordered
// column list, e.g. index_accounts_on_branch_id_and_party_id.
func IndexName(tableName string, columns []string) string {
	return "index_" + tableName + "_on_" + strings.Join(columns, "_and_")
}

// resolveIndexName returns the explicit name when present, the derived one otherwise
func resolveIndexName(tableName string, columns []string, options IndexOptions) string {
	if options.HasName() {
		return *options.Name
	}
	return IndexName(tableName, columns)
}
