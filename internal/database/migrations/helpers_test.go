package migrations

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// fakeCatalog is an in-memory Catalog keyed by table name
type fakeCatalog struct {
	indexes     map[string][]CatalogIndex
	err         error
	existsCalls int
	listCalls   int
}

func newFakeCatalog(indexes map[string][]CatalogIndex) *fakeCatalog {
	if indexes == nil {
		indexes = make(map[string][]CatalogIndex)
	}
	return &fakeCatalog{indexes: indexes}
}

func (fc *fakeCatalog) IndexNameExists(ctx context.Context, tableName, indexName string) (bool, error) {
	fc.existsCalls++
	if fc.err != nil {
		return false, fc.err
	}
	_, ok := CatalogIndexes(fc.indexes[tableName]).FindByName(indexName)
	return ok, nil
}

func (fc *fakeCatalog) ListIndexes(ctx context.Context, tableName string) ([]CatalogIndex, error) {
	fc.listCalls++
	if fc.err != nil {
		return nil, fc.err
	}
	return fc.indexes[tableName], nil
}

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlx.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// One connection keeps every statement on the same SQLite handle
	db.SetMaxOpenConns(1)

	t.Cleanup(func() {
		db.Close()
	})

	_, err = db.Exec(`CREATE TABLE accounts (
		id INTEGER PRIMARY KEY,
		branch_id INTEGER NOT NULL,
		party_id INTEGER NOT NULL,
		active BOOLEAN NOT NULL DEFAULT 1
	)`)
	if err != nil {
		t.Fatalf("Failed to create accounts table: %v", err)
	}

	return db
}
