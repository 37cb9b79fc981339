package migrations

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/onyx-go/schema/internal/logging"
)

func newBufferedLogger() (logging.Logger, *bytes.Buffer) {
	buffer := &bytes.Buffer{}
	driver := logging.NewConsoleDriver(false)
	driver.SetWriter(buffer)

	manager := logging.NewManager()
	manager.AddChannel("schema", driver, logging.DebugLevel)
	return manager.Channel("schema"), buffer
}

func newSQLiteBuilder(t *testing.T) (*schemaBuilder, *bytes.Buffer) {
	t.Helper()

	logger, buffer := newBufferedLogger()
	sb := NewSchemaBuilder(setupTestDB(t), "sqlite3", &SchemaConfig{Logger: logger})
	return sb.(*schemaBuilder), buffer
}

func TestSchemaBuilderAddPartialUniqueIndex(t *testing.T) {
	ctx := context.Background()
	sb, buffer := newSQLiteBuilder(t)

	columns := []string{"branch_id", "party_id"}
	err := sb.AddIndex(ctx, "accounts", columns, NewIndex().Unique().Where("active").GetOptions())
	if err != nil {
		t.Fatalf("AddIndex failed: %v", err)
	}

	indexes, err := sb.Indexes(ctx, "accounts")
	if err != nil {
		t.Fatalf("Indexes failed: %v", err)
	}

	expected := []CatalogIndex{{
		Name:    "index_accounts_on_branch_id_and_party_id",
		Columns: []string{"branch_id", "party_id"},
		Unique:  true,
		Where:   "active",
	}}
	if diff := cmp.Diff(expected, indexes); diff != "" {
		t.Errorf("Catalog mismatch (-want +got):\n%s", diff)
	}

	output := buffer.String()
	if !strings.Contains(output, "table=accounts") || !strings.Contains(output, "WHERE active") {
		t.Errorf("Expected executed statement to be logged, got: %s", output)
	}

	if got := testutil.ToFloat64(sb.metrics.IndexesCreated); got != 1 {
		t.Errorf("Expected 1 created index, got %v", got)
	}
}

func TestSchemaBuilderIndexExists(t *testing.T) {
	ctx := context.Background()
	sb, _ := newSQLiteBuilder(t)

	columns := []string{"branch_id"}
	if err := sb.AddIndex(ctx, "accounts", columns, IndexOptions{Unique: Bool(true), Where: String("active")}); err != nil {
		t.Fatalf("AddIndex failed: %v", err)
	}

	tests := []struct {
		name     string
		options  IndexOptions
		expected bool
	}{
		{"no options", IndexOptions{}, true},
		{"predicate", IndexOptions{Where: String("active")}, true},
		{"unique", IndexOptions{Unique: Bool(true)}, true},
		{"not unique", IndexOptions{Unique: Bool(false)}, false},
		{"other predicate", IndexOptions{Where: String("NOT active")}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			exists, err := sb.IndexExists(ctx, "accounts", columns, test.options)
			if err != nil {
				t.Fatalf("IndexExists failed: %v", err)
			}
			if exists != test.expected {
				t.Errorf("Expected %v, got %v", test.expected, exists)
			}
		})
	}

	exists, err := sb.IndexExists(ctx, "accounts", []string{"party_id"}, IndexOptions{})
	if err != nil || exists {
		t.Errorf("Expected no index on party_id, got %v (%v)", exists, err)
	}

	if got := testutil.ToFloat64(sb.metrics.ExistenceChecks); got != float64(len(tests)+1) {
		t.Errorf("Expected %d existence checks, got %v", len(tests)+1, got)
	}
}

func TestSchemaBuilderRejectsDuplicateName(t *testing.T) {
	ctx := context.Background()
	sb, buffer := newSQLiteBuilder(t)

	if err := sb.AddIndex(ctx, "accounts", []string{"party_id"}, IndexOptions{}); err != nil {
		t.Fatalf("AddIndex failed: %v", err)
	}

	err := sb.AddIndex(ctx, "accounts", []string{"party_id"}, IndexOptions{Unique: Bool(true)})
	if !errors.Is(err, ErrDuplicateIndexName) {
		t.Fatalf("Expected duplicate name error, got %v", err)
	}

	if got := testutil.ToFloat64(sb.metrics.IndexesRejected.WithLabelValues("duplicate_name")); got != 1 {
		t.Errorf("Expected 1 duplicate rejection, got %v", got)
	}
	if got := testutil.ToFloat64(sb.metrics.StatementsExecuted); got != 1 {
		t.Errorf("A rejected definition must not reach the database, got %v statements", got)
	}
	if !strings.Contains(buffer.String(), "Index definition rejected") {
		t.Errorf("Expected rejection to be logged, got: %s", buffer.String())
	}
}

func TestSchemaBuilderRejectsLongName(t *testing.T) {
	ctx := context.Background()
	sb, _ := newSQLiteBuilder(t)

	err := sb.AddIndex(ctx, "accounts", []string{"branch_id"}, IndexOptions{Name: String(strings.Repeat("x", 65))})
	if !errors.Is(err, ErrNameTooLong) {
		t.Fatalf("Expected name too long error, got %v", err)
	}

	if got := testutil.ToFloat64(sb.metrics.IndexesRejected.WithLabelValues("name_too_long")); got != 1 {
		t.Errorf("Expected 1 length rejection, got %v", got)
	}
}

func TestSchemaBuilderRemoveIndex(t *testing.T) {
	ctx := context.Background()
	sb, _ := newSQLiteBuilder(t)

	if err := sb.AddIndex(ctx, "accounts", []string{"branch_id"}, IndexOptions{Name: String("by_branch")}); err != nil {
		t.Fatalf("AddIndex failed: %v", err)
	}

	has, err := sb.HasIndex(ctx, "accounts", "by_branch")
	if err != nil || !has {
		t.Fatalf("Expected by_branch to exist, got %v (%v)", has, err)
	}

	if err := sb.RemoveIndex(ctx, "accounts", []string{"branch_id"}, IndexOptions{Name: String("by_branch")}); err != nil {
		t.Fatalf("RemoveIndex failed: %v", err)
	}

	has, err = sb.HasIndex(ctx, "accounts", "by_branch")
	if err != nil || has {
		t.Errorf("Expected by_branch to be gone, got %v (%v)", has, err)
	}

	err = sb.RemoveIndex(ctx, "accounts", []string{"branch_id"}, IndexOptions{})
	if !errors.Is(err, ErrIndexNotFound) {
		t.Errorf("Expected not found error, got %v", err)
	}
	var notFound *IndexNotFoundError
	if !errors.As(err, &notFound) || notFound.Name != "index_accounts_on_branch_id" {
		t.Errorf("Expected derived name in error, got %v", err)
	}

	if got := testutil.ToFloat64(sb.metrics.IndexesRemoved); got != 1 {
		t.Errorf("Expected 1 removed index, got %v", got)
	}
}

func TestSchemaBuilderDatabaseErrorPassesThrough(t *testing.T) {
	ctx := context.Background()
	sb, buffer := newSQLiteBuilder(t)

	// The column does not exist, so the name checks pass and the database refuses
	err := sb.AddIndex(ctx, "accounts", []string{"missing"}, IndexOptions{})
	if err == nil {
		t.Fatal("Expected database error")
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		t.Errorf("Database errors must not be wrapped as validation errors: %v", err)
	}

	if got := testutil.ToFloat64(sb.metrics.StatementErrors); got != 1 {
		t.Errorf("Expected 1 statement error, got %v", got)
	}
	if got := testutil.ToFloat64(sb.metrics.IndexesCreated); got != 0 {
		t.Errorf("Expected no created index, got %v", got)
	}
	if !strings.Contains(buffer.String(), "Index statement failed") {
		t.Errorf("Expected failure to be logged, got: %s", buffer.String())
	}
}

func TestSchemaBuilderLegacyKind(t *testing.T) {
	ctx := context.Background()
	sb, _ := newSQLiteBuilder(t)

	if err := sb.AddIndex(ctx, "accounts", []string{"party_id"}, LegacyKind("UNIQUE")); err != nil {
		t.Fatalf("AddIndex failed: %v", err)
	}

	exists, err := sb.IndexExists(ctx, "accounts", []string{"party_id"}, IndexOptions{Unique: Bool(true), Where: String("")})
	if err != nil || !exists {
		t.Errorf("Expected unique full index, got %v (%v)", exists, err)
	}
}

func TestSchemaBuilderWithFakeCatalog(t *testing.T) {
	ctx := context.Background()
	catalog := suppliersCatalog()

	sb := NewSchemaBuilder(nil, "postgres", &SchemaConfig{Catalog: catalog})

	if sb.GetDriverName() != "postgres" || sb.GetSQLGenerator().DriverName() != "postgres" {
		t.Errorf("Unexpected driver: %s", sb.GetDriverName())
	}

	exists, err := sb.IndexExists(ctx, "suppliers", []string{"company_id"}, IndexOptions{Where: String("active")})
	if err != nil || !exists {
		t.Errorf("Expected index to exist, got %v (%v)", exists, err)
	}

	err = sb.AddIndex(ctx, "suppliers", []string{"company_id"}, IndexOptions{})
	if !errors.Is(err, ErrDuplicateIndexName) {
		t.Errorf("Expected duplicate error before any statement, got %v", err)
	}

	if len(sb.Metrics()) != 6 {
		t.Errorf("Expected 6 collectors, got %d", len(sb.Metrics()))
	}
}

func TestSchemaBuilderPredicateDroppedWithoutPartialSupport(t *testing.T) {
	ctx := context.Background()
	logger, buffer := newBufferedLogger()

	// SQLite accepts backtick quoting, so the MySQL dialect can run against it
	sb := NewSchemaBuilder(setupTestDB(t), "sqlite3", &SchemaConfig{
		Logger:       logger,
		SQLGenerator: NewMySQLGenerator(),
		Catalog:      newFakeCatalog(nil),
	})

	if err := sb.AddIndex(ctx, "accounts", []string{"branch_id"}, IndexOptions{Where: String("active")}); err != nil {
		t.Fatalf("AddIndex failed: %v", err)
	}

	output := buffer.String()
	if !strings.Contains(output, "Predicate dropped") {
		t.Errorf("Expected dropped predicate warning, got: %s", output)
	}
	if strings.Contains(output, "WHERE active") {
		t.Errorf("Statement must not carry the predicate, got: %s", output)
	}
}
