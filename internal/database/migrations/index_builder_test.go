package migrations

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuildIndexSpecPartialUnique(t *testing.T) {
	ctx := context.Background()
	catalog := newFakeCatalog(nil)

	opts := NewIndex().Unique().Where("active").GetOptions()
	spec, err := BuildIndexSpec(ctx, NewPostgreSQLGenerator(), catalog, "accounts", []string{"branch_id", "party_id"}, opts)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := IndexSpec{
		Name:          "index_accounts_on_branch_id_and_party_id",
		Kind:          IndexKindUnique,
		Columns:       []string{"branch_id", "party_id"},
		QuotedColumns: `"branch_id", "party_id"`,
		WhereClause:   " WHERE active",
	}
	if diff := cmp.Diff(expected, spec); diff != "" {
		t.Errorf("IndexSpec mismatch (-want +got):\n%s", diff)
	}

	if catalog.existsCalls != 1 {
		t.Errorf("Expected exactly one name check, got %d", catalog.existsCalls)
	}
	if catalog.listCalls != 0 {
		t.Errorf("Building must not list indexes, got %d calls", catalog.listCalls)
	}
}

func TestBuildIndexSpecPreservesColumnOrder(t *testing.T) {
	ctx := context.Background()

	spec, err := BuildIndexSpec(ctx, NewSQLiteGenerator(), newFakeCatalog(nil), "accounts", []string{"party_id", "branch_id"}, IndexOptions{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if spec.Name != "index_accounts_on_party_id_and_branch_id" {
		t.Errorf("Unexpected name: %s", spec.Name)
	}
	if spec.QuotedColumns != `"party_id", "branch_id"` {
		t.Errorf("Unexpected column list: %s", spec.QuotedColumns)
	}
	if spec.Kind != IndexKindPlain {
		t.Errorf("Expected plain kind, got %q", spec.Kind)
	}
}

func TestBuildIndexSpecExplicitName(t *testing.T) {
	spec, err := BuildIndexSpec(context.Background(), NewMySQLGenerator(), newFakeCatalog(nil), "suppliers", []string{"company_id"},
		IndexOptions{Name: String("by_company"), Unique: Bool(false)})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if spec.Name != "by_company" {
		t.Errorf("Expected explicit name, got %s", spec.Name)
	}
	if spec.Kind != IndexKindPlain {
		t.Errorf("Unique false must give a plain index, got %q", spec.Kind)
	}
	if spec.QuotedColumns != "`company_id`" {
		t.Errorf("Unexpected column list: %s", spec.QuotedColumns)
	}
}

func TestBuildIndexSpecPredicateSupport(t *testing.T) {
	tests := []struct {
		name     string
		gen      SQLGenerator
		where    *string
		expected string
	}{
		{"postgres with predicate", NewPostgreSQLGenerator(), String("active"), " WHERE active"},
		{"sqlite with predicate", NewSQLiteGenerator(), String("deleted_at IS NULL"), " WHERE deleted_at IS NULL"},
		{"mysql ignores predicate", NewMySQLGenerator(), String("active"), ""},
		{"empty predicate", NewPostgreSQLGenerator(), String(""), ""},
		{"absent predicate", NewPostgreSQLGenerator(), nil, ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			spec, err := BuildIndexSpec(context.Background(), test.gen, newFakeCatalog(nil), "accounts", []string{"branch_id"}, IndexOptions{Where: test.where})
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if spec.WhereClause != test.expected {
				t.Errorf("Expected where clause %q, got %q", test.expected, spec.WhereClause)
			}
		})
	}
}

func TestBuildIndexSpecPredicateIsNotEscaped(t *testing.T) {
	where := "status = 'open' AND \"archived\" IS FALSE"
	spec, err := BuildIndexSpec(context.Background(), NewPostgreSQLGenerator(), newFakeCatalog(nil), "tickets", []string{"id"}, IndexOptions{Where: String(where)})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if spec.WhereClause != " WHERE "+where {
		t.Errorf("Predicate must be passed through verbatim, got %q", spec.WhereClause)
	}
}

func TestBuildIndexSpecLegacyKind(t *testing.T) {
	spec, err := BuildIndexSpec(context.Background(), NewPostgreSQLGenerator(), newFakeCatalog(nil), "suppliers", []string{"company_id"}, LegacyKind("UNIQUE"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if spec.Kind != "UNIQUE" {
		t.Errorf("Expected legacy kind literal, got %q", spec.Kind)
	}
	if spec.Name != "index_suppliers_on_company_id" {
		t.Errorf("Expected derived name, got %s", spec.Name)
	}
	if spec.WhereClause != "" {
		t.Errorf("Legacy path must not emit a predicate, got %q", spec.WhereClause)
	}
}

func TestBuildIndexSpecNilOptions(t *testing.T) {
	spec, err := BuildIndexSpec(context.Background(), NewSQLiteGenerator(), newFakeCatalog(nil), "suppliers", []string{"company_id"}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if spec.Name != "index_suppliers_on_company_id" || spec.Kind != "" || spec.WhereClause != "" {
		t.Errorf("Unexpected spec for nil options: %+v", spec)
	}
}

func TestBuildIndexSpecNameTooLong(t *testing.T) {
	gen := NewPostgreSQLGenerator()
	limit := gen.IndexNameLengthLimit()

	column := strings.Repeat("c", limit)
	options := []Options{
		IndexOptions{},
		IndexOptions{Unique: Bool(true), Where: String("active")},
		LegacyKind("UNIQUE"),
		IndexOptions{Name: String(strings.Repeat("n", limit+1))},
	}

	for i, opts := range options {
		catalog := newFakeCatalog(nil)
		_, err := BuildIndexSpec(context.Background(), gen, catalog, "accounts", []string{column}, opts)
		if !errors.Is(err, ErrNameTooLong) {
			t.Fatalf("case %d: expected ErrNameTooLong, got %v", i, err)
		}

		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("case %d: expected *ValidationError, got %T", i, err)
		}
		if ve.Table != "accounts" || ve.Limit != limit || len(ve.Name) <= limit {
			t.Errorf("case %d: unexpected error fields: %+v", i, ve)
		}
		msg := err.Error()
		if !strings.Contains(msg, ve.Name) || !strings.Contains(msg, "accounts") || !strings.Contains(msg, strconv.Itoa(limit)) {
			t.Errorf("case %d: message must name index, table and limit: %s", i, msg)
		}
		if catalog.existsCalls != 0 {
			t.Errorf("case %d: length failure must not reach the catalog", i)
		}
	}
}

func TestBuildIndexSpecNameAtLimit(t *testing.T) {
	gen := NewPostgreSQLGenerator()
	name := strings.Repeat("n", gen.IndexNameLengthLimit())

	if _, err := BuildIndexSpec(context.Background(), gen, newFakeCatalog(nil), "accounts", []string{"id"}, IndexOptions{Name: String(name)}); err != nil {
		t.Errorf("A name exactly at the limit must be accepted, got %v", err)
	}
}

func TestBuildIndexSpecDuplicateName(t *testing.T) {
	catalog := newFakeCatalog(map[string][]CatalogIndex{
		"suppliers": {{Name: "index_suppliers_on_company_id", Unique: true, Where: "active"}},
	})

	options := []Options{
		IndexOptions{},
		IndexOptions{Unique: Bool(false)},
		IndexOptions{Unique: Bool(true), Where: String("inactive")},
		LegacyKind("UNIQUE"),
	}

	for i, opts := range options {
		_, err := BuildIndexSpec(context.Background(), NewPostgreSQLGenerator(), catalog, "suppliers", []string{"company_id"}, opts)
		if !errors.Is(err, ErrDuplicateIndexName) {
			t.Fatalf("case %d: expected ErrDuplicateIndexName, got %v", i, err)
		}
		if errors.Is(err, ErrNameTooLong) {
			t.Errorf("case %d: duplicate error must not match ErrNameTooLong", i)
		}
		msg := err.Error()
		if !strings.Contains(msg, "index_suppliers_on_company_id") || !strings.Contains(msg, "suppliers") {
			t.Errorf("case %d: message must name index and table: %s", i, msg)
		}
	}

	// Same name on another table is fine
	if _, err := BuildIndexSpec(context.Background(), NewPostgreSQLGenerator(), catalog, "customers", []string{"company_id"}, IndexOptions{}); err != nil {
		t.Errorf("Unexpected error for another table: %v", err)
	}
}

func TestBuildIndexSpecCatalogError(t *testing.T) {
	catalog := newFakeCatalog(nil)
	catalog.err = errors.New("connection refused")

	_, err := BuildIndexSpec(context.Background(), NewPostgreSQLGenerator(), catalog, "accounts", []string{"id"}, IndexOptions{})
	if err != catalog.err {
		t.Errorf("Catalog errors must be returned unchanged, got %v", err)
	}
}

func TestIndexBuilderOptions(t *testing.T) {
	opts := NewIndex().Name("custom").NotUnique().Where("active").With("tablespace", "fast").GetOptions()

	if !opts.HasName() || *opts.Name != "custom" {
		t.Errorf("Expected name option, got %+v", opts.Name)
	}
	if !opts.HasUnique() || opts.IsUnique() {
		t.Error("Expected explicit non-unique option")
	}
	if !opts.HasWhere() || *opts.Where != "active" {
		t.Errorf("Expected where option, got %+v", opts.Where)
	}
	if opts.Extra["tablespace"] != "fast" {
		t.Errorf("Expected extension to be kept, got %v", opts.Extra)
	}

	empty := NewIndex().GetOptions()
	if empty.HasName() || empty.HasUnique() || empty.HasWhere() {
		t.Errorf("Fresh builder must have no options present: %+v", empty)
	}
}
