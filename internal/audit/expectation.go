package audit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/onyx-go/schema/internal/database/migrations"
)

// Expectation describes an index that must be present. Nil fields are not
// checked.
type Expectation struct {
	Table   string   `mapstructure:"table"`
	Columns []string `mapstructure:"columns"`
	Name    *string  `mapstructure:"name"`
	Unique  *bool    `mapstructure:"unique"`
	Where   *string  `mapstructure:"where"`
}

// Options returns the option bag used for the existence check
func (e Expectation) Options() migrations.IndexOptions {
	return migrations.IndexOptions{
		Name:   e.Name,
		Unique: e.Unique,
		Where:  e.Where,
	}
}

// Validate checks that the expectation names a table and columns
func (e Expectation) Validate() error {
	if e.Table == "" {
		return errors.New("audit expectation has no table")
	}
	if len(e.Columns) == 0 {
		return fmt.Errorf("audit expectation on table '%s' has no columns", e.Table)
	}
	return nil
}

func (e Expectation) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s(%s)", e.Table, strings.Join(e.Columns, ", "))
	if e.Name != nil {
		fmt.Fprintf(&sb, " name=%s", *e.Name)
	}
	if e.Unique != nil {
		fmt.Fprintf(&sb, " unique=%t", *e.Unique)
	}
	if e.Where != nil {
		fmt.Fprintf(&sb, " where=%q", *e.Where)
	}
	return sb.String()
}

// MissingIndexError reports an expectation with no matching index
type MissingIndexError struct {
	Expectation Expectation
}

func (e *MissingIndexError) Error() string {
	return fmt.Sprintf("missing index %s", e.Expectation)
}
