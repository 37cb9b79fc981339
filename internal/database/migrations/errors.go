package migrations

import (
	"errors"
	"fmt"
)

// ValidationKind identifies why an index definition was rejected
type ValidationKind int

const (
	// NameTooLong means the index name exceeds the dialect identifier limit
	NameTooLong ValidationKind = iota + 1
	// DuplicateIndexName means the table already has an index with that name
	DuplicateIndexName
)

var (
	ErrNameTooLong        = errors.New("index name too long")
	ErrDuplicateIndexName = errors.New("duplicate index name")
	ErrIndexNotFound      = errors.New("index not found")
)

// ValidationError is returned before any SQL is executed when an index
// definition cannot be created. It is not retryable.
type ValidationError struct {
	Kind  ValidationKind
	Table string
	Name  string
	Limit int
}

func (ve *ValidationError) Error() string {
	switch ve.Kind {
	case NameTooLong:
		return fmt.Sprintf("Index name '%s' on table '%s' is too long; the limit is %d characters", ve.Name, ve.Table, ve.Limit)
	case DuplicateIndexName:
		return fmt.Sprintf("Index name '%s' on table '%s' already exists", ve.Name, ve.Table)
	default:
		return fmt.Sprintf("invalid index '%s' on table '%s'", ve.Name, ve.Table)
	}
}

// Is lets errors.Is match a ValidationError against the kind sentinels
func (ve *ValidationError) Is(target error) bool {
	switch target {
	case ErrNameTooLong:
		return ve.Kind == NameTooLong
	case ErrDuplicateIndexName:
		return ve.Kind == DuplicateIndexName
	}
	return false
}

func newNameTooLongError(table, name string, limit int) *ValidationError {
	return &ValidationError{Kind: NameTooLong, Table: table, Name: name, Limit: limit}
}

func newDuplicateIndexNameError(table, name string) *ValidationError {
	return &ValidationError{Kind: DuplicateIndexName, Table: table, Name: name}
}

// IndexNotFoundError is returned by RemoveIndex when no index matches
type IndexNotFoundError struct {
	Table string
	Name  string
}

func (e *IndexNotFoundError) Error() string {
	return fmt.Sprintf("Index name '%s' on table '%s' does not exist", e.Name, e.Table)
}

func (e *IndexNotFoundError) Unwrap() error {
	return ErrIndexNotFound
}
