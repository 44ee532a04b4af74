package sqlmap

import (
	"errors"
	"fmt"
)

// Standard sentinel errors returned by mapper implementations.
var (
	// ErrNotFound is returned when a lookup by primary key matches no row.
	ErrNotFound = errors.New("sqlmap: record not found")

	// ErrStaleVersion is returned when a version guarded statement
	// affected no row because the stored version moved on.
	ErrStaleVersion = errors.New("sqlmap: stale record version")
)

// NotFoundError represents a primary key lookup that matched no row.
type NotFoundError struct {
	table string
	key   any
}

// Error returns the error string.
func (e *NotFoundError) Error() string {
	if e.key != nil {
		return fmt.Sprintf("sqlmap: %s not found (key=%v)", e.table, e.key)
	}
	return fmt.Sprintf("sqlmap: %s not found", e.table)
}

// Is reports whether the target error matches NotFoundError.
func (e *NotFoundError) Is(err error) bool {
	return err == ErrNotFound
}

// Table returns the table name.
func (e *NotFoundError) Table() string {
	return e.table
}

// Key returns the key that was searched for, if available.
func (e *NotFoundError) Key() any {
	return e.key
}

// NewNotFoundError returns a new NotFoundError for the given table and key.
func NewNotFoundError(table string, key any) *NotFoundError {
	return &NotFoundError{table: table, key: key}
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *NotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrNotFound)
}

// StaleVersionError reports an optimistic lock conflict on a table.
type StaleVersionError struct {
	Table   string
	Column  string
	Version any
}

// Error returns the error string.
func (e *StaleVersionError) Error() string {
	return fmt.Sprintf("sqlmap: stale %s.%s (version=%v)", e.Table, e.Column, e.Version)
}

// Is reports whether the target error matches StaleVersionError.
func (e *StaleVersionError) Is(err error) bool {
	return err == ErrStaleVersion
}

// IsStaleVersion returns true if the error is a StaleVersionError.
func IsStaleVersion(err error) bool {
	if err == nil {
		return false
	}
	var e *StaleVersionError
	return errors.As(err, &e) || errors.Is(err, ErrStaleVersion)
}

// CheckVersioned converts the affected row count of a ...AndVersion
// statement into an error: zero rows means another writer won.
func CheckVersioned(table, column string, version any, affected int64) error {
	if affected == 0 {
		return &StaleVersionError{Table: table, Column: column, Version: version}
	}
	return nil
}
