package records

import "fmt"

// SchemaError reports a required field name (key column, compare column or
// filter column) that is absent from a dataset's header.
//
// It is raised eagerly, before any row processing, so an operation either
// runs to completion or fails before producing output.
type SchemaError struct {
	// Column is the missing field name.
	Column string

	// Dataset labels which dataset is missing the column, typically the
	// source file path. May be empty when the caller has only one dataset.
	Dataset string
}

func (e *SchemaError) Error() string {
	if e.Dataset == "" {
		return fmt.Sprintf("column %q not found", e.Column)
	}
	return fmt.Sprintf("column %q not found in %s", e.Column, e.Dataset)
}

// DuplicateKeyError reports a duplicate composite key encountered while
// building a keyed index in strict mode.
type DuplicateKeyError struct {
	Key Key
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key %s", e.Key)
}
