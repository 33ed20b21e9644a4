package seeder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Lumos-Labs-HQ/datasynth/internal/schema"
)

var (
	// ErrDuplicateField is returned when a record declares a field name twice
	ErrDuplicateField = errors.New("field already declared")

	// ErrDuplicateRecord is returned when a record type name is registered twice
	ErrDuplicateRecord = errors.New("record type already registered")

	// ErrNotPrepared is returned when rows are requested before Prepare
	ErrNotPrepared = errors.New("record not prepared")

	// ErrUnknownRecord is returned when a record type name is not registered
	ErrUnknownRecord = errors.New("unknown record type")

	// ErrUnknownField is returned when a field name is not declared
	ErrUnknownField = errors.New("unknown field")

	// ErrNotMutable is returned when a prepared record is modified
	ErrNotMutable = errors.New("record is prepared; reset it first")

	// ErrStaleReference is returned when a referenced record type was reset
	// after the referencing one was prepared
	ErrStaleReference = errors.New("referenced record type was reset; prepare the schema again")

	// ErrNegativeCount is returned for a negative row count
	ErrNegativeCount = errors.New("row count must not be negative")
)

// UnresolvedReferenceError reports a relation whose target record or field
// is missing, not prepared, or not backed by a pool.
type UnresolvedReferenceError struct {
	Record string
	Field  string
	Target schema.Relation
	Reason string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("record %s: field %s references %s: %s", e.Record, e.Field, e.Target, e.Reason)
}

// CyclicDependencyError reports relation references that form a cycle.
// Cycle starts and ends with the same record type.
type CyclicDependencyError struct {
	Cycle []string
}

func (e *CyclicDependencyError) Error() string {
	return "circular dependency detected: " + strings.Join(e.Cycle, " -> ")
}
