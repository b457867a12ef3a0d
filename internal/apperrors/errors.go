// Package apperrors holds the error taxonomy shared by repositories,
// services and HTTP handlers.
package apperrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound means the requested id has no matching row.
	ErrNotFound = errors.New("record not found")

	// ErrValidation means a submitted field is missing or malformed.
	ErrValidation = errors.New("validation failed")

	// ErrReferentialIntegrity means a write would reference a missing
	// parent row or orphan dependent rows.
	ErrReferentialIntegrity = errors.New("referential integrity violation")

	// ErrPersistence means the store rejected a statement or could not be reached.
	ErrPersistence = errors.New("persistence failure")
)

// ValidationError carries one message per offending form field.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NotFound wraps ErrNotFound with the entity and id that were looked up.
func NotFound(entity string, id int64) error {
	return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
}

// Persistence wraps a store error so callers can match ErrPersistence
// while keeping the driver error in the chain.
func Persistence(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}
