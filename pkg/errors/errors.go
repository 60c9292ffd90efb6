// Package errors provides custom error types for the pipeline system.
// These errors enable programmatic error checking across the import
// engine, the entity store, and the HTTP surface.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is reports whether any error in err's tree matches target.
var Is = errors.Is

// As finds the first error in err's tree that matches target.
var As = errors.As

// Common sentinel errors for the pipeline system.
var (
	// ErrNotFound indicates that a requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates that an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates that provided input was invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSchemaUnrecognized indicates that no detector rule matched a document.
	ErrSchemaUnrecognized = errors.New("schema unrecognized")

	// ErrStoreUnavailable indicates a transient connectivity failure
	// against the entity store.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrReadOnly indicates an attempt to modify a read-only resource.
	ErrReadOnly = errors.New("read only")
)

// NotFoundError represents an error when an entity is not found. ID
// holds whichever key the lookup used: an entity ID, a name, an email.
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// Is implements errors.Is support.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// SchemaError indicates that a raw document could not be classified
// into a known schema variant. It is fatal for the whole document.
type SchemaError struct {
	Message string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("schema unrecognized: %s", e.Message)
	}
	return "schema unrecognized"
}

// Is implements errors.Is support.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchemaUnrecognized
}

// NewSchemaError creates a new SchemaError.
func NewSchemaError(message string) *SchemaError {
	return &SchemaError{Message: message}
}

// ReconcileError represents a failure while reconciling one record of
// an import batch. Institution names the record's natural key.
type ReconcileError struct {
	Institution string
	Err         error
}

// Error implements the error interface.
func (e *ReconcileError) Error() string {
	return fmt.Sprintf("reconciling %s: %v", e.Institution, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *ReconcileError) Unwrap() error {
	return e.Err
}

// NewReconcileError creates a new ReconcileError.
func NewReconcileError(institution string, err error) *ReconcileError {
	return &ReconcileError{Institution: institution, Err: err}
}

// StoreError represents an error from the entity store.
type StoreError struct {
	Operation string
	Resource  string
	Err       error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("store %s %s: %v", e.Operation, e.Resource, e.Err)
	}
	return fmt.Sprintf("store %s: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support. A StoreError matches
// ErrStoreUnavailable when its cause looks transient.
func (e *StoreError) Is(target error) bool {
	return target == ErrStoreUnavailable && IsTransient(e.Err)
}

// WrapStore wraps a store failure with operation and resource context.
func WrapStore(operation, resource string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Operation: operation, Resource: resource, Err: err}
}

// transientIndicators are substrings that mark a store failure as a
// connectivity-class error worth retrying.
var transientIndicators = []string{"connection", "closed", "ssl"}

// IsTransient reports whether err looks like a transient connectivity
// failure. Detection is by message inspection because the store
// surfaces a generic error type.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrStoreUnavailable) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, indicator := range transientIndicators {
		if strings.Contains(msg, indicator) {
			return true
		}
	}
	return false
}
