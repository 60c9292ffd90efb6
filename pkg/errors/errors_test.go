package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("prospect", "abc123")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, `prospect "abc123" not found`, err.Error())

	// The key is whatever the lookup used, not necessarily an ID.
	byEmail := NewNotFoundError("contact", "pj@example.edu")
	assert.Equal(t, `contact "pj@example.edu" not found`, byEmail.Error())
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("institution", nil, "missing institution name")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "institution")

	bare := NewValidationError("", nil, "bad payload")
	assert.Equal(t, "validation failed: bad payload", bare.Error())
}

func TestSchemaError(t *testing.T) {
	err := NewSchemaError("no rule matched")
	assert.ErrorIs(t, err, ErrSchemaUnrecognized)
	assert.Contains(t, err.Error(), "no rule matched")

	assert.Equal(t, "schema unrecognized", NewSchemaError("").Error())
}

func TestReconcileErrorUnwrap(t *testing.T) {
	cause := NewValidationError("tier", "S", "unknown tier")
	err := NewReconcileError("Westerville North", cause)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "Westerville North")
}

func TestStoreErrorTransience(t *testing.T) {
	transient := WrapStore("query", "prospect", New("connection refused"))
	assert.ErrorIs(t, transient, ErrStoreUnavailable)

	permanent := WrapStore("query", "prospect", New("syntax error"))
	assert.NotErrorIs(t, permanent, ErrStoreUnavailable)
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(ErrStoreUnavailable))
	assert.True(t, IsTransient(New("server closed the connection unexpectedly")))
	assert.True(t, IsTransient(fmt.Errorf("write: %w", New("SSL SYSCALL error"))))
	assert.False(t, IsTransient(nil))
	assert.False(t, IsTransient(ErrNotFound))
	assert.False(t, IsTransient(New("duplicate key value")))
}
