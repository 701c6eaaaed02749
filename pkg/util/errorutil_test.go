package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, ToDomainError(nil))
	})

	t.Run("domain errors pass through unchanged", func(t *testing.T) {
		original := NewValidationError("bad input", map[string]any{"field": "title"})
		mapped := ToDomainError(original)
		assert.Equal(t, "VALIDATION_FAILED", mapped.Code)
		assert.Equal(t, http.StatusBadRequest, mapped.HTTPStatus)
		assert.Equal(t, "title", mapped.Details["field"])
	})

	t.Run("wrapped domain errors are unwrapped", func(t *testing.T) {
		wrapped := fmt.Errorf("loading ticket: %w", NewNotFound("ticket", nil))
		mapped := ToDomainError(wrapped)
		assert.Equal(t, "NOT_FOUND", mapped.Code)
	})

	t.Run("pgx no rows maps to not found", func(t *testing.T) {
		mapped := ToDomainError(pgx.ErrNoRows)
		assert.Equal(t, "NOT_FOUND", mapped.Code)
		assert.Equal(t, http.StatusNotFound, mapped.HTTPStatus)
	})

	t.Run("unknown errors map to internal", func(t *testing.T) {
		cause := errors.New("connection reset")
		mapped := ToDomainError(cause)
		assert.Equal(t, "INTERNAL_ERROR", mapped.Code)
		assert.Equal(t, http.StatusInternalServerError, mapped.HTTPStatus)
		assert.ErrorIs(t, mapped, cause)
	})
}

func TestDomainErrorFormatting(t *testing.T) {
	cause := errors.New("dial timeout")
	err := NewInternalError(cause)

	var domainErr *DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Contains(t, domainErr.Error(), "dial timeout")
	assert.ErrorIs(t, err, cause)

	plain := NewForbidden("insufficient role")
	assert.Equal(t, "insufficient role", plain.Error())
}
