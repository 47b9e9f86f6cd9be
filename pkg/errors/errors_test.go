package errors

import (
	"database/sql"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorWrapsUnknown(t *testing.T) {
	err := FromError(sql.ErrConnDone)
	assert.Equal(t, ErrInternal.Code, err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.ErrorIs(t, err, sql.ErrConnDone)
}

func TestCloneKeepsCode(t *testing.T) {
	err := Clone(ErrNotFound, "course not found")
	assert.Equal(t, "NOT_FOUND", err.Code)
	assert.Equal(t, "course not found", err.Message)
	assert.Equal(t, "resource not found", ErrNotFound.Message)
}

func TestClassification(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", Clone(ErrForbidden, "nope"))
	assert.True(t, IsAuthorization(wrapped))
	assert.False(t, IsValidation(wrapped))
	assert.True(t, IsValidation(Clone(ErrNotFound, "")))
	assert.True(t, IsValidation(Clone(ErrValidation, "bad")))
	assert.False(t, IsValidation(sql.ErrNoRows))
}
