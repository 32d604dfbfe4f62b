package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/lute/internal/errors"
)

func TestAppError_Error(t *testing.T) {
	err := errors.NewNotFoundError("deck", "abc")
	assert.Equal(t, "NOT_FOUND: deck not found: abc", err.Error())
	assert.Equal(t, 404, err.Status)

	wrapped := errors.NewInternalError(stderrors.New("disk full"))
	assert.Contains(t, wrapped.Error(), "disk full")
	assert.Equal(t, 500, wrapped.Status)
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("start session: %w", errors.NewConflictError("deck busy"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeConflict))
	assert.False(t, errors.IsCode(err, errors.ErrCodeNotFound))
	assert.False(t, errors.IsCode(stderrors.New("plain"), errors.ErrCodeConflict))
}

func TestUnavailableError_IsRetryable(t *testing.T) {
	cause := stderrors.New("llm timeout")
	err := errors.NewUnavailableError("variant generation failed", cause)
	assert.True(t, err.Retryable)
	assert.Equal(t, 503, err.Status)
	assert.ErrorIs(t, err, cause)
}

func TestAsAppError(t *testing.T) {
	plain := stderrors.New("boom")
	appErr := errors.AsAppError(plain)
	assert.Equal(t, errors.ErrCodeInternal, appErr.Code)

	orig := errors.NewBadRequestError("bad")
	assert.Same(t, orig, errors.AsAppError(fmt.Errorf("wrap: %w", orig)))
}
