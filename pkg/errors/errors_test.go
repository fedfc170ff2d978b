package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneMatchesSentinel(t *testing.T) {
	err := Clone(ErrNotLocked, "paper must be locked first")
	assert.True(t, errors.Is(err, ErrNotLocked))
	assert.False(t, errors.Is(err, ErrNotCompleted))
	assert.Equal(t, "paper must be locked first", err.Message)
	assert.Equal(t, "paper is not locked", ErrNotLocked.Message)
}

func TestInvalidTransitionDetails(t *testing.T) {
	err := InvalidTransition("test", "lock", "draft", "locked")
	require.True(t, errors.Is(err, ErrInvalidTransition))
	assert.Equal(t, http.StatusConflict, err.Status)
	assert.Equal(t, "draft", err.Details["from"])
	assert.Equal(t, "locked", err.Details["to"])
	assert.Nil(t, ErrInvalidTransition.Details)
}

func TestFromErrorWrapsUnknown(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", StaleWrite(2, 3))
	appErr := FromError(wrapped)
	assert.Equal(t, ErrStaleWrite.Code, appErr.Code)
	assert.EqualValues(t, 3, appErr.Details["currentVersion"])

	internal := FromError(errors.New("boom"))
	assert.Equal(t, ErrInternal.Code, internal.Code)
	assert.Nil(t, FromError(nil))
}
