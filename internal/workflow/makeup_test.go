package workflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-exam-workflow-api/internal/models"
	appErrors "github.com/noah-isme/sma-exam-workflow-api/pkg/errors"
)

func TestApplyMakeup(t *testing.T) {
	sitting := models.MakeupTest{ID: "mk-1", Status: models.MakeupStatusScheduled}

	started, err := ApplyMakeup(sitting, MakeupStart)
	require.NoError(t, err)
	assert.Equal(t, models.MakeupStatusInProgress, started.Status)

	done, err := ApplyMakeup(started, MakeupComplete)
	require.NoError(t, err)
	assert.Equal(t, models.MakeupStatusCompleted, done.Status)

	_, err = ApplyMakeup(done, MakeupCancel)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidTransition))

	_, err = ApplyMakeup(sitting, MakeupComplete)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidTransition))

	cancelled, err := ApplyMakeup(started, MakeupCancel)
	require.NoError(t, err)
	assert.Equal(t, models.MakeupStatusCancelled, cancelled.Status)

	_, err = ApplyMakeup(cancelled, MakeupStart)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidTransition))
}

func TestOutstanding(t *testing.T) {
	assert.True(t, Outstanding(models.MakeupStatusScheduled))
	assert.True(t, Outstanding(models.MakeupStatusCompleted))
	assert.False(t, Outstanding(models.MakeupStatusCancelled))
}
