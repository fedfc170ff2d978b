package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-exam-workflow-api/internal/dto"
	"github.com/noah-isme/sma-exam-workflow-api/internal/models"
	"github.com/noah-isme/sma-exam-workflow-api/internal/repository"
	"github.com/noah-isme/sma-exam-workflow-api/internal/workflow"
	appErrors "github.com/noah-isme/sma-exam-workflow-api/pkg/errors"
)

func newMakeupServiceFixture() (*MakeupService, *makeupRepoStub, *examTestRepoStub) {
	tests := newExamTestRepoStub(
		models.Test{ID: "draft", TenantID: "school-a", WorkflowState: models.TestStateDraft},
		models.Test{ID: "done", TenantID: "school-a", WorkflowState: models.TestStateCompleted},
	)
	repo := newMakeupRepoStub()
	return NewMakeupService(repo, tests, &auditSink{}, nil, nil, nil), repo, tests
}

func makeupRequest(testID string) dto.ScheduleMakeupRequest {
	return dto.ScheduleMakeupRequest{
		TestID:        testID,
		StudentID:     "student-1",
		Reason:        "medical leave",
		ScheduledDate: time.Now().Add(72 * time.Hour),
	}
}

func TestMakeupServiceRejectsDraftTest(t *testing.T) {
	svc, repo, _ := newMakeupServiceFixture()

	_, err := svc.Schedule(context.Background(), principal(models.RoleTeacher), makeupRequest("draft"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrIneligibleTest))
	assert.Equal(t, "draft", appErrors.FromError(err).Details["workflowState"])
	assert.Empty(t, repo.rows)
}

func TestMakeupServiceScheduleOnce(t *testing.T) {
	svc, repo, tests := newMakeupServiceFixture()
	actor := principal(models.RoleTeacher)

	makeup, err := svc.Schedule(context.Background(), actor, makeupRequest("done"))
	require.NoError(t, err)
	assert.Equal(t, models.MakeupStatusScheduled, makeup.Status)
	assert.Len(t, repo.rows, 1)

	_, err = svc.Schedule(context.Background(), actor, makeupRequest("done"))
	assert.True(t, errors.Is(err, appErrors.ErrMakeupExists))

	cancelled, err := svc.Transition(context.Background(), actor, makeup.ID, workflow.MakeupCancel, int64Ptr(1))
	require.NoError(t, err)
	assert.Equal(t, models.MakeupStatusCancelled, cancelled.Status)

	_, err = svc.Schedule(context.Background(), actor, makeupRequest("done"))
	require.NoError(t, err)
	assert.Equal(t, 0, tests.updates)
}

func TestMakeupServiceDuplicateFromStore(t *testing.T) {
	svc, repo, _ := newMakeupServiceFixture()
	repo.createErr = repository.ErrDuplicate

	_, err := svc.Schedule(context.Background(), principal(models.RoleHOD), makeupRequest("done"))
	assert.True(t, errors.Is(err, appErrors.ErrMakeupExists))
}

func TestMakeupServiceScheduleValidation(t *testing.T) {
	svc, _, _ := newMakeupServiceFixture()
	actor := principal(models.RoleTeacher)

	past := makeupRequest("done")
	past.ScheduledDate = time.Now().Add(-time.Hour)
	_, err := svc.Schedule(context.Background(), actor, past)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Schedule(context.Background(), actor, makeupRequest("missing"))
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	_, err = svc.Schedule(context.Background(), principal(models.RoleParent), makeupRequest("done"))
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
}

func TestMakeupServiceLifecycle(t *testing.T) {
	svc, _, _ := newMakeupServiceFixture()
	actor := principal(models.RoleTeacher)

	makeup, err := svc.Schedule(context.Background(), actor, makeupRequest("done"))
	require.NoError(t, err)

	_, err = svc.Transition(context.Background(), actor, makeup.ID, workflow.MakeupComplete, nil)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidTransition))

	started, err := svc.Transition(context.Background(), actor, makeup.ID, workflow.MakeupStart, nil)
	require.NoError(t, err)
	assert.Equal(t, models.MakeupStatusInProgress, started.Status)

	_, err = svc.Transition(context.Background(), actor, makeup.ID, workflow.MakeupComplete, int64Ptr(1))
	assert.Equal(t, appErrors.ErrStaleWrite.Code, appErrors.FromError(err).Code)

	completed, err := svc.Transition(context.Background(), actor, makeup.ID, workflow.MakeupComplete, int64Ptr(started.Version))
	require.NoError(t, err)
	assert.Equal(t, models.MakeupStatusCompleted, completed.Status)

	listed, err := svc.ListByTest(context.Background(), principal(models.RolePrincipal), "done")
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestMakeupServiceLostRaceReportsStoredVersion(t *testing.T) {
	svc, repo, _ := newMakeupServiceFixture()
	actor := principal(models.RoleTeacher)

	makeup, err := svc.Schedule(context.Background(), actor, makeupRequest("done"))
	require.NoError(t, err)
	repo.bumpBy = 3

	_, err = svc.Transition(context.Background(), actor, makeup.ID, workflow.MakeupStart, int64Ptr(1))
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrStaleWrite.Code, appErr.Code)
	assert.EqualValues(t, 1, appErr.Details["expectedVersion"])
	assert.EqualValues(t, 4, appErr.Details["currentVersion"])
	assert.Equal(t, models.MakeupStatusScheduled, repo.rows[makeup.ID].Status)
}
