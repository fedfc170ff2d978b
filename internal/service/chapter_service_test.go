package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-exam-workflow-api/internal/dto"
	"github.com/noah-isme/sma-exam-workflow-api/internal/models"
	appErrors "github.com/noah-isme/sma-exam-workflow-api/pkg/errors"
)

func newChapterServiceFixture(chapters ...models.Chapter) (*ChapterService, *chapterRepoStub, *auditSink, *triggerRecorder) {
	repo := newChapterRepoStub(chapters...)
	audit := &auditSink{}
	trigger := &triggerRecorder{}
	svc := NewChapterService(repo, audit, nil, nil, WithChapterRiskTrigger(trigger), WithChapterClock(clock))
	return svc, repo, audit, trigger
}

func TestChapterServiceCreateNormalizesTopics(t *testing.T) {
	svc, _, _, _ := newChapterServiceFixture()

	chapter, err := svc.Create(context.Background(), principal(models.RoleTeacher), dto.CreateChapterRequest{
		Subject: "Biology",
		Grade:   "10",
		Title:   "Cells",
		Topics:  []string{" Membranes", "Nucleus", "Membranes"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.ChapterStatusDraft, chapter.Status)
	assert.Equal(t, pq.StringArray{"Membranes", "Nucleus"}, chapter.Topics)
	assert.Empty(t, chapter.CompletedTopics)
	assert.EqualValues(t, 1, chapter.Version)

	_, err = svc.Create(context.Background(), principal(models.RoleStudent), dto.CreateChapterRequest{Subject: "x", Grade: "1", Title: "x", Topics: []string{"a"}})
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
}

func TestChapterServiceProgress(t *testing.T) {
	svc, _, _, trigger := newChapterServiceFixture(models.Chapter{
		ID: "c1", TenantID: "school-a", Status: models.ChapterStatusUnlocked,
		Topics: pq.StringArray{"A", "B", "C"}, CompletedTopics: pq.StringArray{},
	})

	chapter, err := svc.UpdatePortions(context.Background(), principal(models.RoleTeacher), "c1", dto.UpdatePortionsRequest{CompletedTopics: []string{"B", "A"}})
	require.NoError(t, err)
	assert.Equal(t, pq.StringArray{"A", "B"}, chapter.CompletedTopics)
	assert.Equal(t, 67, dto.NewChapterResponse(*chapter).Progress)
	assert.Len(t, trigger.reasons, 1)
}

func TestChapterServiceUpdatePortionsRejectsUnknownTopic(t *testing.T) {
	svc, repo, _, _ := newChapterServiceFixture(models.Chapter{
		ID: "c1", TenantID: "school-a", Status: models.ChapterStatusUnlocked,
		Topics: pq.StringArray{"A", "B"}, CompletedTopics: pq.StringArray{"A"},
	})

	_, err := svc.UpdatePortions(context.Background(), principal(models.RoleTeacher), "c1", dto.UpdatePortionsRequest{CompletedTopics: []string{"A", "Z"}})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidTopics))
	assert.Equal(t, 0, repo.updates)
	stored, _ := repo.GetByID(context.Background(), "school-a", "c1")
	assert.Equal(t, pq.StringArray{"A"}, stored.CompletedTopics)
}

func TestChapterServiceUnlockLockCycle(t *testing.T) {
	svc, repo, audit, _ := newChapterServiceFixture(models.Chapter{ID: "c1", TenantID: "school-a", Status: models.ChapterStatusDraft, Topics: pq.StringArray{"A"}})
	actor := principal(models.RoleHOD)
	deadline := fixedNow.Add(48 * time.Hour)

	unlocked, err := svc.Unlock(context.Background(), actor, "c1", dto.UnlockChapterRequest{Deadline: &deadline})
	require.NoError(t, err)
	assert.Equal(t, models.ChapterStatusUnlocked, unlocked.Status)
	require.NotNil(t, unlocked.Deadline)
	assert.True(t, deadline.Equal(*unlocked.Deadline))

	locked, err := svc.Lock(context.Background(), actor, "c1", int64Ptr(unlocked.Version))
	require.NoError(t, err)
	assert.Equal(t, models.ChapterStatusLocked, locked.Status)
	assert.Nil(t, locked.Deadline)

	reopened, err := svc.Unlock(context.Background(), actor, "c1", dto.UnlockChapterRequest{})
	require.NoError(t, err)
	assert.Nil(t, reopened.Deadline)
	assert.Equal(t, 3, repo.updates)
	assert.Len(t, audit.logs, 3)
}

func TestChapterServiceUnlockRejectsPastDeadline(t *testing.T) {
	svc, repo, _, _ := newChapterServiceFixture(models.Chapter{ID: "c1", TenantID: "school-a", Status: models.ChapterStatusDraft})
	past := fixedNow.Add(-time.Hour)

	_, err := svc.Unlock(context.Background(), principal(models.RoleHOD), "c1", dto.UnlockChapterRequest{Deadline: &past})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidDeadline))
	assert.Equal(t, 0, repo.updates)
}

func TestChapterServiceSetDeadline(t *testing.T) {
	svc, _, _, _ := newChapterServiceFixture(
		models.Chapter{ID: "c1", TenantID: "school-a", Status: models.ChapterStatusUnlocked},
		models.Chapter{ID: "c2", TenantID: "school-a", Status: models.ChapterStatusLocked},
	)
	actor := principal(models.RoleTeacher)

	_, err := svc.SetDeadline(context.Background(), actor, "c1", dto.SetDeadlineRequest{})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidDeadline))

	chapter, err := svc.SetDeadline(context.Background(), actor, "c1", dto.SetDeadlineRequest{Deadline: fixedNow.Add(time.Hour)})
	require.NoError(t, err)
	require.NotNil(t, chapter.Deadline)

	_, err = svc.SetDeadline(context.Background(), actor, "c2", dto.SetDeadlineRequest{Deadline: fixedNow.Add(time.Hour)})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidTransition))
}

func TestChapterServiceRevealScores(t *testing.T) {
	svc, repo, _, _ := newChapterServiceFixture(
		models.Chapter{ID: "c1", TenantID: "school-a", Status: models.ChapterStatusUnlocked},
		models.Chapter{ID: "c2", TenantID: "school-a", Status: models.ChapterStatusCompleted, Version: 5},
	)
	actor := principal(models.RoleHOD)

	_, err := svc.RevealScores(context.Background(), actor, "c1", nil)
	assert.True(t, errors.Is(err, appErrors.ErrNotCompleted))

	revealed, err := svc.RevealScores(context.Background(), actor, "c2", int64Ptr(5))
	require.NoError(t, err)
	assert.True(t, revealed.ScoresRevealed)
	assert.EqualValues(t, 6, revealed.Version)

	again, err := svc.RevealScores(context.Background(), actor, "c2", nil)
	require.NoError(t, err)
	assert.EqualValues(t, 6, again.Version)
	assert.Equal(t, 1, repo.updates)
}

func TestChapterServiceCompleteAndStale(t *testing.T) {
	svc, repo, _, _ := newChapterServiceFixture(models.Chapter{ID: "c1", TenantID: "school-a", Status: models.ChapterStatusUnlocked, Version: 2})

	_, err := svc.Complete(context.Background(), principal(models.RoleExamCommittee), "c1", int64Ptr(1))
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, appErrors.ErrStaleWrite.Code, appErr.Code)
	assert.Equal(t, 0, repo.updates)

	completed, err := svc.Complete(context.Background(), principal(models.RoleExamCommittee), "c1", int64Ptr(2))
	require.NoError(t, err)
	assert.Equal(t, models.ChapterStatusCompleted, completed.Status)

	_, err = svc.Lock(context.Background(), principal(models.RoleHOD), "c1", nil)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidTransition))
}

func TestChapterServiceViewAllowedForStudents(t *testing.T) {
	svc, _, _, _ := newChapterServiceFixture(models.Chapter{ID: "c1", TenantID: "school-a", Status: models.ChapterStatusUnlocked})

	chapters, err := svc.List(context.Background(), principal(models.RoleStudent), dto.ChapterQuery{})
	require.NoError(t, err)
	assert.Len(t, chapters, 1)

	_, err = svc.Lock(context.Background(), principal(models.RoleStudent), "c1", nil)
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
}
