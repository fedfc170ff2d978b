package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-exam-workflow-api/internal/models"
	"github.com/noah-isme/sma-exam-workflow-api/pkg/jobs"
	appErrors "github.com/noah-isme/sma-exam-workflow-api/pkg/errors"
)

func newRiskMonitorFixture(alerts ...models.RiskAlert) (*RiskMonitor, *examTestRepoStub, *riskAlertRepoStub) {
	tests := newExamTestRepoStub(
		models.Test{ID: "leaky", TenantID: "school-a", Title: "Chemistry", WorkflowState: models.TestStateLocked, PrintingReady: true, StateChangedAt: fixedNow, ExamDate: fixedNow.Add(10 * 24 * time.Hour)},
		models.Test{ID: "slow", TenantID: "school-a", Title: "History", WorkflowState: models.TestStatePendingReview, StateChangedAt: fixedNow.Add(-50 * time.Hour), ExamDate: fixedNow.Add(10 * 24 * time.Hour)},
		models.Test{ID: "fine", TenantID: "school-b", Title: "Art", WorkflowState: models.TestStateDraft, StateChangedAt: fixedNow, ExamDate: fixedNow.Add(10 * 24 * time.Hour)},
	)
	past := fixedNow.Add(-time.Hour)
	chapters := newChapterRepoStub(models.Chapter{ID: "c1", TenantID: "school-a", Title: "Waves", Status: models.ChapterStatusUnlocked, Deadline: &past})
	repo := newRiskAlertRepoStub(alerts...)
	monitor := NewRiskMonitor(tests, chapters, repo, tenantStub{"school-a", "school-b"}, defaultRules, nil, WithRiskClock(clock))
	return monitor, tests, repo
}

func TestRiskMonitorEvaluateRaisesOncePerKey(t *testing.T) {
	monitor, tests, repo := newRiskMonitorFixture()

	first, err := monitor.Evaluate(context.Background(), "school-a", RiskTriggerManual)
	require.NoError(t, err)
	assert.Equal(t, 3, first.Candidates)
	assert.Len(t, first.Raised, 3)
	assert.Equal(t, 1, first.RaisedByType[models.RiskAlertPaperLeakRisk])
	assert.Equal(t, 1, first.RaisedByType[models.RiskAlertReviewDelay])
	assert.Equal(t, 1, first.RaisedByType[models.RiskAlertMissingDeadline])

	second, err := monitor.Evaluate(context.Background(), "school-a", RiskTriggerManual)
	require.NoError(t, err)
	assert.Equal(t, 3, second.Candidates)
	assert.Empty(t, second.Raised)
	assert.Equal(t, 3, repo.inserts)
	assert.Equal(t, 0, tests.updates)
}

func TestRiskMonitorRaisesAgainAfterResolve(t *testing.T) {
	resolvedAt := fixedNow.Add(-time.Hour)
	monitor, _, repo := newRiskMonitorFixture(models.RiskAlert{
		ID: "old", TenantID: "school-a", Type: models.RiskAlertPaperLeakRisk, EntityType: models.RiskEntityTest,
		EntityID: "leaky", Status: models.RiskAlertStatusResolved, ResolvedAt: &resolvedAt,
	})

	result, err := monitor.Evaluate(context.Background(), "school-a", RiskTriggerSchedule)
	require.NoError(t, err)
	assert.Equal(t, 1, result.RaisedByType[models.RiskAlertPaperLeakRisk])
	assert.Len(t, repo.rows, 4)
}

func TestRiskMonitorInvalidatesSummaryCache(t *testing.T) {
	cache := newMemoryCache()
	cache.entries[riskSummaryCacheKey("school-a")] = []byte(`{"tenantId":"school-a"}`)
	monitor, _, _ := newRiskMonitorFixture()
	monitor.cache = NewCacheService(cache, nil, time.Minute, nil, true)

	_, err := monitor.Evaluate(context.Background(), "school-a", RiskTriggerManual)
	require.NoError(t, err)
	assert.Contains(t, cache.deleted, riskSummaryCacheKey("school-a"))
	assert.NotContains(t, cache.entries, riskSummaryCacheKey("school-a"))
}

func TestRiskMonitorEvaluateAll(t *testing.T) {
	monitor, _, repo := newRiskMonitorFixture()

	results, err := monitor.EvaluateAll(context.Background(), RiskTriggerCLI)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "school-b", results[1].TenantID)
	assert.Empty(t, results[1].Raised)
	assert.Equal(t, 3, repo.inserts)
}

func TestRiskMonitorEvaluateAsChecksGate(t *testing.T) {
	monitor, _, repo := newRiskMonitorFixture()

	_, err := monitor.EvaluateAs(context.Background(), principal(models.RoleTeacher))
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
	assert.Equal(t, 0, repo.inserts)

	result, err := monitor.EvaluateAs(context.Background(), principal(models.RolePrincipal))
	require.NoError(t, err)
	assert.Equal(t, "school-a", result.TenantID)
}

func TestRiskMonitorTriggerTenantQueuesJob(t *testing.T) {
	monitor, _, _ := newRiskMonitorFixture()
	monitor.TriggerTenant("school-a", "no queue attached")

	queue := &queueRecorder{}
	monitor.AttachQueue(queue)
	monitor.TriggerTenant("school-a", "test.lock")
	monitor.TriggerTenant("", "ignored")
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, JobTypeRiskEvaluate, queue.jobs[0].Type)
	assert.Equal(t, "risk:school-a", queue.jobs[0].Key)

	queue.err = jobs.ErrQueueFull
	monitor.TriggerTenant("school-a", "dropped")
	assert.Len(t, queue.jobs, 1)
}

func TestRiskMonitorHandleJob(t *testing.T) {
	monitor, _, repo := newRiskMonitorFixture()

	require.NoError(t, monitor.HandleJob(context.Background(), jobs.Job{ID: "j1", Type: JobTypeRiskEvaluate, Payload: "school-a"}))
	assert.Equal(t, 3, repo.inserts)

	assert.Error(t, monitor.HandleJob(context.Background(), jobs.Job{ID: "j2", Type: JobTypeRiskEvaluate, Payload: 42}))
}
