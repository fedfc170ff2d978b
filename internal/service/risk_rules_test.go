package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sma-exam-workflow-api/internal/models"
)

var defaultRules = RiskRules{ApprovalSLA: 72 * time.Hour, ReviewSLA: 48 * time.Hour, PrintLeadTime: 48 * time.Hour}

func TestEvaluateRiskRules(t *testing.T) {
	past := fixedNow.Add(-time.Hour)
	future := fixedNow.Add(time.Hour)
	farExam := fixedNow.Add(30 * 24 * time.Hour)

	cases := []struct {
		name     string
		tests    []models.Test
		chapters []models.Chapter
		want     []models.RiskAlertType
	}{
		{
			name:  "committee past approval sla",
			tests: []models.Test{{ID: "t1", WorkflowState: models.TestStateSentToCommittee, StateChangedAt: fixedNow.Add(-73 * time.Hour), ExamDate: farExam}},
			want:  []models.RiskAlertType{models.RiskAlertApprovalDelay},
		},
		{
			name:  "committee within sla",
			tests: []models.Test{{ID: "t1", WorkflowState: models.TestStateSentToCommittee, StateChangedAt: fixedNow.Add(-71 * time.Hour), ExamDate: farExam}},
		},
		{
			name:  "review past sla",
			tests: []models.Test{{ID: "t1", WorkflowState: models.TestStatePendingReview, StateChangedAt: fixedNow.Add(-49 * time.Hour), ExamDate: farExam}},
			want:  []models.RiskAlertType{models.RiskAlertReviewDelay},
		},
		{
			name:  "printing ready without confidentiality",
			tests: []models.Test{{ID: "t1", WorkflowState: models.TestStateLocked, PrintingReady: true, StateChangedAt: fixedNow, ExamDate: fixedNow.Add(time.Hour)}},
			want:  []models.RiskAlertType{models.RiskAlertPaperLeakRisk},
		},
		{
			name:  "exam close and not printing ready",
			tests: []models.Test{{ID: "t1", WorkflowState: models.TestStateApproved, StateChangedAt: fixedNow, ExamDate: fixedNow.Add(24 * time.Hour)}},
			want:  []models.RiskAlertType{models.RiskAlertPrintReadinessRisk},
		},
		{
			name:  "completed paper is never print risk",
			tests: []models.Test{{ID: "t1", WorkflowState: models.TestStateCompleted, PrintedAt: &fixedNow, IsConfidential: true, StateChangedAt: fixedNow, ExamDate: fixedNow}},
		},
		{
			name:     "unlocked chapter past deadline",
			chapters: []models.Chapter{{ID: "c1", Status: models.ChapterStatusUnlocked, Deadline: &past}},
			want:     []models.RiskAlertType{models.RiskAlertMissingDeadline},
		},
		{
			name: "chapter deadline ahead or chapter locked",
			chapters: []models.Chapter{
				{ID: "c1", Status: models.ChapterStatusUnlocked, Deadline: &future},
				{ID: "c2", Status: models.ChapterStatusLocked, Deadline: &past},
				{ID: "c3", Status: models.ChapterStatusUnlocked},
			},
		},
		{
			name: "several rules on one paper",
			tests: []models.Test{{ID: "t1", WorkflowState: models.TestStateSentToCommittee, StateChangedAt: fixedNow.Add(-100 * time.Hour), ExamDate: fixedNow.Add(time.Hour)}},
			want: []models.RiskAlertType{models.RiskAlertApprovalDelay, models.RiskAlertPrintReadinessRisk},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			alerts := EvaluateRiskRules(defaultRules, "school-a", tc.tests, tc.chapters, fixedNow)
			var got []models.RiskAlertType
			for _, alert := range alerts {
				assert.Equal(t, "school-a", alert.TenantID)
				assert.NotEmpty(t, alert.Message)
				got = append(got, alert.Type)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEvaluateRiskRulesOneCandidatePerKey(t *testing.T) {
	test := models.Test{ID: "t1", WorkflowState: models.TestStateLocked, PrintingReady: true, StateChangedAt: fixedNow, ExamDate: fixedNow}

	alerts := EvaluateRiskRules(defaultRules, "school-a", []models.Test{test, test}, nil, fixedNow)
	assert.Len(t, alerts, 1)
	assert.Equal(t, models.RiskSeverityCritical, alerts[0].Severity)
}

func TestEvaluateRiskRulesSkipsForeignTenant(t *testing.T) {
	test := models.Test{ID: "t1", TenantID: "school-b", WorkflowState: models.TestStateLocked, PrintingReady: true, ExamDate: fixedNow}

	assert.Empty(t, EvaluateRiskRules(defaultRules, "school-a", []models.Test{test}, nil, fixedNow))
}
