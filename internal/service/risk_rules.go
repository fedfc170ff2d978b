package service

import (
	"fmt"
	"time"

	"github.com/noah-isme/sma-exam-workflow-api/internal/models"
)

// RiskRules holds the thresholds of the risk monitor.
type RiskRules struct {
	ApprovalSLA   time.Duration
	ReviewSLA     time.Duration
	PrintLeadTime time.Duration
}

// EvaluateRiskRules derives candidate alerts from a tenant snapshot. It is pure and yields
// at most one candidate per (type, entity).
func EvaluateRiskRules(rules RiskRules, tenantID string, tests []models.Test, chapters []models.Chapter, now time.Time) []models.RiskAlert {
	var out []models.RiskAlert
	seen := map[string]struct{}{}
	add := func(alert models.RiskAlert) {
		alert.TenantID = tenantID
		if _, ok := seen[alert.Key()]; ok {
			return
		}
		seen[alert.Key()] = struct{}{}
		out = append(out, alert)
	}

	for _, t := range tests {
		if t.TenantID != "" && t.TenantID != tenantID {
			continue
		}
		inState := now.Sub(t.StateChangedAt)
		switch t.WorkflowState {
		case models.TestStateSentToCommittee:
			if rules.ApprovalSLA > 0 && inState > rules.ApprovalSLA {
				add(testAlert(t, models.RiskAlertApprovalDelay, models.RiskSeverityHigh,
					fmt.Sprintf("%q has waited %s with the exam committee (SLA %s)", t.Title, roundHours(inState), rules.ApprovalSLA)))
			}
		case models.TestStatePendingReview:
			if rules.ReviewSLA > 0 && inState > rules.ReviewSLA {
				add(testAlert(t, models.RiskAlertReviewDelay, models.RiskSeverityMedium,
					fmt.Sprintf("%q has waited %s for principal review (SLA %s)", t.Title, roundHours(inState), rules.ReviewSLA)))
			}
		}
		if t.PrintingReady && !t.IsConfidential {
			add(testAlert(t, models.RiskAlertPaperLeakRisk, models.RiskSeverityCritical,
				fmt.Sprintf("%q is ready for printing but not marked confidential", t.Title)))
		}
		if t.WorkflowState != models.TestStateCompleted && !t.PrintingReady && rules.PrintLeadTime > 0 &&
			t.ExamDate.Sub(now) <= rules.PrintLeadTime {
			add(testAlert(t, models.RiskAlertPrintReadinessRisk, models.RiskSeverityHigh,
				fmt.Sprintf("%q is sat on %s but is not ready for printing (state %s)", t.Title, t.ExamDate.UTC().Format(time.RFC3339), t.WorkflowState)))
		}
	}

	for _, c := range chapters {
		if c.TenantID != "" && c.TenantID != tenantID {
			continue
		}
		if c.Status == models.ChapterStatusUnlocked && c.Deadline != nil && c.Deadline.Before(now) {
			add(models.RiskAlert{
				Type:       models.RiskAlertMissingDeadline,
				Severity:   models.RiskSeverityMedium,
				EntityType: models.RiskEntityChapter,
				EntityID:   c.ID,
				Message:    fmt.Sprintf("chapter %q passed its deadline %s while still unlocked", c.Title, c.Deadline.UTC().Format(time.RFC3339)),
			})
		}
	}
	return out
}

func testAlert(t models.Test, alertType models.RiskAlertType, severity models.RiskSeverity, message string) models.RiskAlert {
	return models.RiskAlert{
		Type:       alertType,
		Severity:   severity,
		EntityType: models.RiskEntityTest,
		EntityID:   t.ID,
		Message:    message,
	}
}

func roundHours(d time.Duration) time.Duration {
	return d.Round(time.Hour)
}
