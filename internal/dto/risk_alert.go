package dto

import "github.com/noah-isme/sma-exam-workflow-api/internal/models"

// AcknowledgeRiskAlertRequest resolves an active alert.
type AcknowledgeRiskAlertRequest struct {
	VersionedRequest
	Note string `json:"note" validate:"max=1000"`
}

// RiskAlertQuery mirrors supported listing filters.
type RiskAlertQuery struct {
	Status     []models.RiskAlertStatus
	Types      []models.RiskAlertType
	Severities []models.RiskSeverity
	EntityID   string
	Limit      int
	Offset     int
}

// RiskEvaluationResult reports one monitor pass over a tenant.
type RiskEvaluationResult struct {
	TenantID          string                       `json:"tenantId"`
	TestsEvaluated    int                          `json:"testsEvaluated"`
	ChaptersEvaluated int                          `json:"chaptersEvaluated"`
	Candidates        int                          `json:"candidates"`
	Raised            []models.RiskAlert           `json:"raised"`
	RaisedByType      map[models.RiskAlertType]int `json:"raisedByType"`
}
