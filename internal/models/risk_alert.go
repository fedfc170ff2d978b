package models

import "time"

// RiskAlertType enumerates the anomalies the monitor derives.
type RiskAlertType string

const (
	RiskAlertApprovalDelay      RiskAlertType = "approval_delay"
	RiskAlertReviewDelay        RiskAlertType = "review_delay"
	RiskAlertPaperLeakRisk      RiskAlertType = "paper_leak_risk"
	RiskAlertPrintReadinessRisk RiskAlertType = "print_readiness_risk"
	RiskAlertMissingDeadline    RiskAlertType = "missing_deadline"
)

// RiskSeverity grades alert urgency.
type RiskSeverity string

const (
	RiskSeverityLow      RiskSeverity = "low"
	RiskSeverityMedium   RiskSeverity = "medium"
	RiskSeverityHigh     RiskSeverity = "high"
	RiskSeverityCritical RiskSeverity = "critical"
)

// RiskAlertStatus only moves forward: active -> resolved.
type RiskAlertStatus string

const (
	RiskAlertStatusActive   RiskAlertStatus = "active"
	RiskAlertStatusResolved RiskAlertStatus = "resolved"
)

// Risk alert target kinds.
const (
	RiskEntityTest    = "test"
	RiskEntityChapter = "chapter"
)

// RiskAlert is an audit record produced by the risk monitor.
type RiskAlert struct {
	ID             string          `db:"id" json:"id"`
	TenantID       string          `db:"tenant_id" json:"tenantId"`
	Type           RiskAlertType   `db:"type" json:"type"`
	Severity       RiskSeverity    `db:"severity" json:"severity"`
	EntityType     string          `db:"entity_type" json:"entityType"`
	EntityID       string          `db:"entity_id" json:"entityId"`
	Message        string          `db:"message" json:"message"`
	Status         RiskAlertStatus `db:"status" json:"status"`
	ResolvedAt     *time.Time      `db:"resolved_at" json:"resolvedAt,omitempty"`
	ResolvedBy     *string         `db:"resolved_by" json:"resolvedBy,omitempty"`
	ResolutionNote *string         `db:"resolution_note" json:"resolutionNote,omitempty"`
	Version        int64           `db:"version" json:"version"`
	CreatedAt      time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updatedAt"`
}

// Key identifies the (type, entity) pair that may have at most one active alert.
func (a RiskAlert) Key() string {
	return string(a.Type) + "|" + a.EntityType + "|" + a.EntityID
}

// RiskAlertFilter constrains alert listings.
type RiskAlertFilter struct {
	TenantID   string
	Status     []RiskAlertStatus
	Types      []RiskAlertType
	Severities []RiskSeverity
	EntityID   string
	Limit      int
	Offset     int
}

// RiskAlertSummary aggregates alert counts for dashboards.
type RiskAlertSummary struct {
	TenantID         string                `json:"tenantId"`
	Active           int                   `json:"active"`
	Resolved         int                   `json:"resolved"`
	ActiveBySeverity map[RiskSeverity]int  `json:"activeBySeverity"`
	ActiveByType     map[RiskAlertType]int `json:"activeByType"`
	GeneratedAt      time.Time             `json:"generatedAt"`
}
