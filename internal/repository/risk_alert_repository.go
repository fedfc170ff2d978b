package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-exam-workflow-api/internal/models"
)

const riskAlertColumns = `id, tenant_id, type, severity, entity_type, entity_id, message, status,
       resolved_at, resolved_by, resolution_note, version, created_at, updated_at`

// RiskAlertRepository persists risk alerts.
type RiskAlertRepository struct {
	db *sqlx.DB
}

// NewRiskAlertRepository constructs the repository.
func NewRiskAlertRepository(db *sqlx.DB) *RiskAlertRepository {
	return &RiskAlertRepository{db: db}
}

// InsertIfAbsent stores the alert unless an active alert for the same type and entity exists.
// It reports whether a row was written.
func (r *RiskAlertRepository) InsertIfAbsent(ctx context.Context, alert *models.RiskAlert) (bool, error) {
	if alert.ID == "" {
		alert.ID = uuid.NewString()
	}
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now().UTC()
	}
	alert.UpdatedAt = alert.CreatedAt
	alert.Status = models.RiskAlertStatusActive
	alert.Version = 1
	const query = `INSERT INTO risk_alerts
	(id, tenant_id, type, severity, entity_type, entity_id, message, status, version, created_at, updated_at)
	VALUES (:id, :tenant_id, :type, :severity, :entity_type, :entity_id, :message, :status, :version, :created_at, :updated_at)
	ON CONFLICT (tenant_id, type, entity_type, entity_id) WHERE status = 'active' DO NOTHING`
	result, err := r.db.NamedExecContext(ctx, query, alert)
	if err != nil {
		return false, fmt.Errorf("insert risk alert: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("check risk alert insert rows: %w", err)
	}
	return rows > 0, nil
}

// GetByID fetches an alert within a tenant.
func (r *RiskAlertRepository) GetByID(ctx context.Context, tenantID, id string) (*models.RiskAlert, error) {
	query := `SELECT ` + riskAlertColumns + ` FROM risk_alerts WHERE tenant_id = $1 AND id = $2`
	var alert models.RiskAlert
	if err := r.db.GetContext(ctx, &alert, query, tenantID, id); err != nil {
		return nil, err
	}
	return &alert, nil
}

// ListActive returns every active alert of a tenant.
func (r *RiskAlertRepository) ListActive(ctx context.Context, tenantID string) ([]models.RiskAlert, error) {
	query := `SELECT ` + riskAlertColumns + ` FROM risk_alerts WHERE tenant_id = $1 AND status = $2 ORDER BY created_at DESC`
	var alerts []models.RiskAlert
	if err := r.db.SelectContext(ctx, &alerts, query, tenantID, models.RiskAlertStatusActive); err != nil {
		return nil, fmt.Errorf("list active risk alerts: %w", err)
	}
	return alerts, nil
}

// List returns alerts matching the filter, newest first.
func (r *RiskAlertRepository) List(ctx context.Context, filter models.RiskAlertFilter) ([]models.RiskAlert, error) {
	builder := strings.Builder{}
	args := []interface{}{filter.TenantID}
	builder.WriteString(`SELECT ` + riskAlertColumns + ` FROM risk_alerts WHERE tenant_id = $1`)
	appendIn := func(column string, values []string) {
		if len(values) == 0 {
			return
		}
		placeholders := make([]string, len(values))
		for i, value := range values {
			args = append(args, value)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		builder.WriteString(fmt.Sprintf(" AND %s IN (%s)", column, strings.Join(placeholders, ",")))
	}

	statuses := make([]string, len(filter.Status))
	for i, s := range filter.Status {
		statuses[i] = string(s)
	}
	types := make([]string, len(filter.Types))
	for i, t := range filter.Types {
		types[i] = string(t)
	}
	severities := make([]string, len(filter.Severities))
	for i, s := range filter.Severities {
		severities[i] = string(s)
	}
	appendIn("status", statuses)
	appendIn("type", types)
	appendIn("severity", severities)
	if filter.EntityID != "" {
		args = append(args, filter.EntityID)
		builder.WriteString(fmt.Sprintf(" AND entity_id = $%d", len(args)))
	}
	limit, offset := clampPage(filter.Limit, filter.Offset)
	builder.WriteString(fmt.Sprintf(" ORDER BY created_at DESC, id LIMIT %d OFFSET %d", limit, offset))

	var alerts []models.RiskAlert
	if err := r.db.SelectContext(ctx, &alerts, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list risk alerts: %w", err)
	}
	return alerts, nil
}

// Resolve marks an active alert resolved. Zero affected rows means it was already resolved
// or the version moved on; callers reload to tell which.
func (r *RiskAlertRepository) Resolve(ctx context.Context, alert *models.RiskAlert) error {
	alert.UpdatedAt = time.Now().UTC()
	const query = `UPDATE risk_alerts SET
	status = 'resolved', resolved_at = :resolved_at, resolved_by = :resolved_by, resolution_note = :resolution_note,
	version = version + 1, updated_at = :updated_at
	WHERE id = :id AND tenant_id = :tenant_id AND status = 'active' AND version = :version`
	result, err := r.db.NamedExecContext(ctx, query, alert)
	if err != nil {
		return fmt.Errorf("resolve risk alert: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check risk alert resolve rows: %w", err)
	}
	if rows == 0 {
		return ErrVersionConflict
	}
	alert.Status = models.RiskAlertStatusResolved
	alert.Version++
	return nil
}

type riskAlertCountRow struct {
	Status   models.RiskAlertStatus `db:"status"`
	Type     models.RiskAlertType   `db:"type"`
	Severity models.RiskSeverity    `db:"severity"`
	Total    int                    `db:"total"`
}

// Summary aggregates alert counts for a tenant.
func (r *RiskAlertRepository) Summary(ctx context.Context, tenantID string) (*models.RiskAlertSummary, error) {
	const query = `SELECT status, type, severity, COUNT(*) AS total FROM risk_alerts
	WHERE tenant_id = $1 GROUP BY status, type, severity`
	var rows []riskAlertCountRow
	if err := r.db.SelectContext(ctx, &rows, query, tenantID); err != nil {
		return nil, fmt.Errorf("summarise risk alerts: %w", err)
	}

	summary := &models.RiskAlertSummary{
		TenantID:         tenantID,
		ActiveBySeverity: map[models.RiskSeverity]int{},
		ActiveByType:     map[models.RiskAlertType]int{},
		GeneratedAt:      time.Now().UTC(),
	}
	for _, row := range rows {
		if row.Status == models.RiskAlertStatusResolved {
			summary.Resolved += row.Total
			continue
		}
		summary.Active += row.Total
		summary.ActiveBySeverity[row.Severity] += row.Total
		summary.ActiveByType[row.Type] += row.Total
	}
	return summary, nil
}
