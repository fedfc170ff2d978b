package service

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-exam-workflow-api/internal/access"
	"github.com/noah-isme/sma-exam-workflow-api/internal/dto"
	"github.com/noah-isme/sma-exam-workflow-api/internal/models"
	"github.com/noah-isme/sma-exam-workflow-api/internal/repository"
	appErrors "github.com/noah-isme/sma-exam-workflow-api/pkg/errors"
	"github.com/noah-isme/sma-exam-workflow-api/pkg/export"
)

type riskAlertStore interface {
	GetByID(ctx context.Context, tenantID, id string) (*models.RiskAlert, error)
	List(ctx context.Context, filter models.RiskAlertFilter) ([]models.RiskAlert, error)
	Resolve(ctx context.Context, alert *models.RiskAlert) error
	Summary(ctx context.Context, tenantID string) (*models.RiskAlertSummary, error)
}

var riskExportHeaders = []string{"id", "type", "severity", "entity_type", "entity_id", "status", "message",
	"created_at", "resolved_at", "resolved_by", "resolution_note", "version"}

// RiskAlertService exposes alerts to principals and admins. Alerts are never deleted, only resolved.
type RiskAlertService struct {
	repo       riskAlertStore
	audit      auditEmitter
	cache      *CacheService
	summaryTTL time.Duration
	csv        *export.CSVExporter
	validator  *validator.Validate
	logger     *zap.Logger
	now        func() time.Time
}

// NewRiskAlertService constructs the service.
func NewRiskAlertService(repo riskAlertStore, audit auditLogger, cache *CacheService, summaryTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *RiskAlertService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RiskAlertService{
		repo:       repo,
		audit:      auditEmitter{repo: audit, source: "risk-alert-service", logger: logger},
		cache:      cache,
		summaryTTL: summaryTTL,
		csv:        export.NewCSVExporter(),
		validator:  newValidator(validate),
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// List returns alerts of the caller's tenant.
func (s *RiskAlertService) List(ctx context.Context, actor access.Principal, query dto.RiskAlertQuery) ([]models.RiskAlert, error) {
	if err := authorize(actor, access.ActionRiskAlertView); err != nil {
		return nil, err
	}
	alerts, err := s.repo.List(ctx, models.RiskAlertFilter{
		TenantID:   actor.TenantID,
		Status:     query.Status,
		Types:      query.Types,
		Severities: query.Severities,
		EntityID:   query.EntityID,
		Limit:      query.Limit,
		Offset:     query.Offset,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list risk alerts")
	}
	return alerts, nil
}

// Acknowledge resolves an active alert. A second call fails with AlreadyResolved.
func (s *RiskAlertService) Acknowledge(ctx context.Context, actor access.Principal, id string, req dto.AcknowledgeRiskAlertRequest) (*models.RiskAlert, error) {
	if err := authorize(actor, access.ActionRiskAlertAcknowledge); err != nil {
		return nil, err
	}
	alert, err := s.repo.GetByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, loadError(err, "risk alert")
	}
	if alert.Status == models.RiskAlertStatusResolved {
		return nil, alreadyResolved(alert)
	}
	if err := checkVersion(req.Version, alert.Version); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	now := s.now()
	resolvedBy := actor.UserID
	next := *alert
	next.ResolvedAt = &now
	next.ResolvedBy = &resolvedBy
	if note := strings.TrimSpace(req.Note); note != "" {
		next.ResolutionNote = &note
	}
	if err := s.repo.Resolve(ctx, &next); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			latest, loadErr := s.repo.GetByID(ctx, actor.TenantID, id)
			if loadErr == nil && latest.Status == models.RiskAlertStatusResolved {
				return nil, alreadyResolved(latest)
			}
			current := alert.Version
			if loadErr == nil {
				current = latest.Version
			}
			return nil, appErrors.StaleWrite(alert.Version, current)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to acknowledge risk alert")
	}

	s.logger.Info("risk alert acknowledged", zap.String("tenant_id", actor.TenantID), zap.String("alert_id", id), zap.String("user_id", actor.UserID))
	s.audit.emit(ctx, actor, models.AuditActionRiskAcknowledge, "risk_alert", id,
		map[string]interface{}{"status": alert.Status}, map[string]interface{}{"status": next.Status, "note": next.ResolutionNote})
	_ = s.cache.Invalidate(ctx, riskSummaryCacheKey(actor.TenantID))
	return &next, nil
}

// Summary returns alert counts, served from cache when possible.
func (s *RiskAlertService) Summary(ctx context.Context, actor access.Principal) (*models.RiskAlertSummary, bool, error) {
	if err := authorize(actor, access.ActionRiskAlertView); err != nil {
		return nil, false, err
	}
	var cached models.RiskAlertSummary
	value, hit, err := s.cache.Remember(ctx, riskSummaryCacheKey(actor.TenantID), s.summaryTTL, &cached, func(ctx context.Context) (interface{}, error) {
		return s.repo.Summary(ctx, actor.TenantID)
	})
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to summarise risk alerts")
	}
	return value.(*models.RiskAlertSummary), hit, nil
}

// Export streams the filtered alert history as CSV.
func (s *RiskAlertService) Export(ctx context.Context, actor access.Principal, query dto.RiskAlertQuery, w io.Writer) error {
	if err := authorize(actor, access.ActionRiskAlertExport); err != nil {
		return err
	}
	query.Limit = 200
	dataset := export.Dataset{Headers: riskExportHeaders}
	for offset := 0; ; offset += query.Limit {
		query.Offset = offset
		alerts, err := s.List(ctx, actor, query)
		if err != nil {
			return err
		}
		for _, alert := range alerts {
			dataset.Rows = append(dataset.Rows, riskAlertRow(alert))
		}
		if len(alerts) < query.Limit {
			break
		}
	}
	if err := s.csv.Write(w, dataset); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to export risk alerts")
	}
	return nil
}

func riskAlertRow(alert models.RiskAlert) map[string]string {
	row := map[string]string{
		"id":          alert.ID,
		"type":        string(alert.Type),
		"severity":    string(alert.Severity),
		"entity_type": alert.EntityType,
		"entity_id":   alert.EntityID,
		"status":      string(alert.Status),
		"message":     alert.Message,
		"created_at":  alert.CreatedAt.UTC().Format(time.RFC3339),
		"version":     strconv.FormatInt(alert.Version, 10),
	}
	if alert.ResolvedAt != nil {
		row["resolved_at"] = alert.ResolvedAt.UTC().Format(time.RFC3339)
	}
	if alert.ResolvedBy != nil {
		row["resolved_by"] = *alert.ResolvedBy
	}
	if alert.ResolutionNote != nil {
		row["resolution_note"] = *alert.ResolutionNote
	}
	return row
}

func alreadyResolved(alert *models.RiskAlert) error {
	details := map[string]interface{}{"alertId": alert.ID}
	if alert.ResolvedAt != nil {
		details["resolvedAt"] = alert.ResolvedAt.UTC().Format(time.RFC3339)
	}
	if alert.ResolvedBy != nil {
		details["resolvedBy"] = *alert.ResolvedBy
	}
	return appErrors.WithDetails(appErrors.ErrAlreadyResolved, details)
}
