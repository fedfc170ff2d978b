package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-exam-workflow-api/internal/access"
	"github.com/noah-isme/sma-exam-workflow-api/internal/models"
	appErrors "github.com/noah-isme/sma-exam-workflow-api/pkg/errors"
)

type auditLogger interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// RiskTrigger schedules an asynchronous risk re-evaluation for a tenant.
type RiskTrigger interface {
	TriggerTenant(tenantID, reason string)
}

// authorize consults the gate. It runs before any I/O so a denial never partially applies.
func authorize(actor access.Principal, action access.Action) error {
	return access.Authorize(actor, action, actor.TenantID).Err()
}

// checkVersion fails fast when the caller supplied a version other than the stored one.
func checkVersion(expected *int64, current int64) error {
	if expected == nil || *expected == current {
		return nil
	}
	return appErrors.StaleWrite(*expected, current)
}

func loadError(err error, entity string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load "+entity)
}

func validationError(err error) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
}

func newValidator(validate *validator.Validate) *validator.Validate {
	if validate == nil {
		return validator.New()
	}
	return validate
}

// auditEmitter writes best-effort audit rows; failures are logged, never returned.
type auditEmitter struct {
	repo   auditLogger
	source string
	logger *zap.Logger
}

func (a auditEmitter) emit(ctx context.Context, actor access.Principal, action, resource, resourceID string, oldValue, newValue interface{}) {
	if a.repo == nil {
		return
	}
	userID := actor.UserID
	log := &models.AuditLog{
		TenantID:   actor.TenantID,
		UserID:     &userID,
		Action:     action,
		Resource:   resource,
		ResourceID: &resourceID,
		OldValues:  marshalAudit(oldValue),
		NewValues:  marshalAudit(newValue),
		IPAddress:  "system",
		UserAgent:  a.source,
	}
	if err := a.repo.CreateAuditLog(ctx, log); err != nil {
		a.logger.Warn("failed to persist audit log", zap.String("action", action), zap.String("resource_id", resourceID), zap.Error(err))
	}
}

func marshalAudit(value interface{}) []byte {
	if value == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil
	}
	return data
}
