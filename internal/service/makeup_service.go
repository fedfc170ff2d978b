package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-exam-workflow-api/internal/access"
	"github.com/noah-isme/sma-exam-workflow-api/internal/dto"
	"github.com/noah-isme/sma-exam-workflow-api/internal/models"
	"github.com/noah-isme/sma-exam-workflow-api/internal/repository"
	"github.com/noah-isme/sma-exam-workflow-api/internal/workflow"
	appErrors "github.com/noah-isme/sma-exam-workflow-api/pkg/errors"
)

type makeupStore interface {
	Create(ctx context.Context, makeup *models.MakeupTest) error
	GetByID(ctx context.Context, tenantID, id string) (*models.MakeupTest, error)
	FindOutstanding(ctx context.Context, tenantID, testID, studentID string) (*models.MakeupTest, error)
	ListByTest(ctx context.Context, tenantID, testID string) ([]models.MakeupTest, error)
	UpdateStatus(ctx context.Context, makeup *models.MakeupTest) error
}

type testReader interface {
	GetByID(ctx context.Context, tenantID, id string) (*models.Test, error)
}

var makeupActionGate = map[workflow.MakeupAction]access.Action{
	workflow.MakeupStart:    access.ActionMakeupStart,
	workflow.MakeupComplete: access.ActionMakeupComplete,
	workflow.MakeupCancel:   access.ActionMakeupCancel,
}

// MakeupService schedules supplementary sittings. It reads papers but never mutates them.
type MakeupService struct {
	repo      makeupStore
	tests     testReader
	audit     auditEmitter
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewMakeupService constructs the service.
func NewMakeupService(repo makeupStore, tests testReader, audit auditLogger, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *MakeupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MakeupService{
		repo:      repo,
		tests:     tests,
		audit:     auditEmitter{repo: audit, source: "makeup-service", logger: logger},
		metrics:   metrics,
		validator: newValidator(validate),
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Schedule books a sitting for a student who missed an examination that has taken place.
func (s *MakeupService) Schedule(ctx context.Context, actor access.Principal, req dto.ScheduleMakeupRequest) (*models.MakeupTest, error) {
	if err := authorize(actor, access.ActionMakeupSchedule); err != nil {
		s.metrics.RecordTransition("makeup_test", "schedule", OutcomeDenied)
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	if !req.ScheduledDate.After(s.now()) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "scheduledDate must be in the future")
	}

	test, err := s.tests.GetByID(ctx, actor.TenantID, req.TestID)
	if err != nil {
		return nil, loadError(err, "test")
	}
	if !workflow.EligibleForMakeup(test.WorkflowState) {
		s.metrics.RecordTransition("makeup_test", "schedule", OutcomeRejected)
		return nil, appErrors.WithDetails(appErrors.ErrIneligibleTest, map[string]interface{}{
			"testId":        test.ID,
			"workflowState": string(test.WorkflowState),
		})
	}

	existing, err := s.repo.FindOutstanding(ctx, actor.TenantID, test.ID, req.StudentID)
	switch {
	case err == nil && workflow.Outstanding(existing.Status):
		s.metrics.RecordTransition("makeup_test", "schedule", OutcomeRejected)
		return nil, appErrors.WithDetails(appErrors.ErrMakeupExists, map[string]interface{}{"makeupTestId": existing.ID})
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check outstanding makeup tests")
	}

	makeup := &models.MakeupTest{
		TenantID:      actor.TenantID,
		TestID:        test.ID,
		StudentID:     req.StudentID,
		Reason:        strings.TrimSpace(req.Reason),
		ScheduledDate: req.ScheduledDate.UTC(),
		Status:        models.MakeupStatusScheduled,
		CreatedBy:     actor.UserID,
	}
	if err := s.repo.Create(ctx, makeup); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.metrics.RecordTransition("makeup_test", "schedule", OutcomeRejected)
			return nil, appErrors.ErrMakeupExists
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to schedule makeup test")
	}
	s.metrics.RecordTransition("makeup_test", "schedule", OutcomeApplied)
	s.audit.emit(ctx, actor, models.AuditActionMakeupTransition, "makeup_test", makeup.ID, nil, makeup)
	return makeup, nil
}

// ListByTest returns every sitting booked against a paper.
func (s *MakeupService) ListByTest(ctx context.Context, actor access.Principal, testID string) ([]models.MakeupTest, error) {
	if err := authorize(actor, access.ActionMakeupView); err != nil {
		return nil, err
	}
	if _, err := s.tests.GetByID(ctx, actor.TenantID, testID); err != nil {
		return nil, loadError(err, "test")
	}
	makeups, err := s.repo.ListByTest(ctx, actor.TenantID, testID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list makeup tests")
	}
	return makeups, nil
}

// Transition starts, completes or cancels a sitting.
func (s *MakeupService) Transition(ctx context.Context, actor access.Principal, id string, action workflow.MakeupAction, expectedVersion *int64) (*models.MakeupTest, error) {
	gate, ok := makeupActionGate[action]
	if !ok {
		return nil, appErrors.InvalidTransition("makeup_test", string(action), "", "")
	}
	if err := authorize(actor, gate); err != nil {
		s.metrics.RecordTransition("makeup_test", string(action), OutcomeDenied)
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, loadError(err, "makeup test")
	}
	if err := checkVersion(expectedVersion, current.Version); err != nil {
		s.metrics.RecordTransition("makeup_test", string(action), OutcomeStale)
		return nil, err
	}
	next, err := workflow.ApplyMakeup(*current, action)
	if err != nil {
		s.metrics.RecordTransition("makeup_test", string(action), OutcomeRejected)
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, &next); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			s.metrics.RecordTransition("makeup_test", string(action), OutcomeStale)
			latest, loadErr := s.repo.GetByID(ctx, actor.TenantID, id)
			if loadErr != nil {
				return nil, appErrors.StaleWrite(current.Version, current.Version)
			}
			return nil, appErrors.StaleWrite(current.Version, latest.Version)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update makeup test")
	}
	s.metrics.RecordTransition("makeup_test", string(action), OutcomeApplied)
	s.audit.emit(ctx, actor, models.AuditActionMakeupTransition, "makeup_test", next.ID,
		map[string]interface{}{"status": current.Status}, map[string]interface{}{"status": next.Status})
	return &next, nil
}
