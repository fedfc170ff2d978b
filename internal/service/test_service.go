package service

import (
	"context"
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

type testStore interface {
	Create(ctx context.Context, test *models.Test) error
	GetByID(ctx context.Context, tenantID, id string) (*models.Test, error)
	List(ctx context.Context, filter models.TestFilter) ([]models.Test, error)
	Update(ctx context.Context, test *models.Test) error
}

// BlueprintResolver supplies the section/mark structure a paper is generated from.
type BlueprintResolver interface {
	GetByID(ctx context.Context, tenantID, id string) (*models.Blueprint, error)
}

var testActionGate = map[workflow.TestAction]access.Action{
	workflow.TestSubmitReview:      access.ActionTestSubmitReview,
	workflow.TestApprove:           access.ActionTestApprove,
	workflow.TestSendToCommittee:   access.ActionTestSendToCommittee,
	workflow.TestLock:              access.ActionTestLock,
	workflow.TestComplete:          access.ActionTestComplete,
	workflow.TestMarkConfidential:  access.ActionTestMarkConfidential,
	workflow.TestMarkPrintingReady: access.ActionTestMarkPrintingReady,
	workflow.TestReveal:            access.ActionTestReveal,
}

// TestService is the examination paper workflow engine.
type TestService struct {
	repo       testStore
	blueprints BlueprintResolver
	audit      auditEmitter
	trigger    RiskTrigger
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
	now        func() time.Time
}

// TestServiceOption configures the service.
type TestServiceOption func(*TestService)

// WithTestRiskTrigger re-evaluates risk after committed transitions.
func WithTestRiskTrigger(trigger RiskTrigger) TestServiceOption {
	return func(s *TestService) {
		s.trigger = trigger
	}
}

// WithTestMetrics records transition outcomes.
func WithTestMetrics(metrics *MetricsService) TestServiceOption {
	return func(s *TestService) {
		s.metrics = metrics
	}
}

// WithTestClock overrides the time source.
func WithTestClock(now func() time.Time) TestServiceOption {
	return func(s *TestService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewTestService constructs the service with defaults.
func NewTestService(repo testStore, blueprints BlueprintResolver, audit auditLogger, validate *validator.Validate, logger *zap.Logger, opts ...TestServiceOption) *TestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &TestService{
		repo:       repo,
		blueprints: blueprints,
		audit:      auditEmitter{repo: audit, source: "test-service", logger: logger},
		validator:  newValidator(validate),
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// Create builds a draft paper from its blueprint. Duration defaults from total marks unless given explicitly.
func (s *TestService) Create(ctx context.Context, actor access.Principal, req dto.CreateTestRequest) (*models.Test, error) {
	if err := authorize(actor, access.ActionTestCreate); err != nil {
		s.metrics.RecordTransition("test", "create", OutcomeDenied)
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	blueprint, err := s.blueprints.GetByID(ctx, actor.TenantID, req.BlueprintID)
	if err != nil {
		return nil, loadError(err, "blueprint")
	}

	totalMarks := req.TotalMarks
	if totalMarks == 0 {
		totalMarks = blueprint.Sections.TotalMarks()
	}
	if totalMarks <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "totalMarks is required when the blueprint carries no marks")
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "title must not be blank")
	}
	duration := req.DurationMinutes
	if duration == 0 {
		duration = workflow.DefaultDuration(totalMarks)
	}
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		subject = blueprint.Subject
	}
	grade := strings.TrimSpace(req.Grade)
	if grade == "" {
		grade = blueprint.Grade
	}

	now := s.now()
	test := &models.Test{
		TenantID:        actor.TenantID,
		BlueprintID:     blueprint.ID,
		Title:              title,
		Subject:            subject,
		Grade:              grade,
		TotalMarks:         totalMarks,
		DurationMinutes:    duration,
		DurationOverridden: req.DurationMinutes != 0,
		ExamDate:           req.ExamDate.UTC(),
		PaperFormat:        req.PaperFormat,
		WorkflowState:      models.TestStateDraft,
		StateChangedAt:     now,
		CreatedBy:          actor.UserID,
		CreatedAt:          now,
	}
	if err := s.repo.Create(ctx, test); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create test")
	}
	s.metrics.RecordTransition("test", "create", OutcomeApplied)
	s.audit.emit(ctx, actor, models.AuditActionTestCreate, "test", test.ID, nil, test)
	s.triggerRisk(actor.TenantID, "test.create")
	return test, nil
}

// Get returns one paper of the caller's tenant.
func (s *TestService) Get(ctx context.Context, actor access.Principal, id string) (*models.Test, error) {
	if err := authorize(actor, access.ActionTestView); err != nil {
		return nil, err
	}
	test, err := s.repo.GetByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, loadError(err, "test")
	}
	return test, nil
}

// List returns the caller's tenant papers.
func (s *TestService) List(ctx context.Context, actor access.Principal, query dto.TestQuery) ([]models.Test, error) {
	if err := authorize(actor, access.ActionTestView); err != nil {
		return nil, err
	}
	for _, state := range query.States {
		if !state.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown workflow state: "+string(state))
		}
	}
	tests, err := s.repo.List(ctx, models.TestFilter{
		TenantID: actor.TenantID,
		Subject:  query.Subject,
		Grade:    query.Grade,
		States:   query.States,
		Limit:    query.Limit,
		Offset:   query.Offset,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tests")
	}
	return tests, nil
}

// Update edits paper content. Only drafts are editable.
func (s *TestService) Update(ctx context.Context, actor access.Principal, id string, req dto.UpdateTestRequest) (*models.Test, error) {
	if err := authorize(actor, access.ActionTestUpdate); err != nil {
		s.metrics.RecordTransition("test", "update", OutcomeDenied)
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, loadError(err, "test")
	}
	if err := checkVersion(req.Version, current.Version); err != nil {
		s.metrics.RecordTransition("test", "update", OutcomeStale)
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	if err := workflow.EnsureEditable(*current); err != nil {
		s.metrics.RecordTransition("test", "update", OutcomeRejected)
		return nil, err
	}

	next := *current
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "title must not be blank")
		}
		next.Title = title
	}
	if req.TotalMarks != nil {
		next.TotalMarks = *req.TotalMarks
		if req.DurationMinutes == nil && !next.DurationOverridden {
			next.DurationMinutes = workflow.DefaultDuration(next.TotalMarks)
		}
	}
	if req.DurationMinutes != nil {
		next.DurationMinutes = *req.DurationMinutes
		next.DurationOverridden = true
	}
	if req.ExamDate != nil {
		next.ExamDate = req.ExamDate.UTC()
	}
	if req.PaperFormat != nil {
		next.PaperFormat = *req.PaperFormat
	}

	if err := s.save(ctx, &next); err != nil {
		s.metrics.RecordTransition("test", "update", outcomeFor(err))
		return nil, err
	}
	s.metrics.RecordTransition("test", "update", OutcomeApplied)
	s.audit.emit(ctx, actor, models.AuditActionTestUpdate, "test", next.ID, current, next)
	s.triggerRisk(actor.TenantID, "test.update")
	return &next, nil
}

// Transition applies one workflow action. Flag actions that are already in effect return the paper unchanged.
func (s *TestService) Transition(ctx context.Context, actor access.Principal, id string, action workflow.TestAction, expectedVersion *int64) (*models.Test, error) {
	gate, ok := testActionGate[action]
	if !ok {
		return nil, appErrors.InvalidTransition("test", string(action), "", "")
	}
	if err := authorize(actor, gate); err != nil {
		s.metrics.RecordTransition("test", string(action), OutcomeDenied)
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, loadError(err, "test")
	}
	if err := checkVersion(expectedVersion, current.Version); err != nil {
		s.metrics.RecordTransition("test", string(action), OutcomeStale)
		return nil, err
	}

	next, changed, err := workflow.ApplyTest(*current, action, s.now())
	if err != nil {
		s.metrics.RecordTransition("test", string(action), OutcomeRejected)
		return nil, err
	}
	if !changed {
		s.metrics.RecordTransition("test", string(action), OutcomeNoop)
		return current, nil
	}
	if err := s.save(ctx, &next); err != nil {
		s.metrics.RecordTransition("test", string(action), outcomeFor(err))
		return nil, err
	}

	s.metrics.RecordTransition("test", string(action), OutcomeApplied)
	s.logger.Info("test transition committed",
		zap.String("tenant_id", actor.TenantID),
		zap.String("test_id", next.ID),
		zap.String("action", string(action)),
		zap.String("from", string(current.WorkflowState)),
		zap.String("to", string(next.WorkflowState)),
		zap.Int64("version", next.Version),
	)
	s.audit.emit(ctx, actor, models.AuditActionTestTransition, "test", next.ID, testAuditView(*current), testAuditView(next))
	s.triggerRisk(actor.TenantID, "test."+string(action))
	return &next, nil
}

// save writes under the version guard and maps a lost race to StaleWrite with the winner's version.
func (s *TestService) save(ctx context.Context, test *models.Test) error {
	expected := test.Version
	err := s.repo.Update(ctx, test)
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrVersionConflict) {
		latest, loadErr := s.repo.GetByID(ctx, test.TenantID, test.ID)
		if loadErr != nil {
			return appErrors.StaleWrite(expected, expected)
		}
		return appErrors.StaleWrite(expected, latest.Version)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update test")
}

func (s *TestService) triggerRisk(tenantID, reason string) {
	if s.trigger != nil {
		s.trigger.TriggerTenant(tenantID, reason)
	}
}

func testAuditView(t models.Test) map[string]interface{} {
	return map[string]interface{}{
		"workflowState":  t.WorkflowState,
		"isConfidential": t.IsConfidential,
		"printingReady":  t.PrintingReady,
		"printedAt":      t.PrintedAt,
		"isRevealed":     t.IsRevealed,
		"version":        t.Version,
	}
}

func outcomeFor(err error) string {
	if errors.Is(err, appErrors.ErrStaleWrite) {
		return OutcomeStale
	}
	return OutcomeRejected
}
