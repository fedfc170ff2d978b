package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-exam-workflow-api/internal/access"
	"github.com/noah-isme/sma-exam-workflow-api/internal/dto"
	"github.com/noah-isme/sma-exam-workflow-api/internal/models"
	"github.com/noah-isme/sma-exam-workflow-api/pkg/jobs"
	appErrors "github.com/noah-isme/sma-exam-workflow-api/pkg/errors"
)

// Risk evaluation triggers, used as metric labels.
const (
	RiskTriggerAsync    = "async"
	RiskTriggerSchedule = "schedule"
	RiskTriggerManual   = "manual"
	RiskTriggerCLI      = "cli"
)

// JobTypeRiskEvaluate identifies queued tenant evaluations.
const JobTypeRiskEvaluate = "risk.evaluate"

type openTestLister interface {
	ListOpen(ctx context.Context, tenantID string) ([]models.Test, error)
}

type unlockedChapterLister interface {
	ListUnlocked(ctx context.Context, tenantID string) ([]models.Chapter, error)
}

type riskAlertWriter interface {
	ListActive(ctx context.Context, tenantID string) ([]models.RiskAlert, error)
	InsertIfAbsent(ctx context.Context, alert *models.RiskAlert) (bool, error)
}

type tenantLister interface {
	ListActiveIDs(ctx context.Context) ([]string, error)
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// RiskMonitor re-evaluates tenant snapshots and persists new alerts. It only reads tests and chapters.
type RiskMonitor struct {
	tests    openTestLister
	chapters unlockedChapterLister
	alerts   riskAlertWriter
	tenants  tenantLister
	cache    *CacheService
	metrics  *MetricsService
	queue    jobEnqueuer
	rules    RiskRules
	logger   *zap.Logger
	now      func() time.Time
}

// RiskMonitorOption configures the monitor.
type RiskMonitorOption func(*RiskMonitor)

// WithRiskCache invalidates cached summaries after new alerts.
func WithRiskCache(cache *CacheService) RiskMonitorOption {
	return func(m *RiskMonitor) {
		m.cache = cache
	}
}

// WithRiskMetrics records evaluation timings and raised alerts.
func WithRiskMetrics(metrics *MetricsService) RiskMonitorOption {
	return func(m *RiskMonitor) {
		m.metrics = metrics
	}
}

// WithRiskClock overrides the time source.
func WithRiskClock(now func() time.Time) RiskMonitorOption {
	return func(m *RiskMonitor) {
		if now != nil {
			m.now = now
		}
	}
}

// NewRiskMonitor constructs the monitor.
func NewRiskMonitor(tests openTestLister, chapters unlockedChapterLister, alerts riskAlertWriter, tenants tenantLister, rules RiskRules, logger *zap.Logger, opts ...RiskMonitorOption) *RiskMonitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &RiskMonitor{
		tests:    tests,
		chapters: chapters,
		alerts:   alerts,
		tenants:  tenants,
		rules:    rules,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// AttachQueue routes TriggerTenant through an asynchronous job queue.
func (m *RiskMonitor) AttachQueue(queue jobEnqueuer) {
	m.queue = queue
}

// TriggerTenant enqueues a re-evaluation. Without a queue, or when it is full, the scheduled scan catches up.
func (m *RiskMonitor) TriggerTenant(tenantID, reason string) {
	if m.queue == nil || tenantID == "" {
		return
	}
	err := m.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    JobTypeRiskEvaluate,
		Key:     "risk:" + tenantID,
		Payload: tenantID,
	})
	if err != nil {
		m.logger.Warn("risk evaluation not queued", zap.String("tenant_id", tenantID), zap.String("reason", reason), zap.Error(err))
	}
}

// HandleJob is the queue handler for JobTypeRiskEvaluate.
func (m *RiskMonitor) HandleJob(ctx context.Context, job jobs.Job) error {
	tenantID, ok := job.Payload.(string)
	if !ok || tenantID == "" {
		return fmt.Errorf("risk job %s: unexpected payload %T", job.ID, job.Payload)
	}
	_, err := m.Evaluate(ctx, tenantID, RiskTriggerAsync)
	return err
}

// EvaluateAs runs a pass on behalf of a user, checking the gate first.
func (m *RiskMonitor) EvaluateAs(ctx context.Context, actor access.Principal) (*dto.RiskEvaluationResult, error) {
	if err := authorize(actor, access.ActionRiskAlertEvaluate); err != nil {
		return nil, err
	}
	return m.Evaluate(ctx, actor.TenantID, RiskTriggerManual)
}

// Evaluate runs every rule over one tenant. Re-running on unchanged state raises nothing new.
func (m *RiskMonitor) Evaluate(ctx context.Context, tenantID, trigger string) (*dto.RiskEvaluationResult, error) {
	start := time.Now()
	defer func() { m.metrics.ObserveRiskEvaluation(trigger, time.Since(start)) }()

	tests, err := m.tests.ListOpen(ctx, tenantID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tests for risk evaluation")
	}
	chapters, err := m.chapters.ListUnlocked(ctx, tenantID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load chapters for risk evaluation")
	}
	active, err := m.alerts.ListActive(ctx, tenantID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load active risk alerts")
	}
	existing := make(map[string]struct{}, len(active))
	for _, alert := range active {
		existing[alert.Key()] = struct{}{}
	}

	now := m.now()
	candidates := EvaluateRiskRules(m.rules, tenantID, tests, chapters, now)
	result := &dto.RiskEvaluationResult{
		TenantID:          tenantID,
		TestsEvaluated:    len(tests),
		ChaptersEvaluated: len(chapters),
		Candidates:        len(candidates),
		Raised:            []models.RiskAlert{},
		RaisedByType:      map[models.RiskAlertType]int{},
	}
	for i := range candidates {
		alert := candidates[i]
		if _, ok := existing[alert.Key()]; ok {
			continue
		}
		alert.CreatedAt = now
		inserted, err := m.alerts.InsertIfAbsent(ctx, &alert)
		if err != nil {
			return result, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist risk alert")
		}
		if !inserted {
			continue
		}
		result.Raised = append(result.Raised, alert)
		result.RaisedByType[alert.Type]++
		m.metrics.RecordAlertRaised(alert.Type)
	}

	if len(result.Raised) > 0 {
		m.logger.Info("risk alerts raised",
			zap.String("tenant_id", tenantID),
			zap.String("trigger", trigger),
			zap.Int("raised", len(result.Raised)),
		)
		if m.cache != nil {
			_ = m.cache.Invalidate(ctx, riskSummaryCacheKey(tenantID))
		}
	}
	return result, nil
}

// EvaluateAll runs a pass over every active tenant, continuing past per-tenant failures.
func (m *RiskMonitor) EvaluateAll(ctx context.Context, trigger string) ([]dto.RiskEvaluationResult, error) {
	tenantIDs, err := m.tenants.ListActiveIDs(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tenants")
	}
	results := make([]dto.RiskEvaluationResult, 0, len(tenantIDs))
	var failed int
	for _, tenantID := range tenantIDs {
		if ctx.Err() != nil {
			return results, ctx.Err()
		}
		result, err := m.Evaluate(ctx, tenantID, trigger)
		if err != nil {
			failed++
			m.logger.Error("risk evaluation failed", zap.String("tenant_id", tenantID), zap.Error(err))
			continue
		}
		results = append(results, *result)
	}
	if failed > 0 {
		return results, fmt.Errorf("risk evaluation failed for %d of %d tenants", failed, len(tenantIDs))
	}
	return results, nil
}

func riskSummaryCacheKey(tenantID string) string {
	return "risk:summary:" + tenantID
}
