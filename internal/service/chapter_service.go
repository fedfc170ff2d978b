package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-exam-workflow-api/internal/access"
	"github.com/noah-isme/sma-exam-workflow-api/internal/dto"
	"github.com/noah-isme/sma-exam-workflow-api/internal/models"
	"github.com/noah-isme/sma-exam-workflow-api/internal/repository"
	"github.com/noah-isme/sma-exam-workflow-api/internal/workflow"
	appErrors "github.com/noah-isme/sma-exam-workflow-api/pkg/errors"
)

type chapterStore interface {
	Create(ctx context.Context, chapter *models.Chapter) error
	GetByID(ctx context.Context, tenantID, id string) (*models.Chapter, error)
	List(ctx context.Context, filter models.ChapterFilter) ([]models.Chapter, error)
	Update(ctx context.Context, chapter *models.Chapter) error
}

// chapterMove computes the next chapter; changed=false means nothing to persist.
type chapterMove func(c models.Chapter, now time.Time) (next models.Chapter, changed bool, err error)

// ChapterService is the chapter lifecycle manager.
type ChapterService struct {
	repo      chapterStore
	audit     auditEmitter
	trigger   RiskTrigger
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// ChapterServiceOption configures the service.
type ChapterServiceOption func(*ChapterService)

// WithChapterRiskTrigger re-evaluates risk after committed transitions.
func WithChapterRiskTrigger(trigger RiskTrigger) ChapterServiceOption {
	return func(s *ChapterService) {
		s.trigger = trigger
	}
}

// WithChapterMetrics records transition outcomes.
func WithChapterMetrics(metrics *MetricsService) ChapterServiceOption {
	return func(s *ChapterService) {
		s.metrics = metrics
	}
}

// WithChapterClock overrides the time source.
func WithChapterClock(now func() time.Time) ChapterServiceOption {
	return func(s *ChapterService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewChapterService constructs the service.
func NewChapterService(repo chapterStore, audit auditLogger, validate *validator.Validate, logger *zap.Logger, opts ...ChapterServiceOption) *ChapterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &ChapterService{
		repo:      repo,
		audit:     auditEmitter{repo: audit, source: "chapter-service", logger: logger},
		validator: newValidator(validate),
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// Create adds a draft chapter.
func (s *ChapterService) Create(ctx context.Context, actor access.Principal, req dto.CreateChapterRequest) (*models.Chapter, error) {
	if err := authorize(actor, access.ActionChapterCreate); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	topics := workflow.NormalizeTopics(req.Topics)
	if len(topics) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one topic is required")
	}
	chapter := &models.Chapter{
		TenantID:        actor.TenantID,
		Subject:         strings.TrimSpace(req.Subject),
		Grade:           strings.TrimSpace(req.Grade),
		Position:        req.Position,
		Title:           strings.TrimSpace(req.Title),
		Status:          models.ChapterStatusDraft,
		Topics:          pq.StringArray(topics),
		CompletedTopics: pq.StringArray{},
		CreatedBy:       actor.UserID,
		CreatedAt:       s.now(),
	}
	if err := s.repo.Create(ctx, chapter); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create chapter")
	}
	s.metrics.RecordTransition("chapter", "create", OutcomeApplied)
	s.audit.emit(ctx, actor, models.AuditActionChapterCreate, "chapter", chapter.ID, nil, chapter)
	return chapter, nil
}

// Get returns one chapter of the caller's tenant.
func (s *ChapterService) Get(ctx context.Context, actor access.Principal, id string) (*models.Chapter, error) {
	if err := authorize(actor, access.ActionChapterView); err != nil {
		return nil, err
	}
	chapter, err := s.repo.GetByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, loadError(err, "chapter")
	}
	return chapter, nil
}

// List returns the caller's tenant chapters.
func (s *ChapterService) List(ctx context.Context, actor access.Principal, query dto.ChapterQuery) ([]models.Chapter, error) {
	if err := authorize(actor, access.ActionChapterView); err != nil {
		return nil, err
	}
	chapters, err := s.repo.List(ctx, models.ChapterFilter{
		TenantID: actor.TenantID,
		Subject:  query.Subject,
		Grade:    query.Grade,
		Status:   query.Status,
		Limit:    query.Limit,
		Offset:   query.Offset,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list chapters")
	}
	return chapters, nil
}

// Unlock opens the chapter. A supplied deadline must lie in the future.
func (s *ChapterService) Unlock(ctx context.Context, actor access.Principal, id string, req dto.UnlockChapterRequest) (*models.Chapter, error) {
	return s.apply(ctx, actor, id, access.ActionChapterUnlock, workflow.ChapterUnlock, req.Version, func(c models.Chapter, now time.Time) (models.Chapter, bool, error) {
		next, err := workflow.UnlockChapter(c, req.Deadline, now)
		return next, err == nil, err
	})
}

// Lock closes an unlocked chapter.
func (s *ChapterService) Lock(ctx context.Context, actor access.Principal, id string, expectedVersion *int64) (*models.Chapter, error) {
	return s.apply(ctx, actor, id, access.ActionChapterLock, workflow.ChapterLock, expectedVersion, func(c models.Chapter, _ time.Time) (models.Chapter, bool, error) {
		next, err := workflow.LockChapter(c)
		return next, err == nil, err
	})
}

// Complete marks the chapter exam finished.
func (s *ChapterService) Complete(ctx context.Context, actor access.Principal, id string, expectedVersion *int64) (*models.Chapter, error) {
	return s.apply(ctx, actor, id, access.ActionChapterComplete, workflow.ChapterComplete, expectedVersion, func(c models.Chapter, _ time.Time) (models.Chapter, bool, error) {
		next, err := workflow.CompleteChapter(c)
		return next, err == nil, err
	})
}

// SetDeadline sets the deadline of an unlocked chapter.
func (s *ChapterService) SetDeadline(ctx context.Context, actor access.Principal, id string, req dto.SetDeadlineRequest) (*models.Chapter, error) {
	return s.apply(ctx, actor, id, access.ActionChapterSetDeadline, workflow.ChapterSetDeadline, req.Version, func(c models.Chapter, now time.Time) (models.Chapter, bool, error) {
		if req.Deadline.IsZero() {
			return c, false, appErrors.Clone(appErrors.ErrInvalidDeadline, "deadline is required")
		}
		next, err := workflow.SetChapterDeadline(c, req.Deadline, now)
		return next, err == nil, err
	})
}

// RevealScores publishes scores of a completed chapter; repeat calls are no-ops.
func (s *ChapterService) RevealScores(ctx context.Context, actor access.Principal, id string, expectedVersion *int64) (*models.Chapter, error) {
	return s.apply(ctx, actor, id, access.ActionChapterReveal, workflow.ChapterRevealScores, expectedVersion, func(c models.Chapter, _ time.Time) (models.Chapter, bool, error) {
		return workflow.RevealChapterScores(c)
	})
}

// UpdatePortions replaces completed topics. Unknown topics reject the call without touching state.
func (s *ChapterService) UpdatePortions(ctx context.Context, actor access.Principal, id string, req dto.UpdatePortionsRequest) (*models.Chapter, error) {
	return s.apply(ctx, actor, id, access.ActionChapterUpdatePortions, workflow.ChapterUpdatePortions, req.Version, func(c models.Chapter, _ time.Time) (models.Chapter, bool, error) {
		next, err := workflow.UpdatePortions(c, req.CompletedTopics)
		if err != nil {
			return c, false, err
		}
		return next, !sameTopics(c.CompletedTopics, next.CompletedTopics), nil
	})
}

func (s *ChapterService) apply(ctx context.Context, actor access.Principal, id string, gate access.Action, action workflow.ChapterAction, expectedVersion *int64, move chapterMove) (*models.Chapter, error) {
	if err := authorize(actor, gate); err != nil {
		s.metrics.RecordTransition("chapter", string(action), OutcomeDenied)
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, loadError(err, "chapter")
	}
	if err := checkVersion(expectedVersion, current.Version); err != nil {
		s.metrics.RecordTransition("chapter", string(action), OutcomeStale)
		return nil, err
	}

	next, changed, err := move(*current, s.now())
	if err != nil {
		s.metrics.RecordTransition("chapter", string(action), OutcomeRejected)
		return nil, err
	}
	if !changed {
		s.metrics.RecordTransition("chapter", string(action), OutcomeNoop)
		return current, nil
	}

	expected := next.Version
	if err := s.repo.Update(ctx, &next); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			s.metrics.RecordTransition("chapter", string(action), OutcomeStale)
			latest := expected
			if fresh, loadErr := s.repo.GetByID(ctx, actor.TenantID, id); loadErr == nil {
				latest = fresh.Version
			}
			return nil, appErrors.StaleWrite(expected, latest)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update chapter")
	}

	s.metrics.RecordTransition("chapter", string(action), OutcomeApplied)
	s.logger.Info("chapter transition committed",
		zap.String("tenant_id", actor.TenantID),
		zap.String("chapter_id", next.ID),
		zap.String("action", string(action)),
		zap.String("status", string(next.Status)),
		zap.Int64("version", next.Version),
	)
	s.audit.emit(ctx, actor, models.AuditActionChapterTransition, "chapter", next.ID, chapterAuditView(*current), chapterAuditView(next))
	if s.trigger != nil {
		s.trigger.TriggerTenant(actor.TenantID, "chapter."+string(action))
	}
	return &next, nil
}

func chapterAuditView(c models.Chapter) map[string]interface{} {
	return map[string]interface{}{
		"status":          c.Status,
		"deadline":        c.Deadline,
		"scoresRevealed":  c.ScoresRevealed,
		"completedTopics": c.CompletedTopics,
		"version":         c.Version,
	}
}

func sameTopics(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
