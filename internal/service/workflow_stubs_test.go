package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/noah-isme/sma-exam-workflow-api/internal/access"
	"github.com/noah-isme/sma-exam-workflow-api/internal/models"
	"github.com/noah-isme/sma-exam-workflow-api/internal/repository"
	appErrors "github.com/noah-isme/sma-exam-workflow-api/pkg/errors"
	"github.com/noah-isme/sma-exam-workflow-api/pkg/jobs"
)

var fixedNow = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func principal(role models.UserRole) access.Principal {
	return access.Principal{UserID: "user-" + string(role), TenantID: "school-a", Role: role}
}

func int64Ptr(v int64) *int64 { return &v }

// examTestRepoStub keeps rows keyed by tenant/id and enforces the version guard like the SQL store.
type examTestRepoStub struct {
	mu      sync.Mutex
	rows    map[string]models.Test
	seq     int
	updates int
	// bumpBeforeUpdate simulates a concurrent writer winning the race.
	bumpBeforeUpdate bool
}

func newExamTestRepoStub(tests ...models.Test) *examTestRepoStub {
	repo := &examTestRepoStub{rows: map[string]models.Test{}}
	for _, t := range tests {
		if t.Version == 0 {
			t.Version = 1
		}
		repo.rows[t.TenantID+"/"+t.ID] = t
	}
	return repo
}

func (r *examTestRepoStub) Create(_ context.Context, test *models.Test) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	test.ID = fmt.Sprintf("test-%d", r.seq)
	test.Version = 1
	r.rows[test.TenantID+"/"+test.ID] = *test
	return nil
}

func (r *examTestRepoStub) GetByID(_ context.Context, tenantID, id string) (*models.Test, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.rows[tenantID+"/"+id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &t, nil
}

func (r *examTestRepoStub) List(_ context.Context, filter models.TestFilter) ([]models.Test, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Test
	for _, t := range r.rows {
		if t.TenantID == filter.TenantID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *examTestRepoStub) ListOpen(ctx context.Context, tenantID string) ([]models.Test, error) {
	all, _ := r.List(ctx, models.TestFilter{TenantID: tenantID})
	var out []models.Test
	for _, t := range all {
		if t.WorkflowState != models.TestStateCompleted {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *examTestRepoStub) Update(_ context.Context, test *models.Test) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := test.TenantID + "/" + test.ID
	stored, ok := r.rows[key]
	if !ok {
		return repository.ErrVersionConflict
	}
	if r.bumpBeforeUpdate {
		stored.Version++
		r.rows[key] = stored
		r.bumpBeforeUpdate = false
	}
	if stored.Version != test.Version {
		return repository.ErrVersionConflict
	}
	test.Version++
	r.rows[key] = *test
	r.updates++
	return nil
}

type blueprintStub struct {
	blueprints map[string]models.Blueprint
}

func (b *blueprintStub) GetByID(_ context.Context, tenantID, id string) (*models.Blueprint, error) {
	bp, ok := b.blueprints[id]
	if !ok || bp.TenantID != tenantID {
		return nil, sql.ErrNoRows
	}
	return &bp, nil
}

type auditSink struct {
	mu   sync.Mutex
	logs []*models.AuditLog
}

func (a *auditSink) CreateAuditLog(_ context.Context, log *models.AuditLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.logs = append(a.logs, log)
	return nil
}

func (a *auditSink) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.logs))
	for i, l := range a.logs {
		out[i] = l.Action
	}
	return out
}

type triggerRecorder struct {
	mu      sync.Mutex
	reasons []string
}

func (t *triggerRecorder) TriggerTenant(tenantID, reason string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reasons = append(t.reasons, tenantID+":"+reason)
}

type chapterRepoStub struct {
	rows    map[string]models.Chapter
	seq     int
	updates int
}

func newChapterRepoStub(chapters ...models.Chapter) *chapterRepoStub {
	repo := &chapterRepoStub{rows: map[string]models.Chapter{}}
	for _, c := range chapters {
		if c.Version == 0 {
			c.Version = 1
		}
		repo.rows[c.TenantID+"/"+c.ID] = c
	}
	return repo
}

func (r *chapterRepoStub) Create(_ context.Context, chapter *models.Chapter) error {
	r.seq++
	chapter.ID = fmt.Sprintf("chapter-%d", r.seq)
	chapter.Version = 1
	r.rows[chapter.TenantID+"/"+chapter.ID] = *chapter
	return nil
}

func (r *chapterRepoStub) GetByID(_ context.Context, tenantID, id string) (*models.Chapter, error) {
	c, ok := r.rows[tenantID+"/"+id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &c, nil
}

func (r *chapterRepoStub) List(_ context.Context, filter models.ChapterFilter) ([]models.Chapter, error) {
	var out []models.Chapter
	for _, c := range r.rows {
		if c.TenantID == filter.TenantID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *chapterRepoStub) ListUnlocked(_ context.Context, tenantID string) ([]models.Chapter, error) {
	var out []models.Chapter
	for _, c := range r.rows {
		if c.TenantID == tenantID && c.Status == models.ChapterStatusUnlocked {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *chapterRepoStub) Update(_ context.Context, chapter *models.Chapter) error {
	key := chapter.TenantID + "/" + chapter.ID
	stored, ok := r.rows[key]
	if !ok || stored.Version != chapter.Version {
		return repository.ErrVersionConflict
	}
	chapter.Version++
	r.rows[key] = *chapter
	r.updates++
	return nil
}

type makeupRepoStub struct {
	rows      map[string]models.MakeupTest
	seq       int
	createErr error
	// bumpBy advances the stored version before the next status write.
	bumpBy int64
}

func newMakeupRepoStub() *makeupRepoStub {
	return &makeupRepoStub{rows: map[string]models.MakeupTest{}}
}

func (r *makeupRepoStub) Create(_ context.Context, makeup *models.MakeupTest) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.seq++
	makeup.ID = fmt.Sprintf("makeup-%d", r.seq)
	makeup.Version = 1
	r.rows[makeup.ID] = *makeup
	return nil
}

func (r *makeupRepoStub) GetByID(_ context.Context, tenantID, id string) (*models.MakeupTest, error) {
	m, ok := r.rows[id]
	if !ok || m.TenantID != tenantID {
		return nil, sql.ErrNoRows
	}
	return &m, nil
}

func (r *makeupRepoStub) FindOutstanding(_ context.Context, tenantID, testID, studentID string) (*models.MakeupTest, error) {
	for _, m := range r.rows {
		if m.TenantID == tenantID && m.TestID == testID && m.StudentID == studentID && m.Status != models.MakeupStatusCancelled {
			found := m
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *makeupRepoStub) ListByTest(_ context.Context, tenantID, testID string) ([]models.MakeupTest, error) {
	var out []models.MakeupTest
	for _, m := range r.rows {
		if m.TenantID == tenantID && m.TestID == testID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *makeupRepoStub) UpdateStatus(_ context.Context, makeup *models.MakeupTest) error {
	stored, ok := r.rows[makeup.ID]
	if ok && r.bumpBy > 0 {
		stored.Version += r.bumpBy
		r.rows[makeup.ID] = stored
		r.bumpBy = 0
	}
	if !ok || stored.Version != makeup.Version {
		return repository.ErrVersionConflict
	}
	makeup.Version++
	r.rows[makeup.ID] = *makeup
	return nil
}

// riskAlertRepoStub mirrors the partial unique index on active (tenant, type, entity).
type riskAlertRepoStub struct {
	mu       sync.Mutex
	rows     map[string]models.RiskAlert
	seq      int
	inserts  int
	resolves int
}

func newRiskAlertRepoStub(alerts ...models.RiskAlert) *riskAlertRepoStub {
	repo := &riskAlertRepoStub{rows: map[string]models.RiskAlert{}}
	for _, a := range alerts {
		if a.Version == 0 {
			a.Version = 1
		}
		repo.rows[a.ID] = a
	}
	return repo
}

func (r *riskAlertRepoStub) ListActive(_ context.Context, tenantID string) ([]models.RiskAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.RiskAlert
	for _, a := range r.rows {
		if a.TenantID == tenantID && a.Status == models.RiskAlertStatusActive {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *riskAlertRepoStub) InsertIfAbsent(_ context.Context, alert *models.RiskAlert) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.rows {
		if a.TenantID == alert.TenantID && a.Status == models.RiskAlertStatusActive && a.Key() == alert.Key() {
			return false, nil
		}
	}
	r.seq++
	alert.ID = fmt.Sprintf("alert-%d", r.seq)
	alert.Status = models.RiskAlertStatusActive
	alert.Version = 1
	r.rows[alert.ID] = *alert
	r.inserts++
	return true, nil
}

func (r *riskAlertRepoStub) GetByID(_ context.Context, tenantID, id string) (*models.RiskAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok || a.TenantID != tenantID {
		return nil, sql.ErrNoRows
	}
	return &a, nil
}

func (r *riskAlertRepoStub) List(_ context.Context, filter models.RiskAlertFilter) ([]models.RiskAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.RiskAlert
	for _, a := range r.rows {
		if a.TenantID == filter.TenantID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if filter.Offset >= len(out) {
		return nil, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *riskAlertRepoStub) Resolve(_ context.Context, alert *models.RiskAlert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.rows[alert.ID]
	if !ok || stored.Status != models.RiskAlertStatusActive || stored.Version != alert.Version {
		return repository.ErrVersionConflict
	}
	alert.Status = models.RiskAlertStatusResolved
	alert.Version++
	r.rows[alert.ID] = *alert
	r.resolves++
	return nil
}

func (r *riskAlertRepoStub) Summary(_ context.Context, tenantID string) (*models.RiskAlertSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	summary := &models.RiskAlertSummary{
		TenantID:         tenantID,
		ActiveBySeverity: map[models.RiskSeverity]int{},
		ActiveByType:     map[models.RiskAlertType]int{},
	}
	for _, a := range r.rows {
		if a.TenantID != tenantID {
			continue
		}
		if a.Status == models.RiskAlertStatusResolved {
			summary.Resolved++
			continue
		}
		summary.Active++
		summary.ActiveBySeverity[a.Severity]++
		summary.ActiveByType[a.Type]++
	}
	return summary, nil
}

type tenantStub []string

func (t tenantStub) ListActiveIDs(context.Context) ([]string, error) {
	return t, nil
}

type queueRecorder struct {
	jobs []jobs.Job
	err  error
}

func (q *queueRecorder) Enqueue(job jobs.Job) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

// memoryCache is an in-process CacheRepository.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	deleted []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
	return nil
}

func (c *memoryCache) DeleteByPattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.entries {
		if key == pattern || (strings.HasSuffix(pattern, "*") && strings.HasPrefix(key, prefix)) {
			delete(c.entries, key)
		}
	}
	return nil
}
