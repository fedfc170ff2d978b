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

const testColumns = `id, tenant_id, blueprint_id, title, subject, grade, total_marks, duration_minutes, duration_overridden, exam_date, paper_format,
       workflow_state, is_confidential, printing_ready, is_revealed, printed_at, state_changed_at, created_by, version, created_at, updated_at`

// TestRepository persists examination papers.
type TestRepository struct {
	db *sqlx.DB
}

// NewTestRepository constructs the repository.
func NewTestRepository(db *sqlx.DB) *TestRepository {
	return &TestRepository{db: db}
}

// Create inserts a new paper at version 1.
func (r *TestRepository) Create(ctx context.Context, test *models.Test) error {
	if test.ID == "" {
		test.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if test.CreatedAt.IsZero() {
		test.CreatedAt = now
	}
	if test.StateChangedAt.IsZero() {
		test.StateChangedAt = test.CreatedAt
	}
	test.UpdatedAt = test.CreatedAt
	test.Version = 1
	const query = `INSERT INTO exam_tests
	(id, tenant_id, blueprint_id, title, subject, grade, total_marks, duration_minutes, duration_overridden, exam_date, paper_format,
	 workflow_state, is_confidential, printing_ready, is_revealed, printed_at, state_changed_at, created_by, version, created_at, updated_at)
	VALUES (:id, :tenant_id, :blueprint_id, :title, :subject, :grade, :total_marks, :duration_minutes, :duration_overridden, :exam_date, :paper_format,
	 :workflow_state, :is_confidential, :printing_ready, :is_revealed, :printed_at, :state_changed_at, :created_by, :version, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, test); err != nil {
		return fmt.Errorf("create test: %w", err)
	}
	return nil
}

// GetByID fetches a paper within a tenant. Missing rows return sql.ErrNoRows.
func (r *TestRepository) GetByID(ctx context.Context, tenantID, id string) (*models.Test, error) {
	query := `SELECT ` + testColumns + ` FROM exam_tests WHERE tenant_id = $1 AND id = $2`
	var test models.Test
	if err := r.db.GetContext(ctx, &test, query, tenantID, id); err != nil {
		return nil, err
	}
	return &test, nil
}

// List returns papers matching the filter ordered by exam date.
func (r *TestRepository) List(ctx context.Context, filter models.TestFilter) ([]models.Test, error) {
	builder := strings.Builder{}
	args := []interface{}{filter.TenantID}
	builder.WriteString(`SELECT ` + testColumns + ` FROM exam_tests WHERE tenant_id = $1`)
	if filter.Subject != "" {
		args = append(args, filter.Subject)
		builder.WriteString(fmt.Sprintf(" AND subject = $%d", len(args)))
	}
	if filter.Grade != "" {
		args = append(args, filter.Grade)
		builder.WriteString(fmt.Sprintf(" AND grade = $%d", len(args)))
	}
	if len(filter.States) > 0 {
		placeholders := make([]string, len(filter.States))
		for i, state := range filter.States {
			args = append(args, state)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		builder.WriteString(fmt.Sprintf(" AND workflow_state IN (%s)", strings.Join(placeholders, ",")))
	}
	limit, offset := clampPage(filter.Limit, filter.Offset)
	builder.WriteString(fmt.Sprintf(" ORDER BY exam_date ASC, id ASC LIMIT %d OFFSET %d", limit, offset))

	var tests []models.Test
	if err := r.db.SelectContext(ctx, &tests, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list tests: %w", err)
	}
	return tests, nil
}

// ListOpen returns every paper not yet completed, for risk evaluation.
func (r *TestRepository) ListOpen(ctx context.Context, tenantID string) ([]models.Test, error) {
	query := `SELECT ` + testColumns + ` FROM exam_tests WHERE tenant_id = $1 AND workflow_state <> $2`
	var tests []models.Test
	if err := r.db.SelectContext(ctx, &tests, query, tenantID, models.TestStateCompleted); err != nil {
		return nil, fmt.Errorf("list open tests: %w", err)
	}
	return tests, nil
}

// Update writes the paper if the stored version still equals test.Version, then bumps test.Version.
func (r *TestRepository) Update(ctx context.Context, test *models.Test) error {
	test.UpdatedAt = time.Now().UTC()
	const query = `UPDATE exam_tests SET
	title = :title, subject = :subject, grade = :grade, total_marks = :total_marks, duration_minutes = :duration_minutes,
	duration_overridden = :duration_overridden, exam_date = :exam_date, paper_format = :paper_format, workflow_state = :workflow_state,
	is_confidential = :is_confidential, printing_ready = :printing_ready, is_revealed = :is_revealed,
	printed_at = :printed_at, state_changed_at = :state_changed_at, version = version + 1, updated_at = :updated_at
	WHERE id = :id AND tenant_id = :tenant_id AND version = :version`
	result, err := r.db.NamedExecContext(ctx, query, test)
	if err != nil {
		return fmt.Errorf("update test: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check test update rows: %w", err)
	}
	if rows == 0 {
		return ErrVersionConflict
	}
	test.Version++
	return nil
}
