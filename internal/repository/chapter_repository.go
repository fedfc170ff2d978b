package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sma-exam-workflow-api/internal/models"
)

const chapterColumns = `id, tenant_id, subject, grade, position, title, status, deadline, scores_revealed,
       topics, completed_topics, created_by, version, created_at, updated_at`

// ChapterRepository persists syllabus chapters.
type ChapterRepository struct {
	db *sqlx.DB
}

// NewChapterRepository constructs the repository.
func NewChapterRepository(db *sqlx.DB) *ChapterRepository {
	return &ChapterRepository{db: db}
}

// Create inserts a chapter at version 1.
func (r *ChapterRepository) Create(ctx context.Context, chapter *models.Chapter) error {
	if chapter.ID == "" {
		chapter.ID = uuid.NewString()
	}
	if chapter.CreatedAt.IsZero() {
		chapter.CreatedAt = time.Now().UTC()
	}
	if chapter.Topics == nil {
		chapter.Topics = pq.StringArray{}
	}
	if chapter.CompletedTopics == nil {
		chapter.CompletedTopics = pq.StringArray{}
	}
	chapter.UpdatedAt = chapter.CreatedAt
	chapter.Version = 1
	const query = `INSERT INTO chapters
	(id, tenant_id, subject, grade, position, title, status, deadline, scores_revealed, topics, completed_topics,
	 created_by, version, created_at, updated_at)
	VALUES (:id, :tenant_id, :subject, :grade, :position, :title, :status, :deadline, :scores_revealed, :topics,
	 :completed_topics, :created_by, :version, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, chapter); err != nil {
		return fmt.Errorf("create chapter: %w", err)
	}
	return nil
}

// GetByID fetches a chapter within a tenant.
func (r *ChapterRepository) GetByID(ctx context.Context, tenantID, id string) (*models.Chapter, error) {
	query := `SELECT ` + chapterColumns + ` FROM chapters WHERE tenant_id = $1 AND id = $2`
	var chapter models.Chapter
	if err := r.db.GetContext(ctx, &chapter, query, tenantID, id); err != nil {
		return nil, err
	}
	return &chapter, nil
}

// List returns chapters ordered by subject, grade and position.
func (r *ChapterRepository) List(ctx context.Context, filter models.ChapterFilter) ([]models.Chapter, error) {
	builder := strings.Builder{}
	args := []interface{}{filter.TenantID}
	builder.WriteString(`SELECT ` + chapterColumns + ` FROM chapters WHERE tenant_id = $1`)
	if filter.Subject != "" {
		args = append(args, filter.Subject)
		builder.WriteString(fmt.Sprintf(" AND subject = $%d", len(args)))
	}
	if filter.Grade != "" {
		args = append(args, filter.Grade)
		builder.WriteString(fmt.Sprintf(" AND grade = $%d", len(args)))
	}
	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, status := range filter.Status {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		builder.WriteString(fmt.Sprintf(" AND status IN (%s)", strings.Join(placeholders, ",")))
	}
	limit, offset := clampPage(filter.Limit, filter.Offset)
	builder.WriteString(fmt.Sprintf(" ORDER BY subject, grade, position LIMIT %d OFFSET %d", limit, offset))

	var chapters []models.Chapter
	if err := r.db.SelectContext(ctx, &chapters, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}
	return chapters, nil
}

// ListUnlocked returns unlocked chapters, for risk evaluation.
func (r *ChapterRepository) ListUnlocked(ctx context.Context, tenantID string) ([]models.Chapter, error) {
	query := `SELECT ` + chapterColumns + ` FROM chapters WHERE tenant_id = $1 AND status = $2`
	var chapters []models.Chapter
	if err := r.db.SelectContext(ctx, &chapters, query, tenantID, models.ChapterStatusUnlocked); err != nil {
		return nil, fmt.Errorf("list unlocked chapters: %w", err)
	}
	return chapters, nil
}

// Update writes lifecycle fields if the stored version equals chapter.Version, then bumps it.
func (r *ChapterRepository) Update(ctx context.Context, chapter *models.Chapter) error {
	chapter.UpdatedAt = time.Now().UTC()
	const query = `UPDATE chapters SET
	status = :status, deadline = :deadline, scores_revealed = :scores_revealed, completed_topics = :completed_topics,
	version = version + 1, updated_at = :updated_at
	WHERE id = :id AND tenant_id = :tenant_id AND version = :version`
	result, err := r.db.NamedExecContext(ctx, query, chapter)
	if err != nil {
		return fmt.Errorf("update chapter: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check chapter update rows: %w", err)
	}
	if rows == 0 {
		return ErrVersionConflict
	}
	chapter.Version++
	return nil
}
