package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-exam-workflow-api/internal/models"
)

const makeupColumns = `id, tenant_id, test_id, student_id, reason, scheduled_date, status, created_by, version, created_at, updated_at`

// MakeupRepository persists makeup sittings.
type MakeupRepository struct {
	db *sqlx.DB
}

// NewMakeupRepository constructs the repository.
func NewMakeupRepository(db *sqlx.DB) *MakeupRepository {
	return &MakeupRepository{db: db}
}

// Create inserts a sitting. A second outstanding sitting for the same pair returns ErrDuplicate.
func (r *MakeupRepository) Create(ctx context.Context, makeup *models.MakeupTest) error {
	if makeup.ID == "" {
		makeup.ID = uuid.NewString()
	}
	if makeup.CreatedAt.IsZero() {
		makeup.CreatedAt = time.Now().UTC()
	}
	makeup.UpdatedAt = makeup.CreatedAt
	makeup.Version = 1
	const query = `INSERT INTO makeup_tests
	(id, tenant_id, test_id, student_id, reason, scheduled_date, status, created_by, version, created_at, updated_at)
	VALUES (:id, :tenant_id, :test_id, :student_id, :reason, :scheduled_date, :status, :created_by, :version, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, makeup); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create makeup test: %w", err)
	}
	return nil
}

// GetByID fetches a sitting within a tenant.
func (r *MakeupRepository) GetByID(ctx context.Context, tenantID, id string) (*models.MakeupTest, error) {
	query := `SELECT ` + makeupColumns + ` FROM makeup_tests WHERE tenant_id = $1 AND id = $2`
	var makeup models.MakeupTest
	if err := r.db.GetContext(ctx, &makeup, query, tenantID, id); err != nil {
		return nil, err
	}
	return &makeup, nil
}

// FindOutstanding returns the non-cancelled sitting for a test/student pair, or sql.ErrNoRows.
func (r *MakeupRepository) FindOutstanding(ctx context.Context, tenantID, testID, studentID string) (*models.MakeupTest, error) {
	query := `SELECT ` + makeupColumns + ` FROM makeup_tests
	WHERE tenant_id = $1 AND test_id = $2 AND student_id = $3 AND status <> $4 LIMIT 1`
	var makeup models.MakeupTest
	if err := r.db.GetContext(ctx, &makeup, query, tenantID, testID, studentID, models.MakeupStatusCancelled); err != nil {
		return nil, err
	}
	return &makeup, nil
}

// ListByTest returns all sittings for a paper ordered by schedule.
func (r *MakeupRepository) ListByTest(ctx context.Context, tenantID, testID string) ([]models.MakeupTest, error) {
	query := `SELECT ` + makeupColumns + ` FROM makeup_tests WHERE tenant_id = $1 AND test_id = $2 ORDER BY scheduled_date ASC`
	var makeups []models.MakeupTest
	if err := r.db.SelectContext(ctx, &makeups, query, tenantID, testID); err != nil {
		return nil, fmt.Errorf("list makeup tests: %w", err)
	}
	return makeups, nil
}

// UpdateStatus writes the status if the stored version equals makeup.Version, then bumps it.
func (r *MakeupRepository) UpdateStatus(ctx context.Context, makeup *models.MakeupTest) error {
	makeup.UpdatedAt = time.Now().UTC()
	const query = `UPDATE makeup_tests SET status = :status, version = version + 1, updated_at = :updated_at
	WHERE id = :id AND tenant_id = :tenant_id AND version = :version`
	result, err := r.db.NamedExecContext(ctx, query, makeup)
	if err != nil {
		return fmt.Errorf("update makeup test: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check makeup update rows: %w", err)
	}
	if rows == 0 {
		return ErrVersionConflict
	}
	makeup.Version++
	return nil
}
