package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-exam-workflow-api/internal/models"
)

// BlueprintRepository reads paper blueprints.
type BlueprintRepository struct {
	db *sqlx.DB
}

// NewBlueprintRepository constructs the repository.
func NewBlueprintRepository(db *sqlx.DB) *BlueprintRepository {
	return &BlueprintRepository{db: db}
}

// GetByID fetches a blueprint within a tenant.
func (r *BlueprintRepository) GetByID(ctx context.Context, tenantID, id string) (*models.Blueprint, error) {
	const query = `SELECT id, tenant_id, name, subject, grade, sections, created_at FROM blueprints WHERE tenant_id = $1 AND id = $2`
	var blueprint models.Blueprint
	if err := r.db.GetContext(ctx, &blueprint, query, tenantID, id); err != nil {
		return nil, err
	}
	return &blueprint, nil
}
