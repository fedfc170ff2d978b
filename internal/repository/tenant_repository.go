package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// TenantRepository reads the tenant registry.
type TenantRepository struct {
	db *sqlx.DB
}

// NewTenantRepository constructs the repository.
func NewTenantRepository(db *sqlx.DB) *TenantRepository {
	return &TenantRepository{db: db}
}

// ListActiveIDs returns the identifiers of active tenants.
func (r *TenantRepository) ListActiveIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, `SELECT id FROM tenants WHERE active = TRUE ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list active tenants: %w", err)
	}
	return ids, nil
}
