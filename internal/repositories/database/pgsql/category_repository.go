package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nicolasgrk/gestion-budget-ia/internal/core/ports"
	"github.com/nicolasgrk/gestion-budget-ia/internal/models"
)

// PgxCategoryRepository persists the category taxonomy in PostgreSQL.
type PgxCategoryRepository struct {
	BaseRepository
}

// NewCategoryRepository creates a new repository for category data.
func NewCategoryRepository(pool *pgxpool.Pool) *PgxCategoryRepository {
	return &PgxCategoryRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ ports.CategoryRepository = (*PgxCategoryRepository)(nil)

// UpsertCategory inserts the category or overwrites its parent name.
// Name is the primary key, so repeated upserts keep exactly one row whose
// parent reflects the most recent write.
func (r *PgxCategoryRepository) UpsertCategory(ctx context.Context, category models.Category) error {
	query := `
		INSERT INTO categories (name, parent_name)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET parent_name = EXCLUDED.parent_name;
	`

	if _, err := r.Pool.Exec(ctx, query, category.Name, category.ParentName); err != nil {
		return fmt.Errorf("failed to upsert category %s: %w", category.Name, err)
	}
	return nil
}

// ListCategories retrieves the whole taxonomy ordered by parent then name.
func (r *PgxCategoryRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	query := `SELECT name, parent_name FROM categories ORDER BY parent_name, name`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Category, error) {
		var category models.Category
		err := row.Scan(&category.Name, &category.ParentName)
		return category, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan categories: %w", err)
	}
	return categories, nil
}
