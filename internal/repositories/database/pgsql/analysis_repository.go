package pgsql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nicolasgrk/gestion-budget-ia/internal/core/ports"
)

// PgxAnalysisRepository persists the append-only AI analysis audit records.
type PgxAnalysisRepository struct {
	BaseRepository
}

// NewAnalysisRepository creates a new repository for analysis audit data.
func NewAnalysisRepository(pool *pgxpool.Pool) *PgxAnalysisRepository {
	return &PgxAnalysisRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ ports.AnalysisRepository = (*PgxAnalysisRepository)(nil)

// SaveAnalysis appends one audit row. Rows are write-only from the
// application's perspective.
func (r *PgxAnalysisRepository) SaveAnalysis(ctx context.Context, analysisType string, content json.RawMessage) error {
	query := `INSERT INTO ai_analyses (type, content) VALUES ($1, $2)`

	if _, err := r.Pool.Exec(ctx, query, analysisType, content); err != nil {
		return fmt.Errorf("failed to save %s analysis: %w", analysisType, err)
	}
	return nil
}
