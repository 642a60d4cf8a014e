package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nicolasgrk/gestion-budget-ia/internal/apperrors"
	"github.com/nicolasgrk/gestion-budget-ia/internal/core/ports"
	"github.com/nicolasgrk/gestion-budget-ia/internal/models"
)

// PgxTransactionRepository persists transactions in PostgreSQL.
type PgxTransactionRepository struct {
	BaseRepository
}

// NewTransactionRepository creates a new repository for transaction data.
func NewTransactionRepository(pool *pgxpool.Pool) *PgxTransactionRepository {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ ports.TransactionRepository = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.CollectableRow) (models.Transaction, error) {
	var txn models.Transaction
	err := row.Scan(
		&txn.ID,
		&txn.DateOp,
		&txn.DateVal,
		&txn.Label,
		&txn.Amount,
		&txn.Category,
		&txn.CategoryParent,
		&txn.AccountNum,
		&txn.AccountLabel,
		&txn.AccountBalance,
		&txn.IsRecurring,
		&txn.CreatedAt,
	)
	return txn, err
}

// SaveTransactions inserts a batch of imported statement lines using a single
// pgx batch round trip. Returns the number of rows inserted.
func (r *PgxTransactionRepository) SaveTransactions(ctx context.Context, txns []models.Transaction) (int, error) {
	if len(txns) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO transactions (date_op, date_val, label, amount, category, category_parent,
			account_num, account_label, account_balance, is_recurring)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, false);
	`

	batch := &pgx.Batch{}
	for _, txn := range txns {
		batch.Queue(query,
			txn.DateOp,
			txn.DateVal,
			txn.Label,
			txn.Amount,
			txn.Category,
			txn.CategoryParent,
			txn.AccountNum,
			txn.AccountLabel,
			txn.AccountBalance,
		)
	}

	results := r.Pool.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for range txns {
		if _, err := results.Exec(); err != nil {
			return inserted, fmt.Errorf("failed to insert transaction batch: %w", err)
		}
		inserted++
	}
	return inserted, nil
}

// buildFilter translates a TransactionFilter into WHERE clauses and args.
func buildFilter(filter ports.TransactionFilter) (string, []any) {
	var clauses []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.From != nil {
		clauses = append(clauses, "date_op >= "+arg(*filter.From))
	}
	if filter.To != nil {
		clauses = append(clauses, "date_op <= "+arg(*filter.To))
	}
	if filter.Category != nil {
		clauses = append(clauses, "category = "+arg(*filter.Category))
	}
	if filter.ExpensesOnly {
		clauses = append(clauses, "amount < 0")
	}
	if filter.IncomeOnly {
		clauses = append(clauses, "amount > 0")
	}

	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}
	return where, args
}

// ListTransactions returns transactions matching the filter, most recent first.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, filter ports.TransactionFilter) ([]models.Transaction, error) {
	where, args := buildFilter(filter)

	query := "SELECT " + transactionColumns + " FROM transactions" + where + " ORDER BY date_op DESC"
	if filter.Limit > 0 {
		query += " LIMIT " + strconv.Itoa(filter.Limit)
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	txns, err := pgx.CollectRows(rows, scanTransaction)
	if err != nil {
		return nil, fmt.Errorf("failed to scan transactions: %w", err)
	}
	return txns, nil
}

// FindLatestTransaction returns the transaction with the most recent operation date.
func (r *PgxTransactionRepository) FindLatestTransaction(ctx context.Context) (*models.Transaction, error) {
	query := "SELECT " + transactionColumns + " FROM transactions ORDER BY date_op DESC LIMIT 1"

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest transaction: %w", err)
	}
	defer rows.Close()

	txn, err := pgx.CollectOneRow(rows, scanTransaction)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan latest transaction: %w", err)
	}
	return &txn, nil
}

// FindUncategorized returns transactions missing a category or a parent category.
func (r *PgxTransactionRepository) FindUncategorized(ctx context.Context) ([]models.Transaction, error) {
	query := "SELECT " + transactionColumns + ` FROM transactions
		WHERE category IS NULL OR category_parent IS NULL
		ORDER BY date_op DESC`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query uncategorized transactions: %w", err)
	}
	defer rows.Close()

	txns, err := pgx.CollectRows(rows, scanTransaction)
	if err != nil {
		return nil, fmt.Errorf("failed to scan uncategorized transactions: %w", err)
	}
	return txns, nil
}

// UpdateTransaction updates the mutable fields of one transaction and returns
// the updated row, or ErrNotFound for an unknown id.
func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, id int64, label string, category, categoryParent *string) (*models.Transaction, error) {
	query := `
		UPDATE transactions
		SET label = $2, category = $3, category_parent = $4
		WHERE id = $1
		RETURNING ` + transactionColumns

	rows, err := r.Pool.Query(ctx, query, id, label, category, categoryParent)
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction %d: %w", id, err)
	}
	defer rows.Close()

	txn, err := pgx.CollectOneRow(rows, scanTransaction)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan updated transaction %d: %w", id, err)
	}
	return &txn, nil
}

// SetCategory writes both category fields of one transaction.
func (r *PgxTransactionRepository) SetCategory(ctx context.Context, id int64, category, categoryParent string) error {
	query := `UPDATE transactions SET category = $2, category_parent = $3 WHERE id = $1`

	tag, err := r.Pool.Exec(ctx, query, id, category, categoryParent)
	if err != nil {
		return fmt.Errorf("failed to set category on transaction %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkRecurring flags the given transactions as part of a recurring payment.
func (r *PgxTransactionRepository) MarkRecurring(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	query := `UPDATE transactions SET is_recurring = true WHERE id = ANY($1)`

	if _, err := r.Pool.Exec(ctx, query, ids); err != nil {
		return fmt.Errorf("failed to mark transactions recurring: %w", err)
	}
	return nil
}

// SumAmountsByCategory returns per-category signed sums for the filter.
// Transactions without a category are grouped under the empty string.
func (r *PgxTransactionRepository) SumAmountsByCategory(ctx context.Context, filter ports.TransactionFilter) ([]ports.CategorySum, error) {
	where, args := buildFilter(filter)

	query := `SELECT COALESCE(category, ''), SUM(amount) FROM transactions` + where +
		` GROUP BY COALESCE(category, '') ORDER BY SUM(amount)`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query category sums: %w", err)
	}
	defer rows.Close()

	sums, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (ports.CategorySum, error) {
		var s ports.CategorySum
		err := row.Scan(&s.Category, &s.Total)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan category sums: %w", err)
	}
	return sums, nil
}
