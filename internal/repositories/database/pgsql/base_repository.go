package pgsql

import "github.com/jackc/pgx/v5/pgxpool"

// BaseRepository holds the shared connection pool handle.
type BaseRepository struct {
	Pool *pgxpool.Pool
}

const transactionColumns = `id, date_op, date_val, label, amount, category, category_parent,
	account_num, account_label, account_balance, is_recurring, created_at`
