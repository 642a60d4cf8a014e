package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is an immutable bank statement line imported from CSV.
// Amount is signed: negative for expenses, positive for income.
// Only the category fields and the recurring flag are ever mutated.
type Transaction struct {
	ID             int64            `json:"id"`
	DateOp         time.Time        `json:"dateOp"`
	DateVal        *time.Time       `json:"dateVal"`
	Label          string           `json:"label"`
	Amount         decimal.Decimal  `json:"amount"`
	Category       *string          `json:"category"`
	CategoryParent *string          `json:"categoryParent"`
	AccountNum     string           `json:"accountNum"`
	AccountLabel   string           `json:"accountLabel"`
	AccountBalance *decimal.Decimal `json:"accountBalance"`
	IsRecurring    bool             `json:"isRecurring"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// IsExpense reports whether the transaction is a debit.
func (t Transaction) IsExpense() bool {
	return t.Amount.IsNegative()
}
