package models

import (
	"fmt"
	"time"

	"finance-tracker/internal/money"
)

// TxType is the direction of a transaction.
type TxType string

const (
	Income  TxType = "Income"
	Expense TxType = "Expense"
)

// ParseTxType accepts "Income" or "Expense", case-insensitively.
func ParseTxType(s string) (TxType, error) {
	switch {
	case equalFold(s, string(Income)):
		return Income, nil
	case equalFold(s, string(Expense)):
		return Expense, nil
	}
	return "", fmt.Errorf("%w: unknown type %q", ErrInvalidCategory, s)
}

// Valid reports whether t is Income or Expense.
func (t TxType) Valid() bool { return t == Income || t == Expense }

// Transaction is a single income or expense entry.
type Transaction struct {
	ID          int64        `json:"id"`
	UserID      int64        `json:"user_id"`
	Amount      money.Amount `json:"amount"`
	Category    string       `json:"category"`
	Type        TxType       `json:"type"`
	Date        Date         `json:"date"`
	Description string       `json:"description,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// NewTransaction carries the caller-supplied fields of a transaction.
type NewTransaction struct {
	Amount      money.Amount `json:"amount"`
	Category    string       `json:"category"`
	Type        TxType       `json:"type"`
	Date        Date         `json:"date"`
	Description string       `json:"description,omitempty"`
}

// Budget is a monthly cap for one expense category.
type Budget struct {
	UserID   int64        `json:"user_id"`
	Category string       `json:"category"`
	Amount   money.Amount `json:"amount"`
}
