package storage

import (
	"context"

	"finance-tracker/internal/models"
	"finance-tracker/internal/money"
)

// Totals are income and expense sums over a period.
type Totals struct {
	Income  money.Amount
	Expense money.Amount
}

// CategoryTotal is the sum and count of transactions in one category.
type CategoryTotal struct {
	Category string
	Total    money.Amount
	Count    int
}

// SumByType returns income and expense sums for transactions dated within r.
func (db *DB) SumByType(ctx context.Context, userID int64, r models.DateRange) (Totals, error) {
	rows, err := db.query(ctx, db.conn,
		`SELECT type, COALESCE(SUM(amount_cents), 0)
		FROM transactions
		WHERE user_id = ? AND date >= ? AND date <= ?
		GROUP BY type`,
		userID, r.From, r.To)
	if err != nil {
		return Totals{}, wrap("sum by type", err)
	}
	defer rows.Close()

	var t Totals
	for rows.Next() {
		var (
			typ   string
			cents int64
		)
		if err := rows.Scan(&typ, &cents); err != nil {
			return Totals{}, wrap("scan sum", err)
		}
		switch models.TxType(typ) {
		case models.Income:
			t.Income = money.FromCents(cents)
		case models.Expense:
			t.Expense = money.FromCents(cents)
		}
	}
	return t, wrap("sum by type", rows.Err())
}

// CategoryTotals groups the user's transactions of type t dated within r by
// category, largest total first. Categories without transactions are absent.
func (db *DB) CategoryTotals(ctx context.Context, userID int64, t models.TxType, r models.DateRange) ([]CategoryTotal, error) {
	rows, err := db.query(ctx, db.conn,
		`SELECT category, SUM(amount_cents) AS total, COUNT(*)
		FROM transactions
		WHERE user_id = ? AND type = ? AND date >= ? AND date <= ?
		GROUP BY category
		HAVING SUM(amount_cents) > 0
		ORDER BY total DESC, category`,
		userID, string(t), r.From, r.To)
	if err != nil {
		return nil, wrap("category totals", err)
	}
	defer rows.Close()

	var totals []CategoryTotal
	for rows.Next() {
		var (
			ct    CategoryTotal
			cents int64
		)
		if err := rows.Scan(&ct.Category, &cents, &ct.Count); err != nil {
			return nil, wrap("scan category total", err)
		}
		ct.Total = money.FromCents(cents)
		totals = append(totals, ct)
	}
	return totals, wrap("category totals", rows.Err())
}
