package storage

import (
	"context"
	"iter"
	"strings"

	"finance-tracker/internal/log"
	"finance-tracker/internal/models"
	"finance-tracker/internal/money"
)

// TransactionFilter narrows a transaction listing. The zero value lists everything.
type TransactionFilter struct {
	Range *models.DateRange
	Limit int
}

// InsertTransaction stores a validated transaction and returns its id.
func (db *DB) InsertTransaction(ctx context.Context, userID int64, t models.NewTransaction) (int64, error) {
	var id int64
	err := db.queryRow(ctx, db.conn,
		`INSERT INTO transactions (user_id, amount_cents, category, type, date, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		userID, t.Amount.Cents(), t.Category, string(t.Type), t.Date, t.Description, db.timestamp(),
	).Scan(&id)
	if err != nil {
		return 0, wrap("insert transaction", err)
	}
	db.log.Debug("Transaction inserted", log.FieldUserID, userID, log.FieldTxID, id)
	return id, nil
}

// DeleteTransaction removes one of the user's transactions.
// It returns models.ErrNotFound when no row matched.
func (db *DB) DeleteTransaction(ctx context.Context, userID, id int64) error {
	res, err := db.exec(ctx, db.conn, "DELETE FROM transactions WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return wrap("delete transaction", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrap("delete transaction", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Transactions returns the user's transactions, newest date first and, within
// a date, newest insert first. The query runs each time the sequence is ranged
// over. The underlying connection is held until iteration stops, so the loop
// body must not call back into the store.
func (db *DB) Transactions(ctx context.Context, userID int64, f TransactionFilter) iter.Seq2[models.Transaction, error] {
	return func(yield func(models.Transaction, error) bool) {
		var sb strings.Builder
		sb.WriteString(`SELECT id, user_id, amount_cents, category, type, date, description, created_at
			FROM transactions WHERE user_id = ?`)
		args := []any{userID}
		if f.Range != nil {
			sb.WriteString(" AND date >= ? AND date <= ?")
			args = append(args, f.Range.From, f.Range.To)
		}
		sb.WriteString(" ORDER BY date DESC, id DESC")
		if f.Limit > 0 {
			sb.WriteString(" LIMIT ?")
			args = append(args, f.Limit)
		}

		rows, err := db.query(ctx, db.conn, sb.String(), args...)
		if err != nil {
			yield(models.Transaction{}, wrap("list transactions", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var (
				t     models.Transaction
				cents int64
				typ   string
			)
			if err := rows.Scan(&t.ID, &t.UserID, &cents, &t.Category, &typ, &t.Date, &t.Description, &t.CreatedAt); err != nil {
				yield(models.Transaction{}, wrap("scan transaction", err))
				return
			}
			t.Amount = money.FromCents(cents)
			t.Type = models.TxType(typ)
			if !yield(t, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(models.Transaction{}, wrap("list transactions", err))
		}
	}
}

// ListTransactions collects Transactions into a slice.
func (db *DB) ListTransactions(ctx context.Context, userID int64, f TransactionFilter) ([]models.Transaction, error) {
	var out []models.Transaction
	for t, err := range db.Transactions(ctx, userID, f) {
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
