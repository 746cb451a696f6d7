package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"finance-tracker/internal/log"
	"finance-tracker/internal/models"
)

const userColumns = "id, username, password_hash, created_at"

// CreateUserWithBudgets inserts a user and a zero budget row for each of the
// given categories in one transaction. It returns models.ErrDuplicateUsername
// when the username is taken; in that case nothing is written.
func (db *DB) CreateUserWithBudgets(ctx context.Context, username, passwordHash string, budgetCategories []string) (*models.User, error) {
	var user *models.User
	err := db.inTx(ctx, func(tx *sql.Tx) error {
		u := models.User{Username: username, PasswordHash: passwordHash, CreatedAt: db.timestamp()}
		err := db.queryRow(ctx, tx,
			`INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)
			ON CONFLICT (username) DO NOTHING
			RETURNING id`,
			u.Username, u.PasswordHash, u.CreatedAt,
		).Scan(&u.ID)
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrDuplicateUsername
		}
		if err != nil {
			return wrap("create user", err)
		}

		for _, category := range budgetCategories {
			if _, err := db.exec(ctx, tx,
				"INSERT INTO budgets (user_id, category, amount_cents) VALUES (?, ?, 0)",
				u.ID, category,
			); err != nil {
				return wrap("seed budget", err)
			}
		}
		user = &u
		return nil
	})
	if err != nil {
		if errors.Is(err, models.ErrDuplicateUsername) || errors.Is(err, models.ErrStoreUnavailable) {
			return nil, err
		}
		return nil, wrap("create user", err)
	}

	db.log.Debug("User created", log.FieldUserID, user.ID, "budgets", len(budgetCategories))
	return user, nil
}

// GetUserByUsername retrieves a user by username. Matching is case-sensitive.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return db.getUser(ctx, "SELECT "+userColumns+" FROM users WHERE username = ?", username)
}

func (db *DB) getUser(ctx context.Context, query string, arg any) (*models.User, error) {
	var u models.User
	err := db.queryRow(ctx, db.conn, query, arg).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, wrap("get user", err)
	}
	return &u, nil
}

// UserCount returns the number of users in the database.
func (db *DB) UserCount(ctx context.Context) (int, error) {
	var count int
	if err := db.queryRow(ctx, db.conn, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, wrap("count users", err)
	}
	return count, nil
}
