package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"finance-tracker/internal/models"
)

// CreateSession creates a new session for a user.
func (db *DB) CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	_, err := db.exec(ctx, db.conn,
		"INSERT INTO sessions (token, user_id, expires_at, last_activity) VALUES (?, ?, ?, ?)",
		token, userID, expiresAt.UTC(), db.timestamp(),
	)
	return wrap("create session", err)
}

// SessionInfo holds session validation data.
type SessionInfo struct {
	User         *models.User
	LastActivity time.Time
	ExpiresAt    time.Time
}

// ValidateSession checks if a session token is valid and returns the associated user.
func (db *DB) ValidateSession(ctx context.Context, token string) (*models.User, error) {
	info, err := db.ValidateSessionWithInfo(ctx, token)
	if err != nil {
		return nil, err
	}
	return info.User, nil
}

// ValidateSessionWithInfo checks if a session token is valid and returns session details.
// Unknown and expired tokens both report models.ErrNotFound.
func (db *DB) ValidateSessionWithInfo(ctx context.Context, token string) (*SessionInfo, error) {
	row := db.queryRow(ctx, db.conn, `
		SELECT u.id, u.username, u.password_hash, u.created_at, s.last_activity, s.expires_at
		FROM sessions s
		JOIN users u ON s.user_id = u.id
		WHERE s.token = ? AND s.expires_at > ?
	`, token, db.timestamp())

	var u models.User
	var lastActivity, expiresAt time.Time
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt, &lastActivity, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, wrap("validate session", err)
	}
	return &SessionInfo{
		User:         &u,
		LastActivity: lastActivity,
		ExpiresAt:    expiresAt,
	}, nil
}

// RenewSession updates the last_activity and expires_at for a session.
func (db *DB) RenewSession(ctx context.Context, token string, newExpiresAt time.Time) error {
	_, err := db.exec(ctx, db.conn,
		"UPDATE sessions SET last_activity = ?, expires_at = ? WHERE token = ?",
		db.timestamp(), newExpiresAt.UTC(), token,
	)
	return wrap("renew session", err)
}

// DeleteSession removes a session by token.
func (db *DB) DeleteSession(ctx context.Context, token string) error {
	_, err := db.exec(ctx, db.conn, "DELETE FROM sessions WHERE token = ?", token)
	return wrap("delete session", err)
}

// CleanExpiredSessions removes all expired sessions and returns how many were removed.
func (db *DB) CleanExpiredSessions(ctx context.Context) (int64, error) {
	res, err := db.exec(ctx, db.conn, "DELETE FROM sessions WHERE expires_at <= ?", db.timestamp())
	if err != nil {
		return 0, wrap("clean sessions", err)
	}
	n, err := res.RowsAffected()
	return n, wrap("clean sessions", err)
}
