package models

import "errors"

// Errors surfaced by the credential store, the ledger and the aggregation engine.
var (
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrWeakPassword       = errors.New("password must be at least 6 characters long")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes long")
	ErrEmptyUsername      = errors.New("username is required")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidAmount      = errors.New("amount must be a positive number")
	ErrInvalidCategory    = errors.New("category does not match transaction type")
	ErrInvalidDate        = errors.New("invalid date format, use YYYY-MM-DD")
	ErrStoreUnavailable   = errors.New("store unavailable")
	ErrNotFound           = errors.New("not found")
	ErrNoSelection        = errors.New("no transaction selected")
)

// IsValidation reports whether err is a user input error that should be
// surfaced with a corrective message rather than logged as a failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidCategory) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrWeakPassword) ||
		errors.Is(err, ErrPasswordTooLong) ||
		errors.Is(err, ErrEmptyUsername) ||
		errors.Is(err, ErrNoSelection)
}
