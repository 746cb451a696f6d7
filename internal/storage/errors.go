package storage

import "finance-tracker/internal/models"

// Error is a persistence failure. errors.Is matches it against both
// models.ErrStoreUnavailable and the underlying driver error.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return "storage: " + e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() []error {
	return []error{models.ErrStoreUnavailable, e.Err}
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}
