package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the only accepted textual date format.
const DateLayout = "2006-01-02"

// Date is a calendar date without time of day, held at UTC midnight.
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses a strict YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// String returns the date as YYYY-MM-DD.
func (d Date) String() string { return d.Format(DateLayout) }

// AddDays returns the date n days later.
func (d Date) AddDays(n int) Date { return Date{Time: d.Time.AddDate(0, 0, n)} }

// Before reports whether d is strictly before o.
func (d Date) Before(o Date) bool { return d.Time.Before(o.Time) }

// After reports whether d is strictly after o.
func (d Date) After(o Date) bool { return d.Time.After(o.Time) }

// MarshalJSON encodes the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a "YYYY-MM-DD" string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	parsed, err := ParseDate(strings.Trim(s, `"`))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value stores the date as YYYY-MM-DD text, which both SQLite and Postgres accept.
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan reads a date column returned either as time.Time or as text.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = NewDate(v.Year(), v.Month(), v.Day())
		return nil
	case string:
		return d.scanText(v)
	case []byte:
		return d.scanText(string(v))
	case nil:
		*d = Date{}
		return nil
	}
	return fmt.Errorf("cannot scan %T into Date", src)
}

func (d *Date) scanText(s string) error {
	// Drivers may hand back "2024-03-05 00:00:00" or RFC 3339 text.
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return fmt.Errorf("scan date %q: %w", s, err)
	}
	*d = Date{Time: t}
	return nil
}

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	From Date `json:"from"`
	To   Date `json:"to"`
}

// MonthRange returns the first through last day of the given calendar month.
func MonthRange(year int, month time.Month) DateRange {
	first := NewDate(year, month, 1)
	return DateRange{From: first, To: Date{Time: first.AddDate(0, 1, -1)}}
}

// YearToDate returns January 1 of today's year through today.
func YearToDate(today time.Time) DateRange {
	to := DateOf(today)
	return DateRange{From: NewDate(to.Year(), time.January, 1), To: to}
}

// Validate checks that From is not after To.
func (r DateRange) Validate() error {
	if r.From.IsZero() || r.To.IsZero() {
		return fmt.Errorf("%w: range needs both ends", ErrInvalidDate)
	}
	if r.From.After(r.To) {
		return fmt.Errorf("%w: %s is after %s", ErrInvalidDate, r.From, r.To)
	}
	return nil
}

// Contains reports whether d falls inside the range.
func (r DateRange) Contains(d Date) bool {
	return !d.Before(r.From) && !d.After(r.To)
}

func (r DateRange) String() string { return r.From.String() + ".." + r.To.String() }
