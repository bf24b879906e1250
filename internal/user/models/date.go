package models

import (
	"encoding/json"
	"time"

	dErrors "roster/pkg/domain-errors"
)

// dateLayout is the ISO calendar-date wire format for birth dates.
const dateLayout = "2006-01-02"

// Date is a calendar date with no time-of-day or zone component.
// The zero value means "absent". Dates are normalized to midnight UTC so
// == comparison works.
type Date struct {
	t time.Time
}

// NewDate constructs a Date from year, month, day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses ISO calendar-date text (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, dErrors.Newf(dErrors.CodeInvalidInput, "date must be in YYYY-MM-DD format, got %q", s)
	}
	return Date{t: t.UTC()}, nil
}

// IsZero reports whether the date is absent.
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// Time returns the date as midnight UTC.
func (d Date) Time() time.Time {
	return d.t
}

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

// After reports whether d is strictly after other.
func (d Date) After(other Date) bool {
	return d.t.After(other.t)
}

// AddYears returns the date shifted by the given number of years.
// When the shifted year has no Feb 29 the result clamps to Feb 28
// rather than normalizing to Mar 1, so age cutoffs never move forward.
func (d Date) AddYears(years int) Date {
	t := d.t.AddDate(years, 0, 0)
	if t.Day() != d.t.Day() {
		t = t.AddDate(0, 0, -t.Day())
	}
	return DateOf(t)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(dateLayout)
}

// MarshalJSON serializes as "YYYY-MM-DD", or null when absent.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts "YYYY-MM-DD", null, or "" (both meaning absent).
func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "date must be a JSON string in YYYY-MM-DD format")
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
