package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

// TimeString represents a wall-clock time of day in "HH:MM" format.
// It is used for schedule boundaries and appointment start times, where
// only the time component matters and the date is stored separately.
type TimeString string

// ErrInvalidTimeString is returned when a value cannot be parsed as "HH:MM".
var ErrInvalidTimeString = errors.New("invalid time string format, expected HH:MM")

const minutesPerDay = 24 * 60

// NewTimeString creates a TimeString from the time component of t.
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format("15:04"))
}

// NewTimeStringFromString parses and validates an "HH:MM" string.
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// String returns the "HH:MM" representation.
func (t TimeString) String() string {
	return string(t)
}

// IsZero returns true if the value is empty.
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate checks that the value is a well-formed "HH:MM" time.
// "24:00" is allowed as an exclusive end-of-day boundary.
func (t TimeString) Validate() error {
	if _, err := t.toMinutes(); err != nil {
		return err
	}
	return nil
}

// Minutes returns the number of minutes since midnight.
func (t TimeString) Minutes() (int, error) {
	return t.toMinutes()
}

// IsBefore reports whether t is strictly earlier than other.
// Malformed values compare as not-before.
func (t TimeString) IsBefore(other TimeString) bool {
	a, err := t.toMinutes()
	if err != nil {
		return false
	}
	b, err := other.toMinutes()
	if err != nil {
		return false
	}
	return a < b
}

// IsAfter reports whether t is strictly later than other.
// Malformed values compare as not-after.
func (t TimeString) IsAfter(other TimeString) bool {
	a, err := t.toMinutes()
	if err != nil {
		return false
	}
	b, err := other.toMinutes()
	if err != nil {
		return false
	}
	return a > b
}

// Equal reports whether two values denote the same minute of the day.
func (t TimeString) Equal(other TimeString) bool {
	a, err := t.toMinutes()
	if err != nil {
		return false
	}
	b, err := other.toMinutes()
	if err != nil {
		return false
	}
	return a == b
}

// AddMinutes returns the time shifted forward by delta minutes.
// The result may be "24:00" (end of day); shifting past midnight is an error.
func (t TimeString) AddMinutes(delta int) (TimeString, error) {
	m, err := t.toMinutes()
	if err != nil {
		return "", err
	}
	m += delta
	if m < 0 || m > minutesPerDay {
		return "", fmt.Errorf("%w: %s%+d minutes is outside the day", ErrInvalidTimeString, t, delta)
	}
	return fromMinutes(m), nil
}

// Scan implements sql.Scanner. Postgres TIME columns arrive either as
// time.Time, as "15:04:05" strings, or as raw bytes depending on the driver.
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case time.Time:
		*t = NewTimeString(v)
		return nil
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	default:
		return fmt.Errorf("%w: unsupported source type %T", ErrInvalidTimeString, src)
	}
}

// Value implements driver.Valuer.
func (t TimeString) Value() (driver.Value, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return string(t), nil
}

func (t *TimeString) scanString(s string) error {
	// Trim seconds from "15:04:05" if present.
	if len(s) > 5 {
		s = s[:5]
	}
	ts, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = ts
	return nil
}

func (t TimeString) toMinutes() (int, error) {
	s := string(t)
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	var h, m int
	if _, err := fmt.Sscanf(s, "%2d:%2d", &h, &m); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	if m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	// "24:00" is a valid exclusive upper bound.
	if h == 24 && m == 0 {
		return minutesPerDay, nil
	}
	if h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	return h*60 + m, nil
}

func fromMinutes(m int) TimeString {
	return TimeString(fmt.Sprintf("%02d:%02d", m/60, m%60))
}
