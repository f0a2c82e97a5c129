package model

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar day with no time-of-day or zone. The zero value means "no date".
type Date struct {
	t time.Time
}

// NewDate returns the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// Today returns the current local calendar day. Callers should ask for it at the start
// of each resolution rather than caching it across midnight.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate reads the YYYY-MM-DD prefix of s. Full timestamps such as
// "2024-03-05T10:00:00Z" yield their date part. Anything else reports ok=false.
func ParseDate(s string) (Date, bool) {
	s = strings.TrimSpace(s)
	if len(s) < len(dateLayout) {
		return Date{}, false
	}
	if len(s) > len(dateLayout) {
		switch s[len(dateLayout)] {
		case 'T', 't', ' ':
		default:
			return Date{}, false
		}
	}
	t, err := time.Parse(dateLayout, s[:len(dateLayout)])
	if err != nil {
		return Date{}, false
	}
	return Date{t: t}, true
}

// IsZero reports whether d is the absent date.
func (d Date) IsZero() bool { return d.t.IsZero() }

// Compare returns -1 if d is before o, +1 if after, and 0 on the same day.
func (d Date) Compare(o Date) int { return d.t.Compare(o.t) }

// Before reports whether d is an earlier day than o.
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }

// After reports whether d is a later day than o.
func (d Date) After(o Date) bool { return d.t.After(o.t) }

// Equal reports whether d and o are the same day.
func (d Date) Equal(o Date) bool { return d.t.Equal(o.t) }

// AddDays moves d by n days.
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// Weekday returns the day of the week, Sunday = 0.
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }

// Time returns midnight UTC of d.
func (d Date) Time() time.Time { return d.t }

// String renders YYYY-MM-DD, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(dateLayout)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unparseable input yields the
// zero date instead of an error.
func (d *Date) UnmarshalText(b []byte) error {
	parsed, _ := ParseDate(string(b))
	*d = parsed
	return nil
}

// ParseClock validates an "HH:MM" clock time and returns it normalized.
func ParseClock(s string) (string, bool) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return "", false
	}
	return t.Format("15:04"), true
}
