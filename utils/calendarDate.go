package utils

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// CalendarDate is a civil date (year/month/day) with no time-of-day and no
// timezone. All due-date and recurrence comparisons go through this type so
// that a persisted UTC-midnight timestamp for "2026-01-20" is always read
// back as January 20, never shifted a day by the viewer's UTC offset.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

func NewCalendarDate(year int, month time.Month, day int) CalendarDate {
	// normalize through time.Date so Feb 31 becomes Mar 2/3 etc.
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return CalendarDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// CalendarDateOf takes the calendar components as written in t's own
// location. Timestamps stored as UTC midnight must be passed in UTC
// (the mysql driver with parseTime=true already returns them in UTC).
func CalendarDateOf(t time.Time) CalendarDate {
	return CalendarDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// ParseCalendarDate accepts "2006-01-02" or a full RFC 3339 timestamp and
// keeps the date components as written.
func ParseCalendarDate(s string) (CalendarDate, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return CalendarDateOf(t), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return CalendarDate{}, fmt.Errorf("%w: invalid date %q", ErrorValidation, s)
	}
	return CalendarDateOf(t.UTC()), nil
}

// Time returns the date as a UTC-midnight timestamp, the storage form used
// for every date column.
func (d CalendarDate) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d CalendarDate) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

func (d CalendarDate) String() string {
	return d.Time().Format("2006-01-02")
}

// AddDays returns the date n calendar days later (earlier for negative n).
func (d CalendarDate) AddDays(n int) CalendarDate {
	return CalendarDateOf(d.Time().AddDate(0, 0, n))
}

// AddMonths keeps the day-of-month and lets time.Date normalize overflow:
// Jan 31 + 1 month lands on Mar 2 (Mar 3 in leap-less February handling),
// never on a repeated or skipped date. The walk is always anchored on the
// original start day, so repeated calls cannot drift.
func (d CalendarDate) AddMonths(n int) CalendarDate {
	return CalendarDateOf(time.Date(d.Year, d.Month+time.Month(n), d.Day, 0, 0, 0, 0, time.UTC))
}

// AddYears normalizes Feb 29 to Mar 1 on non-leap target years.
func (d CalendarDate) AddYears(n int) CalendarDate {
	return CalendarDateOf(time.Date(d.Year+n, d.Month, d.Day, 0, 0, 0, 0, time.UTC))
}

func (d CalendarDate) Equal(other CalendarDate) bool {
	return d.Year == other.Year && d.Month == other.Month && d.Day == other.Day
}

func (d CalendarDate) Before(other CalendarDate) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

func (d CalendarDate) After(other CalendarDate) bool {
	return other.Before(d)
}

// SameDate reports whether two timestamps fall on the same calendar date,
// compared in UTC storage form.
func SameDate(a, b time.Time) bool {
	return CalendarDateOf(a.UTC()).Equal(CalendarDateOf(b.UTC()))
}

func (d CalendarDate) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *CalendarDate) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := ParseCalendarDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value / Scan let gorm persist the date as a DATE column.
func (d CalendarDate) Value() (driver.Value, error) {
	return d.Time(), nil
}

func (d *CalendarDate) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*d = CalendarDateOf(v.UTC())
		return nil
	case []byte:
		parsed, err := ParseCalendarDate(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case string:
		parsed, err := ParseCalendarDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	}
	return fmt.Errorf("cannot scan %T into CalendarDate", src)
}
