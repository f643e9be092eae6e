// Package period parses the year, month and date keys used to index payments
// and attendance, and generates the weekly session calendar.
package period

import (
	"errors"
	"strconv"
	"time"
)

// Key layouts.
const (
	YearLayout  = "2006"
	MonthLayout = "2006-01"
	DateLayout  = "2006-01-02"
)

// Domain errors
var (
	ErrInvalidYearKey  = errors.New("year key must be YYYY")
	ErrInvalidMonthKey = errors.New("month key must be YYYY-MM")
	ErrInvalidDateKey  = errors.New("date must be YYYY-MM-DD")
)

// ParseYearKey validates a four-digit year key and returns the year.
// PRE: none
// POST: returns ErrInvalidYearKey unless key is exactly four digits
func ParseYearKey(key string) (int, error) {
	if len(key) != 4 || !digits(key) {
		return 0, ErrInvalidYearKey
	}
	y, _ := strconv.Atoi(key)
	return y, nil
}

// ParseMonthKey validates a YYYY-MM key.
// PRE: none
// POST: returns the first day of the month in UTC, or ErrInvalidMonthKey
func ParseMonthKey(key string) (time.Time, error) {
	if len(key) != 7 || key[4] != '-' || !digits(key[:4]) || !digits(key[5:]) {
		return time.Time{}, ErrInvalidMonthKey
	}
	t, err := time.Parse(MonthLayout, key)
	if err != nil {
		return time.Time{}, ErrInvalidMonthKey
	}
	return t, nil
}

// ParseDateKey validates a YYYY-MM-DD key naming a real calendar day.
// PRE: none
// POST: returns the day at midnight UTC, or ErrInvalidDateKey
func ParseDateKey(key string) (time.Time, error) {
	if len(key) != 10 {
		return time.Time{}, ErrInvalidDateKey
	}
	t, err := time.Parse(DateLayout, key)
	if err != nil {
		return time.Time{}, ErrInvalidDateKey
	}
	return t, nil
}

// YearKeyOf formats t as a year key.
func YearKeyOf(t time.Time) string { return t.Format(YearLayout) }

// MonthKeyOf formats t as a month key.
func MonthKeyOf(t time.Time) string { return t.Format(MonthLayout) }

// DateKeyOf formats t as a date key.
func DateKeyOf(t time.Time) string { return t.Format(DateLayout) }

// YearOfKey returns the year prefix of a month or date key, or "" when too short.
func YearOfKey(key string) string {
	if len(key) < 4 {
		return ""
	}
	return key[:4]
}

// IsSaturday reports whether a valid date key falls on a Saturday.
func IsSaturday(key string) bool {
	t, err := ParseDateKey(key)
	return err == nil && t.Weekday() == time.Saturday
}

// SessionDates lists every Saturday from the first one on or after start up to
// and including end, as date keys in ascending order.
// PRE: start and end are date keys
// POST: empty when either key is invalid or end precedes the first session
func SessionDates(start, end string) []string {
	from, err := ParseDateKey(start)
	if err != nil {
		return nil
	}
	to, err := ParseDateKey(end)
	if err != nil {
		return nil
	}
	offset := (int(time.Saturday) - int(from.Weekday()) + 7) % 7
	var dates []string
	for d := from.AddDate(0, 0, offset); !d.After(to); d = d.AddDate(0, 0, 7) {
		dates = append(dates, DateKeyOf(d))
	}
	return dates
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
