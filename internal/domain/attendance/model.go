package attendance

import (
	"errors"
	"math"

	"clubhouse/internal/domain/period"
)

// Domain errors
var (
	ErrFutureLocked = errors.New("attendance cannot be recorded for a future session")
	ErrNotSaturday  = errors.New("sessions are held on Saturdays")
)

// Record maps date keys to presence.
type Record map[string]bool

// ComputeStreak counts consecutive attended sessions scanning backward from
// the most recent session.
// PRE: sessions are ascending date keys
// POST: returns 0 when the latest session is absent or false
func ComputeStreak(r Record, sessions []string) int {
	streak := 0
	for i := len(sessions) - 1; i >= 0; i-- {
		if !r[sessions[i]] {
			break
		}
		streak++
	}
	return streak
}

// PresentCount counts sessions marked present.
func PresentCount(r Record, sessions []string) int {
	n := 0
	for _, d := range sessions {
		if r[d] {
			n++
		}
	}
	return n
}

// Percent is present/total rounded to the nearest whole percent, 0 when total is 0.
func Percent(present, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(present) * 100 / float64(total)))
}

// LatestRecorded returns the greatest date key present in any record.
func LatestRecorded(records ...Record) string {
	latest := ""
	for _, r := range records {
		for d := range r {
			if d > latest {
				latest = d
			}
		}
	}
	return latest
}

// SessionBound returns the last date sessions are generated through: today,
// or a later recorded date when future sessions are unlocked.
// PRE: today is a date key
func SessionBound(today, latestRecorded string, lockFuture bool) string {
	if !lockFuture && latestRecorded > today {
		return latestRecorded
	}
	return today
}

// Sessions lists session dates from startDate through the bound.
func Sessions(startDate, today, latestRecorded string, lockFuture bool) []string {
	return period.SessionDates(startDate, SessionBound(today, latestRecorded, lockFuture))
}

// CheckEditable enforces the future-lock rule for a session date.
// PRE: date and today are valid date keys
// POST: returns ErrFutureLocked when locked and date is after today
func CheckEditable(date, today string, lockFuture bool) error {
	if lockFuture && date > today {
		return ErrFutureLocked
	}
	return nil
}

// Last returns at most n trailing sessions.
func Last(sessions []string, n int) []string {
	if n <= 0 || n >= len(sessions) {
		return sessions
	}
	return sessions[len(sessions)-n:]
}
