package activity

import (
	"strings"
	"time"
)

// Entry types.
const (
	TypeMemberJoined    = "member_joined"
	TypeMemberDeleted   = "member_deleted"
	TypeMonthlyCleared  = "monthly_cleared"
	TypeMonthlyUpdated  = "monthly_updated"
	TypeYearlyCleared   = "yearly_cleared"
	TypeYearlyUpdated   = "yearly_updated"
	TypeFinesCleared    = "fines_cleared"
	TypeVisitorPromoted = "visitor_promoted"
	TypeSeasonRollover  = "season_rollover"
	TypeSeasonReset     = "season_reset"
)

var labels = map[string]string{
	TypeMemberJoined:    "Member joined",
	TypeMemberDeleted:   "Member removed",
	TypeMonthlyCleared:  "Monthly cleared",
	TypeMonthlyUpdated:  "Monthly updated",
	TypeYearlyCleared:   "Yearly cleared",
	TypeYearlyUpdated:   "Yearly updated",
	TypeFinesCleared:    "Fines cleared",
	TypeVisitorPromoted: "Visitor promoted",
	TypeSeasonRollover:  "Season rollover",
	TypeSeasonReset:     "Season reset",
}

// Label returns the display label for an entry type.
func Label(entryType string) string {
	if l, ok := labels[entryType]; ok {
		return l
	}
	return "Activity"
}

// KnownType reports whether t is a recognised entry type.
func KnownType(t string) bool {
	_, ok := labels[t]
	return ok
}

// Entry is one append-only activity log record.
type Entry struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
	Type      string `json:"type,omitempty"`
}

// New returns an entry stamped with now in epoch milliseconds.
func New(id, message, entryType string, now time.Time) Entry {
	return Entry{ID: id, Message: message, Timestamp: now.UnixMilli(), Type: entryType}
}

// Time returns the entry timestamp.
func (e Entry) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// Filter selects entries for listing.
type Filter struct {
	Type  string
	Query string
	From  time.Time // inclusive; zero means unbounded
	To    time.Time // inclusive; zero means unbounded
}

// Matches reports whether e passes f.
func (f Filter) Matches(e Entry) bool {
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" && !strings.Contains(strings.ToLower(e.Message), q) {
		return false
	}
	t := e.Time()
	if !f.From.IsZero() && t.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && t.After(f.To) {
		return false
	}
	return true
}
