// Package obligation derives payment and fine status from expected and paid amounts.
package obligation

import (
	"clubhouse/internal/domain/money"
)

// Status is the obligation status wire literal.
type Status string

// Status values.
const (
	StatusPending    Status = "PENDING"
	StatusIncomplete Status = "INCOMPLETE"
	StatusPaid       Status = "PAID"
)

// Display labels used by dashboards and the obligations board.
const (
	LabelPending    = "Pending"
	LabelIncomplete = "Incomplete"
	LabelCleared    = "Cleared"
	LabelNoCards    = "No cards"
)

// Label returns the display variant of s.
func (s Status) Label() string {
	switch s {
	case StatusPaid:
		return LabelCleared
	case StatusIncomplete:
		return LabelIncomplete
	default:
		return LabelPending
	}
}

// Result is the status and outstanding balance of one obligation.
type Result struct {
	Status    Status       `json:"status"`
	Remaining money.Amount `json:"remaining"`
}

// StatusFromPaid applies the status rule table to raw amounts.
// PRE: none; amounts are used as given
// POST: Remaining is never negative
// INVARIANT: expected <= 0 with a payment is INCOMPLETE so anomalies stay visible
func StatusFromPaid(expected, paid money.Amount) Result {
	if expected.IsPositive() {
		switch {
		case paid.GreaterThanOrEqual(expected):
			return Result{Status: StatusPaid, Remaining: money.Zero}
		case paid.IsPositive():
			return Result{Status: StatusIncomplete, Remaining: expected.Sub(paid)}
		default:
			return Result{Status: StatusPending, Remaining: expected}
		}
	}
	if paid.IsPositive() {
		return Result{Status: StatusIncomplete, Remaining: money.Zero}
	}
	return Result{Status: StatusPending, Remaining: money.Zero}
}

// Summary is one cycle's obligation as shown in overview rows.
type Summary struct {
	Expected  money.Amount `json:"expected"`
	Paid      money.Amount `json:"paid"`
	Remaining money.Amount `json:"remaining"`
	Status    Status       `json:"status"`
}

// Summarize builds a Summary from expected and paid amounts.
func Summarize(expected, paid money.Amount) Summary {
	r := StatusFromPaid(expected, paid)
	return Summary{Expected: expected, Paid: paid, Remaining: r.Remaining, Status: r.Status}
}

// Owed is max(0, expected - paid) with paid clamped at zero.
func Owed(expected, paid money.Amount) money.Amount {
	return money.NonNegative(expected.Sub(money.NonNegative(paid)))
}

// Combined labels an entity's total position across all obligations.
// PRE: totalOwed >= 0
// POST: Cleared when nothing is owed, Pending when nothing has been paid
func Combined(totalOwed money.Amount, anythingPaid bool) string {
	switch {
	case !totalOwed.IsPositive():
		return LabelCleared
	case !anythingPaid:
		return LabelPending
	default:
		return LabelIncomplete
	}
}

// Rank orders combined labels for triage: Pending first, then Incomplete, then Cleared.
func Rank(label string) int {
	switch label {
	case LabelPending:
		return 3
	case LabelIncomplete:
		return 2
	case LabelCleared:
		return 1
	default:
		return 0
	}
}
