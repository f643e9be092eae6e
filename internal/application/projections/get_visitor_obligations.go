package projections

import (
	"context"
	"errors"
	"sort"

	"clubhouse/internal/domain/attendance"
	"clubhouse/internal/domain/club"
	"clubhouse/internal/domain/money"
	"clubhouse/internal/domain/obligation"
	"clubhouse/internal/domain/period"
	"clubhouse/internal/domain/visitor"
)

// GetVisitorObligationsQuery carries query parameters. An empty SessionDate
// selects the latest session.
type GetVisitorObligationsQuery struct {
	SessionDate string
	Search      string
}

// VisitorObligationRow is one visitor's position for a session.
type VisitorObligationRow struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Nickname  string                 `json:"nickname"`
	Session   obligation.Summary     `json:"session"`
	Fines     obligation.FineSummary `json:"fines"`
	TotalOwed money.Amount           `json:"totalOwed"`
	Status    string                 `json:"status"`
}

// GetVisitorObligationsResult carries the query result.
type GetVisitorObligationsResult struct {
	Rows        []VisitorObligationRow `json:"rows"`
	Total       int                    `json:"total"`
	SessionDate string                 `json:"sessionDate"`
	Sessions    []string               `json:"sessions"`
}

// GetVisitorObligationsDeps holds dependencies for GetVisitorObligations.
type GetVisitorObligationsDeps struct {
	Store SnapshotReader
	Today func() string
}

var errSessionDate = errors.New("sessionDate must be YYYY-MM-DD")

// QueryGetVisitorObligations lists session fee and fine balances for visitors.
// PRE: SessionDate is empty or a date key
// POST: with no sessions and no explicit date the session fee is not charged
func QueryGetVisitorObligations(ctx context.Context, query GetVisitorObligationsQuery, deps GetVisitorObligationsDeps) (GetVisitorObligationsResult, error) {
	if query.SessionDate != "" {
		if _, err := period.ParseDateKey(query.SessionDate); err != nil {
			return GetVisitorObligationsResult{}, badQuery(errSessionDate)
		}
	}
	var result GetVisitorObligationsResult
	err := deps.Store.View(ctx, func(s club.Snapshot) error {
		records := make([]attendance.Record, 0, len(s.Visitors))
		for _, v := range s.Visitors {
			records = append(records, v.Attendance)
		}
		sessions := attendance.Sessions(s.Settings.Attendance.StartDate, deps.Today(),
			attendance.LatestRecorded(records...), s.Settings.LockFuture())
		date := query.SessionDate
		if date == "" && len(sessions) > 0 {
			date = sessions[len(sessions)-1]
		}
		result = GetVisitorObligationsResult{
			Rows:        []VisitorObligationRow{},
			Total:       len(s.Visitors),
			SessionDate: date,
			Sessions:    nonNilStrings(sessions),
		}
		rates := fineRates(s.Settings)
		for _, v := range s.Visitors {
			if !matchesSearch(query.Search, v.Name, v.Nickname) {
				continue
			}
			result.Rows = append(result.Rows, visitorRow(v, date, s.Settings.Fees.VisitorSession, rates))
		}
		sortVisitorRows(result.Rows)
		return nil
	})
	return result, err
}

func visitorRow(v visitor.Visitor, date string, fee money.Amount, rates obligation.Rates) VisitorObligationRow {
	var session obligation.Summary
	if date != "" {
		session = obligation.Summarize(fee, money.NonNegative(v.Payments.Sessions[date].Paid))
	} else {
		session = obligation.Summarize(money.Zero, money.Zero)
	}
	fines := obligation.Fines(v.Cards(), rates)
	total := session.Remaining.Add(fines.FineOwed)
	return VisitorObligationRow{
		ID:        v.ID,
		Name:      v.Name,
		Nickname:  v.Nickname,
		Session:   session,
		Fines:     fines,
		TotalOwed: total,
		Status:    obligation.Combined(total, session.Paid.IsPositive() || fines.PaidCount > 0),
	}
}

func sortVisitorRows(rows []VisitorObligationRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return triageLess(rows[i].Status, rows[j].Status, rows[i].TotalOwed, rows[j].TotalOwed, rows[i].Name, rows[j].Name)
	})
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
