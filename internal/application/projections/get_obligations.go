package projections

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"clubhouse/internal/domain/club"
	"clubhouse/internal/domain/member"
	"clubhouse/internal/domain/money"
	"clubhouse/internal/domain/obligation"
	"clubhouse/internal/domain/settings"
)

// GetObligationsQuery carries query parameters.
type GetObligationsQuery struct {
	YearKey  string
	MonthKey string
	Search   string
}

// ObligationRow is one member's total position.
type ObligationRow struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Nickname    string                 `json:"nickname"`
	MonthlyOwed money.Amount           `json:"monthlyOwed"`
	YearlyOwed  money.Amount           `json:"yearlyOwed"`
	Fines       obligation.FineSummary `json:"fines"`
	TotalOwed   money.Amount           `json:"totalOwed"`
	Status      string                 `json:"status"`
}

// GetObligationsResult carries the query result.
type GetObligationsResult struct {
	Rows     []ObligationRow `json:"rows"`
	Total    int             `json:"total"`
	YearKey  string          `json:"yearKey"`
	MonthKey string          `json:"monthKey"`
	Months   []string        `json:"months"`
	Years    []string        `json:"years"`
}

// GetObligationsDeps holds dependencies for GetObligations.
type GetObligationsDeps struct {
	Store SnapshotReader
	Now   func() time.Time
	Today func() string
}

// QueryGetObligations builds the obligations board.
// PRE: keys are empty or well-formed
// POST: rows are ordered Pending, Incomplete, Cleared, then by total owed descending, then by name
// INVARIANT: Total counts all members before the search filter
func QueryGetObligations(ctx context.Context, query GetObligationsQuery, deps GetObligationsDeps) (GetObligationsResult, error) {
	var result GetObligationsResult
	err := deps.Store.View(ctx, func(s club.Snapshot) error {
		yearKey, monthKey, err := resolveKeys(s.Settings, query.YearKey, query.MonthKey, deps.Today())
		if err != nil {
			return err
		}
		result = GetObligationsResult{
			Rows:     []ObligationRow{},
			Total:    len(s.Players),
			YearKey:  yearKey,
			MonthKey: monthKey,
		}
		result.Months, result.Years = periodKeys(s)
		now := deps.Now()
		for _, m := range s.Players {
			if !matchesSearch(query.Search, m.Name, m.Nickname) {
				continue
			}
			result.Rows = append(result.Rows, obligationRow(s.Settings, m, yearKey, monthKey, now))
		}
		sortObligations(result.Rows)
		return nil
	})
	return result, err
}

func obligationRow(s settings.Settings, m member.Member, yearKey, monthKey string, now time.Time) ObligationRow {
	yearlyPaid := money.NonNegative(m.Payments.Yearly[yearKey].Paid)
	monthlyPaid := money.NonNegative(m.Payments.Monthly[monthKey].Paid)
	yearlyOwed := obligation.Owed(member.ExpectedYearly(s, m, yearKey, now), yearlyPaid)
	monthlyOwed := obligation.Owed(member.ExpectedMonthly(s, monthKey), monthlyPaid)
	fines := obligation.Fines(m.Cards(), fineRates(s))
	total := yearlyOwed.Add(monthlyOwed).Add(fines.FineOwed)
	anythingPaid := yearlyPaid.IsPositive() || monthlyPaid.IsPositive() || fines.PaidCount > 0
	return ObligationRow{
		ID:          m.ID,
		Name:        m.Name,
		Nickname:    m.Nickname,
		MonthlyOwed: monthlyOwed,
		YearlyOwed:  yearlyOwed,
		Fines:       fines,
		TotalOwed:   total,
		Status:      obligation.Combined(total, anythingPaid),
	}
}

func sortObligations(rows []ObligationRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return triageLess(rows[i].Status, rows[j].Status, rows[i].TotalOwed, rows[j].TotalOwed, rows[i].Name, rows[j].Name)
	})
}

// triageLess orders by combined label rank, then total owed descending, then name.
func triageLess(statusA, statusB string, owedA, owedB money.Amount, nameA, nameB string) bool {
	if ra, rb := obligation.Rank(statusA), obligation.Rank(statusB); ra != rb {
		return ra > rb
	}
	if c := owedA.Cmp(owedB); c != 0 {
		return c > 0
	}
	return strings.ToLower(nameA) < strings.ToLower(nameB)
}

// periodKeys lists month and year keys seen in payments and legacy
// subscriptions; the season year is always offered.
func periodKeys(s club.Snapshot) (months, years []string) {
	monthSet := map[string]bool{}
	yearSet := map[string]bool{}
	if s.Settings.Season > 0 {
		yearSet[strconv.Itoa(s.Settings.Season)] = true
	}
	for _, m := range s.Players {
		for k := range m.Payments.Monthly {
			monthSet[k] = true
		}
		for k := range m.Payments.Yearly {
			yearSet[k] = true
		}
		if m.Subscriptions != nil {
			for k := range m.Subscriptions.Months {
				monthSet[k] = true
			}
			for k := range m.Subscriptions.Year {
				yearSet[k] = true
			}
		}
	}
	return sortedKeys(monthSet), sortedKeys(yearSet)
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func fineRates(s settings.Settings) obligation.Rates {
	return obligation.Rates{Yellow: s.Discipline.YellowFine, Red: s.Discipline.RedFine}
}
