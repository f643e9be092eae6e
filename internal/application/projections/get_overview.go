package projections

import (
	"context"
	"errors"
	"strconv"
	"time"

	"clubhouse/internal/domain/club"
	"clubhouse/internal/domain/member"
	"clubhouse/internal/domain/obligation"
	"clubhouse/internal/domain/period"
	"clubhouse/internal/domain/settings"
)

// epochCreatedAt is shown for members stored before createdAt was tracked.
const epochCreatedAt = "1970-01-01T00:00:00Z"

// GetOverviewQuery carries query parameters. Empty keys select defaults.
type GetOverviewQuery struct {
	YearKey  string
	MonthKey string
}

// OverviewRow is one member's dashboard line.
type OverviewRow struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Nickname  string             `json:"nickname"`
	Position  string             `json:"position"`
	CreatedAt string             `json:"createdAt"`
	Yearly    obligation.Summary `json:"yearly"`
	Monthly   obligation.Summary `json:"monthly"`
}

// OverviewCounts tallies statuses across all members.
type OverviewCounts struct {
	TotalMembers      int `json:"totalMembers"`
	YearlyPaid        int `json:"yearlyPaid"`
	YearlyPending     int `json:"yearlyPending"`
	YearlyIncomplete  int `json:"yearlyIncomplete"`
	MonthlyPaid       int `json:"monthlyPaid"`
	MonthlyPending    int `json:"monthlyPending"`
	MonthlyIncomplete int `json:"monthlyIncomplete"`
}

// GetOverviewResult carries the query result.
type GetOverviewResult struct {
	Players  []OverviewRow  `json:"players"`
	Counts   OverviewCounts `json:"counts"`
	YearKey  string         `json:"yearKey"`
	MonthKey string         `json:"monthKey"`
}

// GetOverviewDeps holds dependencies for GetOverview.
type GetOverviewDeps struct {
	Store SnapshotReader
	Now   func() time.Time
	Today func() string
}

// QueryGetOverview builds the payments dashboard.
// PRE: keys are empty or well-formed
// POST: yearKey defaults to the season, monthKey to the current month
// INVARIANT: no store writes
func QueryGetOverview(ctx context.Context, query GetOverviewQuery, deps GetOverviewDeps) (GetOverviewResult, error) {
	var result GetOverviewResult
	err := deps.Store.View(ctx, func(s club.Snapshot) error {
		yearKey, monthKey, err := resolveKeys(s.Settings, query.YearKey, query.MonthKey, deps.Today())
		if err != nil {
			return err
		}
		result = BuildOverview(s.Players, s.Settings, yearKey, monthKey, deps.Now())
		return nil
	})
	return result, err
}

// BuildOverview computes every member's yearly and monthly obligation and
// the status tallies.
// INVARIANT: pure; members are not modified
func BuildOverview(members []member.Member, s settings.Settings, yearKey, monthKey string, now time.Time) GetOverviewResult {
	result := GetOverviewResult{
		Players:  make([]OverviewRow, 0, len(members)),
		YearKey:  yearKey,
		MonthKey: monthKey,
	}
	for _, m := range members {
		sum := member.Summarize(s, m, yearKey, monthKey, now)
		createdAt := m.CreatedAt
		if createdAt == "" {
			createdAt = epochCreatedAt
		}
		result.Players = append(result.Players, OverviewRow{
			ID:        m.ID,
			Name:      m.Name,
			Nickname:  m.Nickname,
			Position:  m.Position,
			CreatedAt: createdAt,
			Yearly:    sum.Yearly,
			Monthly:   sum.Monthly,
		})
		tally(sum.Yearly.Status, &result.Counts.YearlyPaid, &result.Counts.YearlyIncomplete, &result.Counts.YearlyPending)
		tally(sum.Monthly.Status, &result.Counts.MonthlyPaid, &result.Counts.MonthlyIncomplete, &result.Counts.MonthlyPending)
	}
	result.Counts.TotalMembers = len(result.Players)
	return result
}

func tally(st obligation.Status, paid, incomplete, pending *int) {
	switch st {
	case obligation.StatusPaid:
		*paid++
	case obligation.StatusIncomplete:
		*incomplete++
	default:
		*pending++
	}
}

var (
	errYearKey  = errors.New("yearKey must be YYYY")
	errMonthKey = errors.New("monthKey must be YYYY-MM")
)

// resolveKeys applies the default period keys and validates explicit ones.
func resolveKeys(s settings.Settings, yearKey, monthKey, today string) (string, string, error) {
	if yearKey == "" {
		if s.Season > 0 {
			yearKey = strconv.Itoa(s.Season)
		} else {
			yearKey = period.YearOfKey(today)
		}
	}
	if monthKey == "" && len(today) >= 7 {
		monthKey = today[:7]
	}
	if _, err := period.ParseYearKey(yearKey); err != nil {
		return "", "", badQuery(errYearKey)
	}
	if _, err := period.ParseMonthKey(monthKey); err != nil {
		return "", "", badQuery(errMonthKey)
	}
	return yearKey, monthKey, nil
}
