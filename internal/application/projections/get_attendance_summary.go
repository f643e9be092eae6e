package projections

import (
	"context"
	"errors"
	"sort"
	"strings"

	"clubhouse/internal/domain/attendance"
	"clubhouse/internal/domain/club"
)

// DefaultSummaryRange is the number of recent sessions summarized when none is requested.
const DefaultSummaryRange = 8

var errRange = errors.New("range must be a non-negative number of sessions")

// topListSize bounds the leaderboards.
const topListSize = 5

// GetAttendanceSummaryQuery carries query parameters. Range 0 selects the default.
type GetAttendanceSummaryQuery struct {
	Range  int
	Search string
}

// AttendanceRow is one member's attendance over the window.
type AttendanceRow struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Nickname string `json:"nickname"`
	Present  int    `json:"present"`
	Total    int    `json:"total"`
	Percent  int    `json:"percent"`
	Streak   int    `json:"streak"`
}

// RankEntry is one leaderboard line.
type RankEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// GetAttendanceSummaryResult carries the query result.
type GetAttendanceSummaryResult struct {
	Sessions   []string        `json:"sessions"`
	Window     []string        `json:"window"`
	Rows       []AttendanceRow `json:"rows"`
	Total      int             `json:"total"`
	TopPercent []RankEntry     `json:"topPercent"`
	TopStreaks []RankEntry     `json:"topStreaks"`
}

// GetAttendanceSummaryDeps holds dependencies for GetAttendanceSummary.
type GetAttendanceSummaryDeps struct {
	Store SnapshotReader
	Today func() string
}

// QueryGetAttendanceSummary reports attendance over the last Range sessions.
// PRE: Range >= 0
// POST: streaks run over every generated session, percentages over the window only
func QueryGetAttendanceSummary(ctx context.Context, query GetAttendanceSummaryQuery, deps GetAttendanceSummaryDeps) (GetAttendanceSummaryResult, error) {
	if query.Range < 0 {
		return GetAttendanceSummaryResult{}, badQuery(errRange)
	}
	n := query.Range
	if n == 0 {
		n = DefaultSummaryRange
	}
	var result GetAttendanceSummaryResult
	err := deps.Store.View(ctx, func(s club.Snapshot) error {
		records := make([]attendance.Record, 0, len(s.Players))
		for _, m := range s.Players {
			records = append(records, m.Attendance)
		}
		sessions := nonNilStrings(attendance.Sessions(s.Settings.Attendance.StartDate, deps.Today(),
			attendance.LatestRecorded(records...), s.Settings.LockFuture()))
		window := attendance.Last(sessions, n)

		result = GetAttendanceSummaryResult{
			Sessions: sessions,
			Window:   window,
			Rows:     []AttendanceRow{},
			Total:    len(s.Players),
		}
		for _, m := range s.Players {
			if !matchesSearch(query.Search, m.Name, m.Nickname) {
				continue
			}
			present := attendance.PresentCount(m.Attendance, window)
			result.Rows = append(result.Rows, AttendanceRow{
				ID:       m.ID,
				Name:     m.Name,
				Nickname: m.Nickname,
				Present:  present,
				Total:    len(window),
				Percent:  attendance.Percent(present, len(window)),
				Streak:   attendance.ComputeStreak(m.Attendance, sessions),
			})
		}
		result.TopPercent = top(result.Rows, func(r AttendanceRow) int { return r.Percent })
		result.TopStreaks = top(result.Rows, func(r AttendanceRow) int { return r.Streak })
		return nil
	})
	return result, err
}

func top(rows []AttendanceRow, value func(AttendanceRow) int) []RankEntry {
	ranked := make([]AttendanceRow, len(rows))
	copy(ranked, rows)
	sort.SliceStable(ranked, func(i, j int) bool { return value(ranked[i]) > value(ranked[j]) })
	out := make([]RankEntry, 0, topListSize)
	for _, r := range ranked {
		if len(out) == topListSize {
			break
		}
		out = append(out, RankEntry{ID: r.ID, Name: displayName(r.Name, r.Nickname), Value: value(r)})
	}
	return out
}

func displayName(name, nickname string) string {
	if strings.TrimSpace(nickname) == "" {
		return name
	}
	return name + " (" + nickname + ")"
}
