package projections

import (
	"context"
	"strconv"
	"strings"
	"time"

	"clubhouse/internal/domain/attendance"
	"clubhouse/internal/domain/club"
	"clubhouse/internal/domain/member"
	"clubhouse/internal/domain/obligation"
	"clubhouse/internal/domain/period"
)

// profileSessions is the number of recent sessions listed on a profile.
const profileSessions = 6

// GetMemberProfileQuery carries query parameters.
type GetMemberProfileQuery struct {
	MemberID string
	YearKey  string
	MonthKey string
}

// SessionMark is one session and whether the member attended.
type SessionMark struct {
	Date    string `json:"date"`
	Present bool   `json:"present"`
}

// GetMemberProfileResult carries the query result.
type GetMemberProfileResult struct {
	Member          member.Member          `json:"player"`
	MemberSinceYear int                    `json:"memberSinceYear"`
	YearKey         string                 `json:"yearKey"`
	MonthKey        string                 `json:"monthKey"`
	Payments        member.PaymentSummary  `json:"payments"`
	Recent          []SessionMark          `json:"recentSessions"`
	Streak          int                    `json:"streak"`
	Fines           obligation.FineSummary `json:"fines"`
}

// GetMemberProfileDeps holds dependencies for GetMemberProfile.
type GetMemberProfileDeps struct {
	Store SnapshotReader
	Now   func() time.Time
	Today func() string
}

// QueryGetMemberProfile assembles one member's payment, attendance and fine view.
// PRE: MemberID is non-empty
// POST: returns ErrNotFound for an unknown member
// INVARIANT: recent sessions are limited to the season year
func QueryGetMemberProfile(ctx context.Context, query GetMemberProfileQuery, deps GetMemberProfileDeps) (GetMemberProfileResult, error) {
	var result GetMemberProfileResult
	err := deps.Store.View(ctx, func(s club.Snapshot) error {
		i := s.FindPlayer(query.MemberID)
		if i < 0 {
			return ErrNotFound
		}
		m := s.Players[i]
		yearKey, monthKey, err := resolveKeys(s.Settings, query.YearKey, query.MonthKey, deps.Today())
		if err != nil {
			return err
		}
		now := deps.Now()

		seasonYear := strconv.Itoa(s.Settings.Season)
		if s.Settings.Season <= 0 {
			seasonYear = period.YearOfKey(deps.Today())
		}
		var sessions []string
		for _, d := range attendance.Sessions(s.Settings.Attendance.StartDate, deps.Today(),
			attendance.LatestRecorded(m.Attendance), s.Settings.LockFuture()) {
			if strings.HasPrefix(d, seasonYear+"-") {
				sessions = append(sessions, d)
			}
		}
		recent := make([]SessionMark, 0, profileSessions)
		for _, d := range attendance.Last(sessions, profileSessions) {
			recent = append(recent, SessionMark{Date: d, Present: m.Attendance[d]})
		}

		result = GetMemberProfileResult{
			Member:          m,
			MemberSinceYear: member.ResolveMemberSinceYear(s.Settings, m, now),
			YearKey:         yearKey,
			MonthKey:        monthKey,
			Payments:        member.Summarize(s.Settings, m, yearKey, monthKey, now),
			Recent:          recent,
			Streak:          attendance.ComputeStreak(m.Attendance, sessions),
			Fines:           obligation.Fines(m.Cards(), fineRates(s.Settings)),
		}
		return nil
	})
	return result, err
}
