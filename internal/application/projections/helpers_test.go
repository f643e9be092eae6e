package projections

import (
	"context"
	"time"

	"clubhouse/internal/domain/club"
	"clubhouse/internal/domain/member"
	"clubhouse/internal/domain/money"
	"clubhouse/internal/domain/settings"
)

var clock = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func now() time.Time { return clock }

func today() string { return "2026-03-14" }

// snapshotStore implements SnapshotReader over a fixed snapshot.
type snapshotStore struct {
	snap  club.Snapshot
	views int
}

// View passes a copy of the snapshot to fn.
// POST: views incremented; the held snapshot is never modified
func (s *snapshotStore) View(_ context.Context, fn func(club.Snapshot) error) error {
	s.views++
	c, err := s.snap.Clone()
	if err != nil {
		return err
	}
	return fn(c)
}

// testSettings returns a season 2026 club with sessions from 2026-01-10.
func testSettings() settings.Settings {
	s := settings.Default(2026)
	s.Fees.MonthlySchedule = []settings.ScheduleEntry{
		{From: "2026-01", Amount: money.New(2000)},
		{From: "2026-02", Amount: money.New(3000)},
	}
	s.Fees.NewMemberYearly = money.New(10000)
	s.Fees.RenewalYearly = money.New(8000)
	s.Attendance.StartDate = "2026-01-10"
	return s
}

func newStore(players ...member.Member) *snapshotStore {
	snap := club.Empty(2026)
	snap.Settings = testSettings()
	snap.Players = append(snap.Players, players...)
	return &snapshotStore{snap: snap}
}

func player(id, name, nickname string, since int) member.Member {
	return member.New(id, name, nickname, "FW", since, clock)
}
