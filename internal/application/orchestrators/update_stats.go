package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"clubhouse/internal/domain/activity"
	"clubhouse/internal/domain/club"
	"clubhouse/internal/domain/member"
	"clubhouse/internal/domain/obligation"
	"clubhouse/internal/domain/settings"
)

// UpdateStatsInput carries the full counter set for one member.
type UpdateStatsInput struct {
	MemberID   string
	Goals      int
	Assists    int
	Yellow     int
	Red        int
	YellowPaid int
	RedPaid    int
}

// UpdateStatsDeps holds dependencies for UpdateStats.
type UpdateStatsDeps struct {
	Store      ClubStore
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteUpdateStats replaces a member's season counters.
// PRE: counters, paid counters included, are non-negative
// POST: paid card counters are capped to cards received
// POST: fines_cleared is logged when the fine balance drops to zero
// INVARIANT: YellowPaid <= Yellow and RedPaid <= Red after the write
func ExecuteUpdateStats(ctx context.Context, input UpdateStatsInput, deps UpdateStatsDeps) (member.Member, error) {
	if input.MemberID == "" {
		return member.Member{}, invalidf("member ID is required")
	}
	if input.Goals < 0 || input.Assists < 0 || input.Yellow < 0 || input.Red < 0 ||
		input.YellowPaid < 0 || input.RedPaid < 0 {
		return member.Member{}, invalid(member.ErrNegativeStat)
	}

	var updated member.Member
	err := deps.Store.Update(ctx, func(s *club.Snapshot) error {
		i := s.FindPlayer(input.MemberID)
		if i < 0 {
			return ErrNotFound
		}
		m := s.Players[i]
		rates := fineRates(s.Settings)
		before := obligation.Fines(m.Cards(), rates)

		m.Stats = member.Stats{Goals: input.Goals, Assists: input.Assists, Yellow: input.Yellow, Red: input.Red}
		m.Discipline = member.Discipline{YellowPaid: input.YellowPaid, RedPaid: input.RedPaid}
		m.CapDiscipline()

		after := obligation.Fines(m.Cards(), rates)
		if before.FineOwed.IsPositive() && !after.FineOwed.IsPositive() {
			s.Log(activity.New(deps.GenerateID(), fmt.Sprintf("Fines cleared: %s", displayName(m.Name, m.Nickname)), activity.TypeFinesCleared, deps.Now()))
		}
		s.Players[i] = m
		updated = m
		return nil
	})
	if err != nil {
		return member.Member{}, err
	}

	slog.Info("member_event", "event", "stats_updated", "member_id", updated.ID)
	return updated, nil
}

func fineRates(s settings.Settings) obligation.Rates {
	return obligation.Rates{Yellow: s.Discipline.YellowFine, Red: s.Discipline.RedFine}
}
