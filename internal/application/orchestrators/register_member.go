package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"clubhouse/internal/domain/activity"
	"clubhouse/internal/domain/club"
	"clubhouse/internal/domain/member"
)

// RegisterMemberInput carries input for the orchestrator.
type RegisterMemberInput struct {
	Name            string
	Nickname        string
	Position        string
	Email           string
	JerseyNumber    *int
	MemberSinceYear *int // nil uses the current season
}

// RegisterMemberDeps holds dependencies for RegisterMember.
type RegisterMemberDeps struct {
	Store      ClubStore
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteRegisterMember adds a member to the roster.
// PRE: Name non-empty, Position in member.Positions
// POST: Member appended with empty payments and attendance; member_joined logged
// INVARIANT: normalized name+nickname is unique across members
func ExecuteRegisterMember(ctx context.Context, input RegisterMemberInput, deps RegisterMemberDeps) (member.Member, error) {
	now := deps.Now()
	if y := input.MemberSinceYear; y != nil && (*y < 2000 || *y > now.Year()+1) {
		return member.Member{}, invalid(member.ErrInvalidSinceYear)
	}

	var created member.Member
	err := deps.Store.Update(ctx, func(s *club.Snapshot) error {
		since := s.Settings.Season
		if input.MemberSinceYear != nil {
			since = *input.MemberSinceYear
		}
		m := member.New(deps.GenerateID(), input.Name, input.Nickname, input.Position, since, now)
		m.Email = input.Email
		m.JerseyNumber = input.JerseyNumber
		if err := m.Validate(); err != nil {
			return invalid(err)
		}
		if s.HasIdentity(m.IdentityKey(), "") {
			return ErrConflict
		}
		s.Players = append(s.Players, m)
		s.Log(activity.New(deps.GenerateID(), fmt.Sprintf("New member joined: %s", displayName(m.Name, m.Nickname)), activity.TypeMemberJoined, now))
		created = m
		return nil
	})
	if err != nil {
		return member.Member{}, err
	}

	slog.Info("member_event", "event", "member_registered", "member_id", created.ID)
	return created, nil
}

func displayName(name, nickname string) string {
	if nickname == "" {
		return name
	}
	return name + " (" + nickname + ")"
}
