package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"clubhouse/internal/domain/activity"
	"clubhouse/internal/domain/club"
	"clubhouse/internal/domain/member"
)

// UpdateMemberInput carries a partial update; nil fields are left unchanged.
type UpdateMemberInput struct {
	MemberID        string
	Name            *string
	Nickname        *string
	Position        *string
	Email           *string
	JerseyNumber    *int
	ClearJersey     bool
	MemberSinceYear *int
}

// UpdateMemberDeps holds dependencies for UpdateMember.
type UpdateMemberDeps struct {
	Store ClubStore
	Now   func() time.Time
}

// ExecuteUpdateMember edits a member's identity fields.
// PRE: MemberID names an existing member
// POST: Member saved only when the result validates and stays unique
func ExecuteUpdateMember(ctx context.Context, input UpdateMemberInput, deps UpdateMemberDeps) (member.Member, error) {
	if input.MemberID == "" {
		return member.Member{}, invalidf("member ID is required")
	}
	if y := input.MemberSinceYear; y != nil && (*y < 2000 || *y > deps.Now().Year()+1) {
		return member.Member{}, invalid(member.ErrInvalidSinceYear)
	}

	var updated member.Member
	err := deps.Store.Update(ctx, func(s *club.Snapshot) error {
		i := s.FindPlayer(input.MemberID)
		if i < 0 {
			return ErrNotFound
		}
		m := s.Players[i]
		if input.Name != nil {
			m.Name = strings.TrimSpace(*input.Name)
		}
		if input.Nickname != nil {
			m.Nickname = strings.TrimSpace(*input.Nickname)
		}
		if input.Position != nil {
			m.Position = strings.ToUpper(strings.TrimSpace(*input.Position))
		}
		if input.Email != nil {
			m.Email = strings.TrimSpace(*input.Email)
		}
		if input.ClearJersey {
			m.JerseyNumber = nil
		} else if input.JerseyNumber != nil {
			n := *input.JerseyNumber
			m.JerseyNumber = &n
		}
		if input.MemberSinceYear != nil {
			y := *input.MemberSinceYear
			m.Membership.MemberSinceYear = &y
		}
		if err := m.Validate(); err != nil {
			return invalid(err)
		}
		if s.HasIdentity(m.IdentityKey(), m.ID) {
			return ErrConflict
		}
		s.Players[i] = m
		updated = m
		return nil
	})
	if err != nil {
		return member.Member{}, err
	}

	slog.Info("member_event", "event", "member_updated", "member_id", updated.ID)
	return updated, nil
}

// DeleteMemberInput carries input for the orchestrator.
type DeleteMemberInput struct {
	MemberID string
}

// DeleteMemberDeps holds dependencies for DeleteMember.
type DeleteMemberDeps struct {
	Store      ClubStore
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteDeleteMember removes a member together with their payments,
// attendance and stats.
// PRE: MemberID names an existing member
// POST: Member gone from the roster; member_deleted logged
func ExecuteDeleteMember(ctx context.Context, input DeleteMemberInput, deps DeleteMemberDeps) error {
	if input.MemberID == "" {
		return invalidf("member ID is required")
	}
	err := deps.Store.Update(ctx, func(s *club.Snapshot) error {
		i := s.FindPlayer(input.MemberID)
		if i < 0 {
			return ErrNotFound
		}
		m := s.Players[i]
		s.Players = append(s.Players[:i], s.Players[i+1:]...)
		s.Log(activity.New(deps.GenerateID(), fmt.Sprintf("Member removed: %s", displayName(m.Name, m.Nickname)), activity.TypeMemberDeleted, deps.Now()))
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("member_event", "event", "member_deleted", "member_id", input.MemberID)
	return nil
}
