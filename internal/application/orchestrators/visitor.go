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
	"clubhouse/internal/domain/money"
	"clubhouse/internal/domain/period"
	"clubhouse/internal/domain/visitor"
)

// VisitorDeps holds dependencies for visitor commands.
type VisitorDeps struct {
	Store      ClubStore
	GenerateID func() string
	Now        func() time.Time
}

// VisitorInput carries the editable visitor fields.
type VisitorInput struct {
	ID       string // ignored on create
	Name     string
	Nickname string
	Notes    string
}

// ExecuteCreateVisitor adds a guest player.
// PRE: Name non-empty
// POST: Visitor appended with empty attendance and payments
func ExecuteCreateVisitor(ctx context.Context, input VisitorInput, deps VisitorDeps) (visitor.Visitor, error) {
	v := visitor.New(deps.GenerateID(), input.Name, input.Nickname, input.Notes, deps.Now())
	if err := v.Validate(); err != nil {
		return visitor.Visitor{}, invalid(err)
	}
	err := deps.Store.Update(ctx, func(s *club.Snapshot) error {
		s.Visitors = append(s.Visitors, v)
		return nil
	})
	if err != nil {
		return visitor.Visitor{}, err
	}
	slog.Info("visitor_event", "event", "visitor_created", "visitor_id", v.ID)
	return v, nil
}

// ExecuteUpdateVisitor replaces a visitor's nickname and notes, and the name
// when a non-blank one is given.
// PRE: ID names an existing visitor
// POST: Visitor saved only when the result validates
func ExecuteUpdateVisitor(ctx context.Context, input VisitorInput, deps VisitorDeps) (visitor.Visitor, error) {
	var updated visitor.Visitor
	err := deps.Store.Update(ctx, func(s *club.Snapshot) error {
		i := s.FindVisitor(input.ID)
		if i < 0 {
			return ErrNotFound
		}
		v := s.Visitors[i]
		if name := strings.TrimSpace(input.Name); name != "" {
			v.Name = name
		}
		v.Nickname = strings.TrimSpace(input.Nickname)
		v.Notes = strings.TrimSpace(input.Notes)
		if err := v.Validate(); err != nil {
			return invalid(err)
		}
		s.Visitors[i] = v
		updated = v
		return nil
	})
	if err != nil {
		return visitor.Visitor{}, err
	}
	slog.Info("visitor_event", "event", "visitor_updated", "visitor_id", updated.ID)
	return updated, nil
}

// ExecuteDeleteVisitor removes a visitor.
// PRE: id names an existing visitor
func ExecuteDeleteVisitor(ctx context.Context, id string, deps VisitorDeps) error {
	err := deps.Store.Update(ctx, func(s *club.Snapshot) error {
		i := s.FindVisitor(id)
		if i < 0 {
			return ErrNotFound
		}
		s.Visitors = append(s.Visitors[:i], s.Visitors[i+1:]...)
		return nil
	})
	if err != nil {
		return err
	}
	slog.Info("visitor_event", "event", "visitor_deleted", "visitor_id", id)
	return nil
}

// RecordVisitorPaymentInput carries one session payment.
type RecordVisitorPaymentInput struct {
	VisitorID   string
	SessionDate string
	Paid        money.Amount
}

// ExecuteRecordVisitorPayment stores the amount paid for one session at the
// configured session fee.
// PRE: SessionDate is YYYY-MM-DD; Paid >= 0
// POST: payments.sessions[SessionDate] = {visitorSession fee, Paid}
func ExecuteRecordVisitorPayment(ctx context.Context, input RecordVisitorPaymentInput, deps VisitorDeps) (visitor.Visitor, error) {
	if _, err := period.ParseDateKey(input.SessionDate); err != nil {
		return visitor.Visitor{}, invalid(err)
	}
	if err := money.CheckNonNegative(input.Paid); err != nil {
		return visitor.Visitor{}, invalidf("paid amount: %w", err)
	}
	var updated visitor.Visitor
	err := deps.Store.Update(ctx, func(s *club.Snapshot) error {
		i := s.FindVisitor(input.VisitorID)
		if i < 0 {
			return ErrNotFound
		}
		v := s.Visitors[i]
		v.RecordSessionPayment(input.SessionDate, s.Settings.Fees.VisitorSession, input.Paid)
		s.Visitors[i] = v
		updated = v
		return nil
	})
	if err != nil {
		return visitor.Visitor{}, err
	}
	slog.Info("visitor_event", "event", "visitor_payment_recorded", "visitor_id", input.VisitorID, "session_date", input.SessionDate)
	return updated, nil
}

// UpdateVisitorStatsInput carries a visitor's card counters.
type UpdateVisitorStatsInput struct {
	VisitorID  string
	Yellow     int
	Red        int
	YellowPaid int
	RedPaid    int
}

// ExecuteUpdateVisitorStats replaces a visitor's cards and paid counters.
// PRE: cards and paid counters are non-negative
// INVARIANT: paid counters are capped to cards received
func ExecuteUpdateVisitorStats(ctx context.Context, input UpdateVisitorStatsInput, deps VisitorDeps) (visitor.Visitor, error) {
	if input.Yellow < 0 || input.Red < 0 || input.YellowPaid < 0 || input.RedPaid < 0 {
		return visitor.Visitor{}, invalid(visitor.ErrNegativeCard)
	}
	var updated visitor.Visitor
	err := deps.Store.Update(ctx, func(s *club.Snapshot) error {
		i := s.FindVisitor(input.VisitorID)
		if i < 0 {
			return ErrNotFound
		}
		v := s.Visitors[i]
		v.Stats = visitor.Stats{Yellow: input.Yellow, Red: input.Red}
		v.Discipline = member.Discipline{YellowPaid: input.YellowPaid, RedPaid: input.RedPaid}
		v.CapDiscipline()
		s.Visitors[i] = v
		updated = v
		return nil
	})
	if err != nil {
		return visitor.Visitor{}, err
	}
	slog.Info("visitor_event", "event", "visitor_stats_updated", "visitor_id", input.VisitorID)
	return updated, nil
}

// PromoteVisitorInput carries input for the orchestrator.
type PromoteVisitorInput struct {
	VisitorID string
	Position  string // empty defaults to FW
}

// ExecutePromoteVisitor converts a visitor into a member joining this season.
// PRE: VisitorID names an existing visitor; Position is valid
// POST: visitor removed, member appended with memberSinceYear = season;
// visitor_promoted logged
// INVARIANT: normalized name+nickname stays unique across members
func ExecutePromoteVisitor(ctx context.Context, input PromoteVisitorInput, deps VisitorDeps) (member.Member, error) {
	position := strings.ToUpper(strings.TrimSpace(input.Position))
	if position == "" {
		position = "FW"
	}
	if !member.ValidPosition(position) {
		return member.Member{}, invalid(member.ErrInvalidPosition)
	}

	now := deps.Now()
	var promoted member.Member
	err := deps.Store.Update(ctx, func(s *club.Snapshot) error {
		i := s.FindVisitor(input.VisitorID)
		if i < 0 {
			return ErrNotFound
		}
		v := s.Visitors[i]
		season := s.Settings.Season
		if season == 0 {
			season = now.Year()
		}
		m := v.Promote(deps.GenerateID(), position, season, now)
		if err := m.Validate(); err != nil {
			return invalid(err)
		}
		if s.HasIdentity(m.IdentityKey(), "") {
			return ErrConflict
		}
		s.Players = append(s.Players, m)
		s.Visitors = append(s.Visitors[:i], s.Visitors[i+1:]...)
		s.Log(activity.New(deps.GenerateID(), fmt.Sprintf("Visitor promoted to member: %s", v.DisplayName()), activity.TypeVisitorPromoted, now))
		promoted = m
		return nil
	})
	if err != nil {
		return member.Member{}, err
	}
	slog.Info("visitor_event", "event", "visitor_promoted", "visitor_id", input.VisitorID, "member_id", promoted.ID)
	return promoted, nil
}
