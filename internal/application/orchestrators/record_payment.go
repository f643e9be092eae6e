package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"clubhouse/internal/domain/activity"
	"clubhouse/internal/domain/club"
	"clubhouse/internal/domain/member"
	"clubhouse/internal/domain/money"
	"clubhouse/internal/domain/obligation"
	"clubhouse/internal/domain/period"
)

// PaymentAmounts is one cycle's update. Expected is cached on the entry for
// display; nil caches the fee resolved from settings.
type PaymentAmounts struct {
	Expected *money.Amount
	Paid     money.Amount
}

// RecordPaymentInput carries input for the orchestrator. Either cycle may be omitted.
type RecordPaymentInput struct {
	MemberID string
	YearKey  string
	MonthKey string
	Yearly   *PaymentAmounts
	Monthly  *PaymentAmounts
}

// RecordPaymentDeps holds dependencies for RecordPayment.
type RecordPaymentDeps struct {
	Store      ClubStore
	GenerateID func() string
	Now        func() time.Time
}

// RecordPaymentResult is the member after the write and the resulting obligations.
type RecordPaymentResult struct {
	Member  member.Member
	Summary member.PaymentSummary
}

// ExecuteRecordPayment stores monthly and/or yearly payment entries for a member.
// PRE: keys are well formed for each supplied cycle; amounts are non-negative
// POST: entries cache the supplied or resolved expected amount
// POST: a cycle entering PAID against the resolved fee logs *_cleared; any
// other change logs *_updated
func ExecuteRecordPayment(ctx context.Context, input RecordPaymentInput, deps RecordPaymentDeps) (RecordPaymentResult, error) {
	if input.MemberID == "" {
		return RecordPaymentResult{}, invalidf("member ID is required")
	}
	if input.Yearly == nil && input.Monthly == nil {
		return RecordPaymentResult{}, invalidf("a yearly or monthly payment is required")
	}
	if input.Yearly != nil {
		if _, err := period.ParseYearKey(input.YearKey); err != nil {
			return RecordPaymentResult{}, invalid(err)
		}
		if err := checkAmounts(*input.Yearly); err != nil {
			return RecordPaymentResult{}, err
		}
	}
	if input.Monthly != nil {
		if _, err := period.ParseMonthKey(input.MonthKey); err != nil {
			return RecordPaymentResult{}, invalid(err)
		}
		if err := checkAmounts(*input.Monthly); err != nil {
			return RecordPaymentResult{}, err
		}
	}

	now := deps.Now()
	var result RecordPaymentResult
	err := deps.Store.Update(ctx, func(s *club.Snapshot) error {
		i := s.FindPlayer(input.MemberID)
		if i < 0 {
			return ErrNotFound
		}
		m := s.Players[i]
		m.EnsureMaps()
		name := displayName(m.Name, m.Nickname)

		if in := input.Yearly; in != nil {
			expected := member.ExpectedYearly(s.Settings, m, input.YearKey, now)
			changed, cleared := applyEntry(m.Payments.Yearly, input.YearKey, expected, *in)
			if cleared {
				s.Log(activity.New(deps.GenerateID(), fmt.Sprintf("Yearly fee cleared: %s (%s)", name, input.YearKey), activity.TypeYearlyCleared, now))
			} else if changed {
				s.Log(activity.New(deps.GenerateID(), fmt.Sprintf("Yearly payment updated: %s (%s)", name, input.YearKey), activity.TypeYearlyUpdated, now))
			}
		}
		if in := input.Monthly; in != nil {
			expected := member.ExpectedMonthly(s.Settings, input.MonthKey)
			changed, cleared := applyEntry(m.Payments.Monthly, input.MonthKey, expected, *in)
			if cleared {
				s.Log(activity.New(deps.GenerateID(), fmt.Sprintf("Monthly fee cleared: %s (%s)", name, input.MonthKey), activity.TypeMonthlyCleared, now))
			} else if changed {
				s.Log(activity.New(deps.GenerateID(), fmt.Sprintf("Monthly payment updated: %s (%s)", name, input.MonthKey), activity.TypeMonthlyUpdated, now))
			}
		}

		s.Players[i] = m
		yearKey, monthKey := input.YearKey, input.MonthKey
		if yearKey == "" {
			yearKey = period.YearKeyOf(now)
		}
		if monthKey == "" {
			monthKey = period.MonthKeyOf(now)
		}
		result = RecordPaymentResult{Member: m, Summary: member.Summarize(s.Settings, m, yearKey, monthKey, now)}
		return nil
	})
	if err != nil {
		return RecordPaymentResult{}, err
	}

	slog.Info("payment_event", "event", "payment_recorded", "member_id", input.MemberID,
		"year_key", input.YearKey, "month_key", input.MonthKey)
	return result, nil
}

func checkAmounts(in PaymentAmounts) error {
	if err := money.CheckNonNegative(in.Paid); err != nil {
		return invalidf("paid amount: %w", err)
	}
	if in.Expected != nil {
		if err := money.CheckNonNegative(*in.Expected); err != nil {
			return invalidf("expected amount: %w", err)
		}
	}
	return nil
}

// applyEntry writes the entry for key and reports whether it changed and
// whether the cycle moved into PAID.
func applyEntry(entries map[string]member.Entry, key string, resolved money.Amount, in PaymentAmounts) (changed, cleared bool) {
	prev, had := entries[key]
	before := obligation.StatusFromPaid(resolved, prev.Paid).Status

	expected := resolved
	if in.Expected != nil {
		expected = *in.Expected
	}
	next := member.Entry{Expected: expected, Paid: in.Paid}
	entries[key] = next

	after := obligation.StatusFromPaid(resolved, next.Paid).Status
	changed = !had || !prev.Expected.Equal(next.Expected) || !prev.Paid.Equal(next.Paid)
	cleared = after == obligation.StatusPaid && before != obligation.StatusPaid
	return changed, cleared
}
