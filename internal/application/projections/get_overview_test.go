package projections

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"clubhouse/internal/domain/member"
	"clubhouse/internal/domain/money"
	"clubhouse/internal/domain/obligation"
	"clubhouse/internal/domain/settings"
)

func overviewPlayers() []member.Member {
	paid := player("m1", "Ana", "", 2026)
	paid.Payments.Monthly["2026-03"] = member.Entry{Expected: money.New(3000), Paid: money.New(3000)}
	paid.Payments.Yearly["2026"] = member.Entry{Paid: money.New(4000)}

	pending := player("m2", "Bruno", "B", 2024)
	pending.CreatedAt = ""

	partial := player("m3", "Carla", "", 2025)
	partial.Payments.Monthly["2026-03"] = member.Entry{Paid: money.New(1000)}
	partial.Payments.Yearly["2026"] = member.Entry{Paid: money.New(8000)}
	return []member.Member{paid, pending, partial}
}

func TestQueryGetOverview(t *testing.T) {
	store := newStore(overviewPlayers()...)
	got, err := QueryGetOverview(context.Background(), GetOverviewQuery{}, GetOverviewDeps{Store: store, Now: now, Today: today})
	if err != nil {
		t.Fatalf("QueryGetOverview() error = %v", err)
	}
	if got.YearKey != "2026" || got.MonthKey != "2026-03" {
		t.Errorf("keys = %s %s, want 2026 2026-03", got.YearKey, got.MonthKey)
	}
	want := OverviewCounts{
		TotalMembers: 3,
		YearlyPaid:   1, YearlyPending: 1, YearlyIncomplete: 1,
		MonthlyPaid: 1, MonthlyPending: 1, MonthlyIncomplete: 1,
	}
	if got.Counts != want {
		t.Errorf("Counts = %+v, want %+v", got.Counts, want)
	}
	if s := got.Players[0].Yearly; s.Status != obligation.StatusIncomplete || !s.Remaining.Equal(money.New(6000)) {
		t.Errorf("new member yearly = %+v, want INCOMPLETE 6000", s)
	}
	if s := got.Players[2].Yearly; s.Status != obligation.StatusPaid {
		t.Errorf("renewal yearly = %+v, want PAID", s)
	}
	if got.Players[1].CreatedAt != epochCreatedAt {
		t.Errorf("CreatedAt = %q, want epoch fallback", got.Players[1].CreatedAt)
	}
	if store.snap.Players[1].CreatedAt != "" {
		t.Error("overview must not backfill the stored record")
	}
}

func TestQueryGetOverview_ExplicitKeys(t *testing.T) {
	store := newStore(overviewPlayers()...)
	got, err := QueryGetOverview(context.Background(), GetOverviewQuery{YearKey: "2025", MonthKey: "2026-01"}, GetOverviewDeps{Store: store, Now: now, Today: today})
	if err != nil {
		t.Fatalf("QueryGetOverview() error = %v", err)
	}
	if m := got.Players[1].Monthly; !m.Expected.Equal(money.New(2000)) || m.Status != obligation.StatusPending {
		t.Errorf("January monthly = %+v, want PENDING 2000", m)
	}
}

func TestQueryGetOverview_RejectsMalformedKeys(t *testing.T) {
	tests := []GetOverviewQuery{
		{YearKey: "26"},
		{YearKey: "2026", MonthKey: "2026-3"},
		{MonthKey: "2026-13"},
	}
	for _, q := range tests {
		_, err := QueryGetOverview(context.Background(), q, GetOverviewDeps{Store: newStore(), Now: now, Today: today})
		if !errors.Is(err, ErrInvalidQuery) {
			t.Errorf("QueryGetOverview(%+v) error = %v, want ErrInvalidQuery", q, err)
		}
	}
}

func TestBuildOverview_IsPure(t *testing.T) {
	players := overviewPlayers()
	before, _ := json.Marshal(players)
	s := testSettings()
	first := BuildOverview(players, s, "2026", "2026-03", clock)
	second := BuildOverview(players, s, "2026", "2026-03", clock)
	after, _ := json.Marshal(players)
	if string(before) != string(after) {
		t.Error("BuildOverview modified its input")
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("BuildOverview is not idempotent")
	}
}

// TestBuildOverview_IgnoresCachedExpected resolves expected amounts from the
// fee settings even when an entry caches a different amount.
func TestBuildOverview_IgnoresCachedExpected(t *testing.T) {
	s := settings.Default(2026)
	s.Fees.MonthlySchedule = []settings.ScheduleEntry{{From: "2026-01", Amount: money.New(3000)}}
	s.Fees.NewMemberYearly = money.New(5000)

	m := player("m1", "Ana", "", 2026)
	m.Payments.Monthly["2026-03"] = member.Entry{Expected: money.New(2000), Paid: money.New(2000)}
	m.Payments.Yearly["2026"] = member.Entry{Expected: money.New(1000), Paid: money.New(1000)}
	zeroCached := player("m2", "Bruno", "", 2026)
	zeroCached.Payments.Monthly["2026-03"] = member.Entry{Expected: money.Zero, Paid: money.New(3000)}

	got := BuildOverview([]member.Member{m, zeroCached}, s, "2026", "2026-03", clock)

	monthly := got.Players[0].Monthly
	if !monthly.Expected.Equal(money.New(3000)) || !monthly.Remaining.Equal(money.New(1000)) || monthly.Status != obligation.StatusIncomplete {
		t.Errorf("monthly = %+v, want expected 3000 INCOMPLETE remaining 1000", monthly)
	}
	yearly := got.Players[0].Yearly
	if !yearly.Expected.Equal(money.New(5000)) || !yearly.Remaining.Equal(money.New(4000)) || yearly.Status != obligation.StatusIncomplete {
		t.Errorf("yearly = %+v, want expected 5000 INCOMPLETE remaining 4000", yearly)
	}
	if row := got.Players[1].Monthly; !row.Expected.Equal(money.New(3000)) || row.Status != obligation.StatusPaid {
		t.Errorf("zero cached monthly = %+v, want expected 3000 PAID", row)
	}
	want := OverviewCounts{
		TotalMembers: 2,
		YearlyPending: 1, YearlyIncomplete: 1,
		MonthlyPaid: 1, MonthlyIncomplete: 1,
	}
	if got.Counts != want {
		t.Errorf("Counts = %+v, want %+v", got.Counts, want)
	}
}
