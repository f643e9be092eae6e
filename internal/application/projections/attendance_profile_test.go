package projections

import (
	"context"
	"errors"
	"testing"

	"clubhouse/internal/domain/money"
	"clubhouse/internal/domain/visitor"
)

func TestQueryGetAttendanceSummary(t *testing.T) {
	regular := player("m1", "Ana", "", 2026)
	for _, d := range []string{"2026-02-21", "2026-02-28", "2026-03-07", "2026-03-14"} {
		regular.Attendance[d] = true
	}
	lapsed := player("m2", "Bruno", "", 2026)
	lapsed.Attendance["2026-01-10"] = true
	lapsed.Attendance["2026-03-14"] = false

	got, err := QueryGetAttendanceSummary(context.Background(), GetAttendanceSummaryQuery{Range: 4},
		GetAttendanceSummaryDeps{Store: newStore(regular, lapsed), Today: today})
	if err != nil {
		t.Fatalf("QueryGetAttendanceSummary() error = %v", err)
	}
	if len(got.Sessions) != 10 || got.Sessions[0] != "2026-01-10" || got.Sessions[9] != "2026-03-14" {
		t.Errorf("Sessions = %v, want 10 Saturdays from 2026-01-10", got.Sessions)
	}
	if len(got.Window) != 4 || got.Window[0] != "2026-02-21" {
		t.Errorf("Window = %v", got.Window)
	}
	a, b := got.Rows[0], got.Rows[1]
	if a.Present != 4 || a.Percent != 100 || a.Streak != 4 {
		t.Errorf("regular = %+v, want 4/4 100%% streak 4", a)
	}
	if b.Present != 0 || b.Percent != 0 || b.Streak != 0 {
		t.Errorf("lapsed = %+v, want zero", b)
	}
	if got.TopStreaks[0].ID != "m1" || got.TopPercent[0].Value != 100 {
		t.Errorf("leaderboards = %+v %+v", got.TopPercent, got.TopStreaks)
	}
}

func TestQueryGetAttendanceSummary_FutureUnlocked(t *testing.T) {
	m := player("m1", "Ana", "", 2026)
	m.Attendance["2026-03-28"] = true
	store := newStore(m)
	unlocked := false
	store.snap.Settings.Attendance.LockFuture = &unlocked

	got, err := QueryGetAttendanceSummary(context.Background(), GetAttendanceSummaryQuery{},
		GetAttendanceSummaryDeps{Store: store, Today: today})
	if err != nil {
		t.Fatalf("QueryGetAttendanceSummary() error = %v", err)
	}
	if last := got.Sessions[len(got.Sessions)-1]; last != "2026-03-28" {
		t.Errorf("last session = %s, want the later recorded date", last)
	}
	if len(got.Window) != DefaultSummaryRange {
		t.Errorf("Window = %d sessions, want default %d", len(got.Window), DefaultSummaryRange)
	}
	if got.Rows[0].Streak != 1 {
		t.Errorf("Streak = %d, want 1", got.Rows[0].Streak)
	}

	_, err = QueryGetAttendanceSummary(context.Background(), GetAttendanceSummaryQuery{Range: -1},
		GetAttendanceSummaryDeps{Store: store, Today: today})
	if !errors.Is(err, ErrInvalidQuery) {
		t.Errorf("error = %v, want ErrInvalidQuery", err)
	}
}

func TestQueryGetMemberProfile(t *testing.T) {
	m := player("m1", "Ana", "Ani", 2026)
	m.Attendance["2026-03-07"] = true
	m.Attendance["2026-03-14"] = true
	m.Attendance["2026-02-21"] = true
	m.Stats.Red = 1
	store := newStore(m)

	got, err := QueryGetMemberProfile(context.Background(), GetMemberProfileQuery{MemberID: "m1"},
		GetMemberProfileDeps{Store: store, Now: now, Today: today})
	if err != nil {
		t.Fatalf("QueryGetMemberProfile() error = %v", err)
	}
	if len(got.Recent) != 6 || got.Recent[5].Date != "2026-03-14" || !got.Recent[5].Present {
		t.Errorf("Recent = %+v", got.Recent)
	}
	if got.Streak != 2 {
		t.Errorf("Streak = %d, want 2", got.Streak)
	}
	if got.MemberSinceYear != 2026 || !got.Payments.Yearly.Expected.Equal(money.New(10000)) {
		t.Errorf("since = %d yearly = %+v", got.MemberSinceYear, got.Payments.Yearly)
	}
	if !got.Fines.FineOwed.Equal(money.New(1000)) || got.Fines.Label != "Pending" {
		t.Errorf("Fines = %+v, want 1000 Pending", got.Fines)
	}

	_, err = QueryGetMemberProfile(context.Background(), GetMemberProfileQuery{MemberID: "ghost"},
		GetMemberProfileDeps{Store: store, Now: now, Today: today})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestQueryGetVisitorObligations(t *testing.T) {
	store := newStore()
	paid := visitor.New("v1", "Carla", "", "", clock)
	paid.RecordSessionPayment("2026-03-14", money.New(1000), money.New(1000))
	owing := visitor.New("v2", "Dan", "", "", clock)
	owing.Stats.Yellow = 1
	owing.RecordSessionPayment("2026-03-14", money.New(1000), money.New(400))
	store.snap.Visitors = []visitor.Visitor{paid, owing}

	got, err := QueryGetVisitorObligations(context.Background(), GetVisitorObligationsQuery{},
		GetVisitorObligationsDeps{Store: store, Today: today})
	if err != nil {
		t.Fatalf("QueryGetVisitorObligations() error = %v", err)
	}
	if got.SessionDate != "2026-03-14" {
		t.Errorf("SessionDate = %s, want latest session", got.SessionDate)
	}
	if got.Rows[0].ID != "v2" || !got.Rows[0].TotalOwed.Equal(money.New(1100)) || got.Rows[0].Status != "Incomplete" {
		t.Errorf("first row = %+v, want v2 owing 1100", got.Rows[0])
	}
	if got.Rows[1].Status != "Cleared" {
		t.Errorf("second row = %+v, want Cleared", got.Rows[1])
	}

	earlier, err := QueryGetVisitorObligations(context.Background(), GetVisitorObligationsQuery{SessionDate: "2026-03-07"},
		GetVisitorObligationsDeps{Store: store, Today: today})
	if err != nil {
		t.Fatalf("QueryGetVisitorObligations() error = %v", err)
	}
	for _, r := range earlier.Rows {
		if !r.Session.Remaining.Equal(money.New(1000)) {
			t.Errorf("%s session = %+v, want unpaid default fee", r.ID, r.Session)
		}
	}

	_, err = QueryGetVisitorObligations(context.Background(), GetVisitorObligationsQuery{SessionDate: "14/03/2026"},
		GetVisitorObligationsDeps{Store: store, Today: today})
	if !errors.Is(err, ErrInvalidQuery) {
		t.Errorf("error = %v, want ErrInvalidQuery", err)
	}
}
