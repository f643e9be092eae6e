package orchestrators

import (
	"context"
	"testing"

	"clubhouse/internal/domain/activity"
	"clubhouse/internal/domain/money"
	"clubhouse/internal/domain/obligation"
)

func TestExecuteRecordPayment_ResolvesExpected(t *testing.T) {
	store, _ := newTestStore(t, ana())
	res, err := ExecuteRecordPayment(context.Background(), RecordPaymentInput{
		MemberID: "m1",
		YearKey:  "2026",
		MonthKey: "2026-03",
		Yearly:   &PaymentAmounts{Paid: money.New(4000)},
		Monthly:  &PaymentAmounts{Paid: money.New(3000)},
	}, RecordPaymentDeps{Store: store, GenerateID: idSeq(), Now: now})
	if err != nil {
		t.Fatalf("ExecuteRecordPayment() error = %v", err)
	}

	entry := res.Member.Payments.Monthly["2026-03"]
	if !entry.Expected.Equal(money.New(3000)) {
		t.Errorf("monthly expected = %v, want schedule fee 3000", entry.Expected)
	}
	yearly := res.Member.Payments.Yearly["2026"]
	if !yearly.Expected.Equal(money.New(10000)) {
		t.Errorf("yearly expected = %v, want new member fee 10000", yearly.Expected)
	}
	if res.Summary.Monthly.Status != obligation.StatusPaid {
		t.Errorf("monthly status = %s, want PAID", res.Summary.Monthly.Status)
	}
	if res.Summary.Yearly.Status != obligation.StatusIncomplete || !res.Summary.Yearly.Remaining.Equal(money.New(6000)) {
		t.Errorf("yearly = %+v, want INCOMPLETE with 6000 remaining", res.Summary.Yearly)
	}

	snap := snapshot(t, store)
	types := map[string]int{}
	for _, e := range snap.Activity {
		types[e.Type]++
	}
	if types[activity.TypeMonthlyCleared] != 1 || types[activity.TypeYearlyUpdated] != 1 {
		t.Errorf("activity types = %v, want one monthly_cleared and one yearly_updated", types)
	}
}

func TestExecuteRecordPayment_ClearedOnlyOnTransition(t *testing.T) {
	store, _ := newTestStore(t, ana())
	deps := RecordPaymentDeps{Store: store, GenerateID: idSeq(), Now: now}
	in := RecordPaymentInput{MemberID: "m1", MonthKey: "2026-02", Monthly: &PaymentAmounts{Paid: money.New(3000)}}

	for i := 0; i < 2; i++ {
		if _, err := ExecuteRecordPayment(context.Background(), in, deps); err != nil {
			t.Fatalf("ExecuteRecordPayment() error = %v", err)
		}
	}
	if n := len(snapshot(t, store).Activity); n != 1 {
		t.Errorf("activity entries = %d, want 1 (unchanged repeat is not logged)", n)
	}
}

func TestExecuteRecordPayment_ExplicitExpected(t *testing.T) {
	store, _ := newTestStore(t, bruno())
	res, err := ExecuteRecordPayment(context.Background(), RecordPaymentInput{
		MemberID: "m2",
		YearKey:  "2026",
		Yearly:   &PaymentAmounts{Expected: amount(5000), Paid: money.New(0)},
	}, RecordPaymentDeps{Store: store, GenerateID: idSeq(), Now: now})
	if err != nil {
		t.Fatalf("ExecuteRecordPayment() error = %v", err)
	}
	if got := res.Member.Payments.Yearly["2026"].Expected; !got.Equal(money.New(5000)) {
		t.Errorf("cached expected = %s, want 5000", got)
	}
	if got := res.Summary.Yearly; got.Status != obligation.StatusPending || !got.Remaining.Equal(money.New(8000)) {
		t.Errorf("yearly = %+v, want PENDING against the 8000 renewal fee", got)
	}
}

func TestExecuteRecordPayment_ClearedAgainstResolvedFee(t *testing.T) {
	store, _ := newTestStore(t, ana())
	_, err := ExecuteRecordPayment(context.Background(), RecordPaymentInput{
		MemberID: "m1",
		MonthKey: "2026-03",
		Monthly:  &PaymentAmounts{Expected: amount(1000), Paid: money.New(1000)},
	}, RecordPaymentDeps{Store: store, GenerateID: idSeq(), Now: now})
	if err != nil {
		t.Fatalf("ExecuteRecordPayment() error = %v", err)
	}
	for _, e := range snapshot(t, store).Activity {
		if e.Type == activity.TypeMonthlyCleared {
			t.Errorf("logged %s although 1000 of the 3000 fee is paid", e.Type)
		}
	}
}

func TestExecuteRecordPayment_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input RecordPaymentInput
	}{
		{"no cycles", RecordPaymentInput{MemberID: "m1"}},
		{"bad month", RecordPaymentInput{MemberID: "m1", MonthKey: "2026-13", Monthly: &PaymentAmounts{}}},
		{"bad year", RecordPaymentInput{MemberID: "m1", YearKey: "26", Yearly: &PaymentAmounts{}}},
		{"negative paid", RecordPaymentInput{MemberID: "m1", MonthKey: "2026-01", Monthly: &PaymentAmounts{Paid: money.New(-1)}}},
		{"negative expected", RecordPaymentInput{MemberID: "m1", YearKey: "2026", Yearly: &PaymentAmounts{Expected: amount(-5)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _ := newTestStore(t, ana())
			_, err := ExecuteRecordPayment(context.Background(), tt.input,
				RecordPaymentDeps{Store: store, GenerateID: idSeq(), Now: now})
			wantValidation(t, err)
		})
	}
}

func TestExecuteRecordPayment_NotFound(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := ExecuteRecordPayment(context.Background(), RecordPaymentInput{
		MemberID: "ghost", MonthKey: "2026-01", Monthly: &PaymentAmounts{},
	}, RecordPaymentDeps{Store: store, GenerateID: idSeq(), Now: now})
	wantErr(t, err, ErrNotFound)
}
