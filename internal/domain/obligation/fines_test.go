package obligation_test

import (
	"testing"

	"pgregory.net/rapid"

	"clubhouse/internal/domain/money"
	"clubhouse/internal/domain/obligation"
)

func TestFines(t *testing.T) {
	rates := obligation.Rates{Yellow: money.New(500), Red: money.New(1000)}
	tests := []struct {
		name      string
		cards     obligation.Cards
		wantOwed  int64
		wantLabel string
	}{
		{"no cards", obligation.Cards{}, 0, obligation.LabelNoCards},
		{"unpaid", obligation.Cards{Yellow: 2, Red: 1}, 2000, obligation.LabelPending},
		{"partly paid", obligation.Cards{Yellow: 2, Red: 1, YellowPaid: 1}, 1500, obligation.LabelIncomplete},
		{"cleared", obligation.Cards{Yellow: 2, Red: 1, YellowPaid: 2, RedPaid: 1}, 0, obligation.LabelCleared},
		{"overpaid counters", obligation.Cards{Yellow: 1, YellowPaid: 3}, 0, obligation.LabelCleared},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := obligation.Fines(tt.cards, rates)
			if !got.FineOwed.Equal(money.New(tt.wantOwed)) {
				t.Errorf("FineOwed = %s, want %d", got.FineOwed, tt.wantOwed)
			}
			if got.Label != tt.wantLabel {
				t.Errorf("Label = %q, want %q", got.Label, tt.wantLabel)
			}
		})
	}
}

func TestCapPaid(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		paid := rapid.IntRange(-10, 100).Draw(t, "paid")
		count := rapid.IntRange(0, 50).Draw(t, "count")
		got := obligation.CapPaid(paid, count)
		if got < 0 || got > count {
			t.Fatalf("CapPaid(%d, %d) = %d", paid, count, got)
		}
	})
}
