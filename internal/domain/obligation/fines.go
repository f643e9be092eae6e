package obligation

import (
	"clubhouse/internal/domain/money"
)

// Cards counts cards received and cards already paid for.
type Cards struct {
	Yellow     int
	Red        int
	YellowPaid int
	RedPaid    int
}

// Rates are the per-card fine amounts.
type Rates struct {
	Yellow money.Amount
	Red    money.Amount
}

// FineSummary is the fine position for one member or visitor.
type FineSummary struct {
	OwedYellow int          `json:"owedYellow"`
	OwedRed    int          `json:"owedRed"`
	FineOwed   money.Amount `json:"fineOwed"`
	PaidCount  int          `json:"paidCount"`
	Label      string       `json:"status"`
}

// Fines computes owed cards and the fine balance.
// PRE: counts are non-negative
// POST: owed counts are >= 0; Label is No cards, Cleared, Pending or Incomplete
func Fines(c Cards, r Rates) FineSummary {
	owedY := max(0, c.Yellow-c.YellowPaid)
	owedR := max(0, c.Red-c.RedPaid)
	owed := r.Yellow.Mul(money.New(int64(owedY))).Add(r.Red.Mul(money.New(int64(owedR))))
	paid := max(0, c.YellowPaid) + max(0, c.RedPaid)

	fs := FineSummary{OwedYellow: owedY, OwedRed: owedR, FineOwed: owed, PaidCount: paid}
	switch {
	case c.Yellow+c.Red == 0:
		fs.Label = LabelNoCards
	case !owed.IsPositive():
		fs.Label = LabelCleared
	case paid == 0:
		fs.Label = LabelPending
	default:
		fs.Label = LabelIncomplete
	}
	return fs
}

// CapPaid clamps a paid counter into [0, count].
func CapPaid(paid, count int) int {
	return min(max(0, paid), max(0, count))
}
