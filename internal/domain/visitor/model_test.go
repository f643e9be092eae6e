package visitor_test

import (
	"testing"
	"time"

	"clubhouse/internal/domain/money"
	"clubhouse/internal/domain/visitor"
)

var now = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func TestVisitorValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(v *visitor.Visitor)
		wantErr error
	}{
		{"valid", func(v *visitor.Visitor) {}, nil},
		{"blank name", func(v *visitor.Visitor) { v.Name = "" }, visitor.ErrNameRequired},
		{"negative card", func(v *visitor.Visitor) { v.Stats.Red = -1 }, visitor.ErrNegativeCard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := visitor.New("v1", "Rui", "", "", now)
			tt.mutate(&v)
			if err := v.Validate(); err != tt.wantErr {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestPromote copies identity and starts a clean member record.
func TestPromote(t *testing.T) {
	v := visitor.New("v1", "Rui", "Ruizinho", "", now)
	v.Attendance["2026-03-07"] = true
	v.RecordSessionPayment("2026-03-07", money.New(1000), money.New(1000))

	m := v.Promote("m9", "CB", 2026, now)
	if m.ID != "m9" || m.Name != "Rui" || m.Nickname != "Ruizinho" || m.Position != "CB" {
		t.Errorf("Promote() identity = %+v", m)
	}
	if m.Membership.MemberSinceYear == nil || *m.Membership.MemberSinceYear != 2026 {
		t.Errorf("MemberSinceYear = %v, want 2026", m.Membership.MemberSinceYear)
	}
	if len(m.Attendance) != 0 || len(m.Payments.Monthly) != 0 || len(m.Payments.Yearly) != 0 {
		t.Error("promoted member should start with empty history")
	}
	if v.DisplayName() != "Rui (Ruizinho)" {
		t.Errorf("DisplayName() = %q", v.DisplayName())
	}
}

func TestVisitorCapDiscipline(t *testing.T) {
	v := visitor.New("v1", "Rui", "", "", now)
	v.Stats = visitor.Stats{Yellow: 1}
	v.Discipline.YellowPaid = 4
	v.Discipline.RedPaid = 2
	v.CapDiscipline()
	if v.Discipline.YellowPaid != 1 || v.Discipline.RedPaid != 0 {
		t.Errorf("CapDiscipline() = %+v, want {1 0}", v.Discipline)
	}
}
