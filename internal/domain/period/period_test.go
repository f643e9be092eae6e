package period_test

import (
	"reflect"
	"testing"

	"clubhouse/internal/domain/period"
)

func TestParseKeys(t *testing.T) {
	tests := []struct {
		name    string
		parse   func(string) error
		key     string
		wantErr bool
	}{
		{"year ok", func(k string) error { _, err := period.ParseYearKey(k); return err }, "2026", false},
		{"year short", func(k string) error { _, err := period.ParseYearKey(k); return err }, "26", true},
		{"year alpha", func(k string) error { _, err := period.ParseYearKey(k); return err }, "20a6", true},
		{"month ok", func(k string) error { _, err := period.ParseMonthKey(k); return err }, "2026-02", false},
		{"month 13", func(k string) error { _, err := period.ParseMonthKey(k); return err }, "2026-13", true},
		{"month no pad", func(k string) error { _, err := period.ParseMonthKey(k); return err }, "2026-2", true},
		{"date ok", func(k string) error { _, err := period.ParseDateKey(k); return err }, "2026-02-28", false},
		{"date feb 30", func(k string) error { _, err := period.ParseDateKey(k); return err }, "2026-02-30", true},
		{"date garbage", func(k string) error { _, err := period.ParseDateKey(k); return err }, "yesterday", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.parse(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("parse(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
		})
	}
}

// TestSessionDates checks the first session snaps forward to a Saturday.
func TestSessionDates(t *testing.T) {
	// 2026-01-01 is a Thursday.
	got := period.SessionDates("2026-01-01", "2026-01-24")
	want := []string{"2026-01-03", "2026-01-10", "2026-01-17", "2026-01-24"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SessionDates() = %v, want %v", got, want)
	}
	if got := period.SessionDates("2026-01-05", "2026-01-09"); len(got) != 0 {
		t.Errorf("SessionDates() before first Saturday = %v, want empty", got)
	}
	if got := period.SessionDates("bad", "2026-01-09"); got != nil {
		t.Errorf("SessionDates(bad) = %v, want nil", got)
	}
}

func TestIsSaturday(t *testing.T) {
	if !period.IsSaturday("2026-01-03") {
		t.Error("2026-01-03 should be a Saturday")
	}
	if period.IsSaturday("2026-01-04") {
		t.Error("2026-01-04 should not be a Saturday")
	}
}
