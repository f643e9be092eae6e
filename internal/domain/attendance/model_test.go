package attendance_test

import (
	"reflect"
	"testing"

	"clubhouse/internal/domain/attendance"
)

var sessions = []string{"2026-01-03", "2026-01-10", "2026-01-17", "2026-01-24"}

// TestComputeStreak scans backward from the latest session.
func TestComputeStreak(t *testing.T) {
	tests := []struct {
		name   string
		record attendance.Record
		want   int
	}{
		{"empty", attendance.Record{}, 0},
		{"all present", attendance.Record{"2026-01-03": true, "2026-01-10": true, "2026-01-17": true, "2026-01-24": true}, 4},
		{"latest missing", attendance.Record{"2026-01-03": true, "2026-01-10": true, "2026-01-17": true}, 0},
		{"latest false", attendance.Record{"2026-01-17": true, "2026-01-24": false}, 0},
		{"broken run", attendance.Record{"2026-01-03": true, "2026-01-10": false, "2026-01-17": true, "2026-01-24": true}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := attendance.ComputeStreak(tt.record, sessions); got != tt.want {
				t.Errorf("ComputeStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSessionBound(t *testing.T) {
	if got := attendance.SessionBound("2026-01-10", "2026-01-24", true); got != "2026-01-10" {
		t.Errorf("locked bound = %s, want today", got)
	}
	if got := attendance.SessionBound("2026-01-10", "2026-01-24", false); got != "2026-01-24" {
		t.Errorf("unlocked bound = %s, want latest recorded", got)
	}
	if got := attendance.SessionBound("2026-01-10", "", false); got != "2026-01-10" {
		t.Errorf("no records bound = %s, want today", got)
	}
}

func TestSessionsUnlockedIncludesRecordedFuture(t *testing.T) {
	got := attendance.Sessions("2026-01-01", "2026-01-05", "2026-01-17", false)
	want := []string{"2026-01-03", "2026-01-10", "2026-01-17"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Sessions() = %v, want %v", got, want)
	}
}

func TestCheckEditable(t *testing.T) {
	if err := attendance.CheckEditable("2026-01-17", "2026-01-10", true); err != attendance.ErrFutureLocked {
		t.Errorf("future locked error = %v", err)
	}
	if err := attendance.CheckEditable("2026-01-10", "2026-01-10", true); err != nil {
		t.Errorf("today should be editable: %v", err)
	}
	if err := attendance.CheckEditable("2026-01-17", "2026-01-10", false); err != nil {
		t.Errorf("unlocked future should be editable: %v", err)
	}
}

func TestPercentAndLast(t *testing.T) {
	if got := attendance.Percent(2, 3); got != 67 {
		t.Errorf("Percent(2,3) = %d, want 67", got)
	}
	if got := attendance.Percent(0, 0); got != 0 {
		t.Errorf("Percent(0,0) = %d, want 0", got)
	}
	if got := attendance.Last(sessions, 2); !reflect.DeepEqual(got, sessions[2:]) {
		t.Errorf("Last(2) = %v", got)
	}
	if got := attendance.LatestRecorded(attendance.Record{"2026-01-03": true}, attendance.Record{"2026-02-07": false}); got != "2026-02-07" {
		t.Errorf("LatestRecorded() = %s", got)
	}
}
