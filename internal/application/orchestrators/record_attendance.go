package orchestrators

import (
	"context"
	"log/slog"

	"clubhouse/internal/domain/attendance"
	"clubhouse/internal/domain/club"
	"clubhouse/internal/domain/period"
)

// AttendanceUpdate marks one person present or absent.
type AttendanceUpdate struct {
	ID      string
	Present bool
}

// RecordAttendanceInput is a batch of updates for one session date.
type RecordAttendanceInput struct {
	Date    string
	Updates []AttendanceUpdate
}

// RecordAttendanceDeps holds dependencies for attendance commands.
type RecordAttendanceDeps struct {
	Store ClubStore
	Today func() string // date key of the current day in the club's zone
}

// ExecuteRecordAttendance applies a batch of member attendance marks.
// PRE: Date is YYYY-MM-DD; Updates is non-nil
// POST: every listed member has attendance[Date] set, or nothing is written
// INVARIANT: future sessions are rejected while lockFuture is on
func ExecuteRecordAttendance(ctx context.Context, input RecordAttendanceInput, deps RecordAttendanceDeps) error {
	if err := checkAttendanceInput(input); err != nil {
		return err
	}
	err := deps.Store.Update(ctx, func(s *club.Snapshot) error {
		if err := attendance.CheckEditable(input.Date, deps.Today(), s.Settings.LockFuture()); err != nil {
			return invalid(err)
		}
		idx := make([]int, len(input.Updates))
		for n, u := range input.Updates {
			if idx[n] = s.FindPlayer(u.ID); idx[n] < 0 {
				return ErrNotFound
			}
		}
		for n, u := range input.Updates {
			m := &s.Players[idx[n]]
			m.EnsureMaps()
			m.Attendance[input.Date] = u.Present
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("attendance_event", "event", "attendance_recorded", "date", input.Date, "count", len(input.Updates))
	return nil
}

// ExecuteRecordVisitorAttendance applies a batch of visitor attendance marks.
// PRE: Date is a Saturday in YYYY-MM-DD form
// POST: every listed visitor has attendance[Date] set, or nothing is written
func ExecuteRecordVisitorAttendance(ctx context.Context, input RecordAttendanceInput, deps RecordAttendanceDeps) error {
	if err := checkAttendanceInput(input); err != nil {
		return err
	}
	if !period.IsSaturday(input.Date) {
		return invalid(attendance.ErrNotSaturday)
	}
	err := deps.Store.Update(ctx, func(s *club.Snapshot) error {
		if err := attendance.CheckEditable(input.Date, deps.Today(), s.Settings.LockFuture()); err != nil {
			return invalid(err)
		}
		idx := make([]int, len(input.Updates))
		for n, u := range input.Updates {
			if idx[n] = s.FindVisitor(u.ID); idx[n] < 0 {
				return ErrNotFound
			}
		}
		for n, u := range input.Updates {
			v := &s.Visitors[idx[n]]
			v.EnsureMaps()
			v.Attendance[input.Date] = u.Present
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("attendance_event", "event", "visitor_attendance_recorded", "date", input.Date, "count", len(input.Updates))
	return nil
}

func checkAttendanceInput(input RecordAttendanceInput) error {
	if _, err := period.ParseDateKey(input.Date); err != nil {
		return invalid(err)
	}
	if input.Updates == nil {
		return invalidf("updates are required")
	}
	return nil
}
