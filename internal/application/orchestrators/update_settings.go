package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"clubhouse/internal/domain/club"
	"clubhouse/internal/domain/settings"
)

// ErrLockFutureRequired is returned when an update omits attendance.lockFuture.
var ErrLockFutureRequired = errors.New("attendance lockFuture must be boolean")

// UpdateSettingsDeps holds dependencies for UpdateSettings.
type UpdateSettingsDeps struct {
	Store ClubStore
}

// ExecuteUpdateSettings replaces the club settings document.
// PRE: input carries every field; a legacy flat monthly fee is accepted
// POST: stored settings are normalized, valid and at the latest schema version
func ExecuteUpdateSettings(ctx context.Context, input settings.Settings, deps UpdateSettingsDeps) (settings.Settings, error) {
	next := input
	settings.FoldLegacyMonthly(&next)
	next.Normalize()
	if next.Attendance.LockFuture == nil {
		return settings.Settings{}, invalid(ErrLockFutureRequired)
	}
	if err := next.Validate(); err != nil {
		return settings.Settings{}, invalid(err)
	}
	next.SchemaVersion = settings.LatestSchemaVersion()

	err := deps.Store.Update(ctx, func(s *club.Snapshot) error {
		s.Settings = next
		return nil
	})
	if err != nil {
		return settings.Settings{}, err
	}
	slog.Info("settings_event", "event", "settings_updated", "season", next.Season, "schedule_entries", len(next.Fees.MonthlySchedule))
	return next, nil
}
