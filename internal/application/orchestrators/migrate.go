package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"clubhouse/internal/domain/club"
	"clubhouse/internal/domain/settings"
)

// MigrateDeps holds dependencies for Migrate.
type MigrateDeps struct {
	Store ClubStore
}

// MigrateResult reports what the data repair changed.
type MigrateResult struct {
	SettingsApplied    []int `json:"settingsApplied"`
	CreatedAtBackfills int   `json:"createdAtBackfills"`
	DisciplineCapped   int   `json:"disciplineCapped"`
}

// Changed reports whether anything was written.
func (r MigrateResult) Changed() bool {
	return len(r.SettingsApplied) > 0 || r.CreatedAtBackfills > 0 || r.DisciplineCapped > 0
}

// ExecuteMigrate brings stored data up to the current shape: settings schema
// migrations, a createdAt of the Unix epoch for members missing one, nil maps
// initialized and paid card counters capped.
// POST: running it again changes nothing
func ExecuteMigrate(ctx context.Context, deps MigrateDeps) (MigrateResult, error) {
	var result MigrateResult
	err := deps.Store.Update(ctx, func(s *club.Snapshot) error {
		migrated, applied := settings.Migrate(s.Settings)
		s.Settings = migrated
		result.SettingsApplied = applied

		epoch := time.Unix(0, 0).UTC().Format(time.RFC3339Nano)
		for i := range s.Players {
			m := &s.Players[i]
			if m.CreatedAt == "" {
				m.CreatedAt = epoch
				result.CreatedAtBackfills++
			}
			m.EnsureMaps()
			before := m.Discipline
			m.CapDiscipline()
			if m.Discipline != before {
				result.DisciplineCapped++
			}
		}
		for i := range s.Visitors {
			v := &s.Visitors[i]
			v.EnsureMaps()
			before := v.Discipline
			v.CapDiscipline()
			if v.Discipline != before {
				result.DisciplineCapped++
			}
		}
		if !result.Changed() {
			return errNoChanges
		}
		return nil
	})
	if err != nil && !errors.Is(err, errNoChanges) {
		return MigrateResult{}, err
	}

	slog.Info("store_event", "event", "data_migrated",
		"settings_applied", result.SettingsApplied,
		"created_at_backfills", result.CreatedAtBackfills,
		"discipline_capped", result.DisciplineCapped)
	return result, nil
}
