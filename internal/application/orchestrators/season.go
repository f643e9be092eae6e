package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"clubhouse/internal/domain/activity"
	"clubhouse/internal/domain/backup"
	"clubhouse/internal/domain/club"
	"clubhouse/internal/domain/member"
)

// Confirmation tokens an operator must type before a destructive season action.
const (
	ConfirmRollover = "ROLLOVER"
	ConfirmReset    = "RESET"
)

// SeasonDeps holds dependencies for Rollover and ResetSeason.
type SeasonDeps struct {
	Store      BackupStore
	Notifier   AdminNotifier // optional
	GenerateID func() string
	Now        func() time.Time
}

// SeasonResult reports the backup taken and the season in force afterwards.
type SeasonResult struct {
	Backup backup.Manifest `json:"backup"`
	Season int             `json:"season"`
}

// RolloverInput carries input for the orchestrator.
type RolloverInput struct {
	NewSeasonYear int
	Reset         member.ResetFlags
	Confirm       string
}

// ExecuteRollover advances the season and clears the selected member data.
// PRE: Confirm is ROLLOVER; NewSeasonYear >= current season
// POST: a full backup exists before any mutation; settings.season = NewSeasonYear;
// each selected reset applied to every member
// INVARIANT: a failed backup leaves the store untouched
func ExecuteRollover(ctx context.Context, input RolloverInput, deps SeasonDeps) (SeasonResult, error) {
	if input.Confirm != ConfirmRollover {
		return SeasonResult{}, ErrConfirmationRequired
	}
	if err := deps.Store.View(ctx, func(s club.Snapshot) error {
		return checkNewSeason(input.NewSeasonYear, s.Settings.Season)
	}); err != nil {
		return SeasonResult{}, err
	}

	manifest, err := deps.Store.UpdateWithBackup(ctx, func(s *club.Snapshot, _ backup.Manifest) error {
		if err := checkNewSeason(input.NewSeasonYear, s.Settings.Season); err != nil {
			return err
		}
		s.Settings.Season = input.NewSeasonYear
		applyReset(s, input.Reset)
		s.Log(activity.New(deps.GenerateID(),
			fmt.Sprintf("Season rolled over to %d (reset: %s)", input.NewSeasonYear, describeFlags(input.Reset)),
			activity.TypeSeasonRollover, deps.Now()))
		return nil
	})
	if err != nil {
		return SeasonResult{}, err
	}

	slog.Info("season_event", "event", "season_rollover", "season", input.NewSeasonYear, "backup", manifest.Location)
	notify(ctx, deps.Notifier, fmt.Sprintf("Season rolled over to %d", input.NewSeasonYear), manifest, input.Reset)
	return SeasonResult{Backup: manifest, Season: input.NewSeasonYear}, nil
}

// ResetSeasonInput carries input for the orchestrator.
type ResetSeasonInput struct {
	Reset   member.ResetFlags
	Confirm string
}

// ExecuteResetSeason clears the selected member data without changing the season.
// PRE: Confirm is RESET
// POST: a full backup exists before any mutation; each selected reset applied
// INVARIANT: a failed backup leaves the store untouched
func ExecuteResetSeason(ctx context.Context, input ResetSeasonInput, deps SeasonDeps) (SeasonResult, error) {
	if input.Confirm != ConfirmReset {
		return SeasonResult{}, ErrConfirmationRequired
	}
	var season int
	manifest, err := deps.Store.UpdateWithBackup(ctx, func(s *club.Snapshot, _ backup.Manifest) error {
		season = s.Settings.Season
		applyReset(s, input.Reset)
		s.Log(activity.New(deps.GenerateID(),
			fmt.Sprintf("Season %d reset (reset: %s)", season, describeFlags(input.Reset)),
			activity.TypeSeasonReset, deps.Now()))
		return nil
	})
	if err != nil {
		return SeasonResult{}, err
	}

	slog.Info("season_event", "event", "season_reset", "season", season, "backup", manifest.Location)
	notify(ctx, deps.Notifier, fmt.Sprintf("Season %d reset", season), manifest, input.Reset)
	return SeasonResult{Backup: manifest, Season: season}, nil
}

func checkNewSeason(next, current int) error {
	if next < current {
		return invalidf("new season year must be >= current season year")
	}
	return nil
}

func applyReset(s *club.Snapshot, f member.ResetFlags) {
	if !f.Any() {
		return
	}
	for i := range s.Players {
		s.Players[i].ApplyReset(f)
	}
}

func describeFlags(f member.ResetFlags) string {
	var parts []string
	for _, p := range []struct {
		on   bool
		name string
	}{
		{f.Attendance, "attendance"},
		{f.MonthlyPayments, "monthly payments"},
		{f.YearlyPayments, "yearly payments"},
		{f.Stats, "stats"},
		{f.DisciplinePaid, "discipline paid"},
	} {
		if p.on {
			parts = append(parts, p.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

// notify sends the admin notice; failures are logged, never returned.
func notify(ctx context.Context, n AdminNotifier, subject string, m backup.Manifest, f member.ResetFlags) {
	if n == nil {
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s.\n\nReset: %s\nBackup location: %s\n", subject, describeFlags(f), m.Location)
	for _, doc := range backup.Documents {
		if name, ok := m.Files[doc]; ok {
			fmt.Fprintf(&b, "  %s: %s\n", doc, name)
		}
	}
	if name, ok := m.Files["database"]; ok {
		fmt.Fprintf(&b, "  database: %s\n", name)
	}
	if err := n.NotifyAdmin(ctx, subject, b.String()); err != nil {
		slog.Warn("admin_notify_failed", "subject", subject, "error", err)
	}
}
