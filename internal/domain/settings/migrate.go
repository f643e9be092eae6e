package settings

import (
	"fmt"

	"clubhouse/internal/domain/money"
)

// Migration upgrades settings from Version-1 to Version.
type Migration struct {
	Version     int
	Description string
	Apply       func(s *Settings)
}

// migrations is ordered by Version; each runs at most once per document.
var migrations = []Migration{
	{
		Version:     1,
		Description: "fold flat monthly fee into a one-entry schedule",
		Apply:       FoldLegacyMonthly,
	},
	{
		Version:     2,
		Description: "default fine rates and visitor session fee",
		Apply: func(s *Settings) {
			if s.Discipline.YellowFine.IsZero() && s.Discipline.RedFine.IsZero() {
				s.Discipline.YellowFine = DefaultYellowFine
				s.Discipline.RedFine = DefaultRedFine
			}
			if s.Fees.VisitorSession.IsZero() {
				s.Fees.VisitorSession = DefaultVisitorSession
			}
			if s.Fees.MonthlySchedule == nil {
				s.Fees.MonthlySchedule = []ScheduleEntry{}
			}
		},
	},
}

// FoldLegacyMonthly turns a flat monthly fee into a schedule effective from
// January of the season. An existing schedule wins over the flat fee.
// POST: s.Fees.Monthly is nil
func FoldLegacyMonthly(s *Settings) {
	if s.Fees.Monthly == nil {
		return
	}
	if len(s.Fees.MonthlySchedule) == 0 {
		s.Fees.MonthlySchedule = []ScheduleEntry{{
			From:   fmt.Sprintf("%04d-01", s.Season),
			Amount: money.NonNegative(*s.Fees.Monthly),
		}}
	}
	s.Fees.Monthly = nil
}

// LatestSchemaVersion returns the version settings are migrated to.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].Version
}

// Migrate applies every migration newer than s.SchemaVersion.
// PRE: none
// POST: returned settings are at LatestSchemaVersion; applied lists versions run
// INVARIANT: input is not mutated; migrating twice applies nothing the second time
func Migrate(s Settings) (Settings, []int) {
	out := s
	if s.Fees.MonthlySchedule != nil {
		out.Fees.MonthlySchedule = sortedSchedule(s.Fees.MonthlySchedule)
	}
	var applied []int
	for _, m := range migrations {
		if out.SchemaVersion >= m.Version {
			continue
		}
		m.Apply(&out)
		out.SchemaVersion = m.Version
		applied = append(applied, m.Version)
	}
	return out, applied
}
