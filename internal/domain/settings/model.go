package settings

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"clubhouse/internal/domain/money"
	"clubhouse/internal/domain/period"
)

// Max length constants for user-editable fields.
const (
	MaxClubNameLength       = 100
	MaxCurrencySymbolLength = 3
	MinSeason               = 2000
)

// Defaults applied to fresh and migrated settings.
var (
	DefaultYellowFine     = money.New(500)
	DefaultRedFine        = money.New(1000)
	DefaultVisitorSession = money.New(1000)
)

// Domain errors
var (
	ErrClubNameRequired  = errors.New("club name is required")
	ErrSeasonTooEarly    = errors.New("season must be a number >= 2000")
	ErrCurrencySymbol    = errors.New("currency symbol must be 1 to 3 characters")
	ErrNegativeFee       = errors.New("fees must be non-negative numbers")
	ErrStartDate         = errors.New("attendance start date must be YYYY-MM-DD")
	ErrDuplicateSchedule = errors.New("monthly fee schedule has duplicate effective months")
	ErrNegativeFine      = errors.New("fine rates must be non-negative numbers")
)

// ScheduleEntry is one step of the monthly fee schedule, effective from a month onward.
type ScheduleEntry struct {
	From   string       `json:"from"`
	Amount money.Amount `json:"amount"`
}

// Fees holds the club's fee configuration.
type Fees struct {
	// Monthly is the legacy flat monthly fee, folded into MonthlySchedule by migration.
	Monthly         *money.Amount   `json:"monthly,omitempty"`
	MonthlySchedule []ScheduleEntry `json:"monthlySchedule"`
	NewMemberYearly money.Amount    `json:"newMemberYearly"`
	RenewalYearly   money.Amount    `json:"renewalYearly"`
	VisitorSession  money.Amount    `json:"visitorSession"`
}

// Attendance configures the session calendar.
type Attendance struct {
	StartDate  string `json:"startDate"`
	LockFuture *bool  `json:"lockFuture,omitempty"`
}

// Discipline holds fine rates per card.
type Discipline struct {
	YellowFine money.Amount `json:"yellowFine"`
	RedFine    money.Amount `json:"redFine"`
}

// Settings is the club-wide singleton configuration.
type Settings struct {
	ClubName       string     `json:"clubName"`
	Season         int        `json:"season"`
	CurrencySymbol string     `json:"currencySymbol"`
	Fees           Fees       `json:"fees"`
	Attendance     Attendance `json:"attendance"`
	Discipline     Discipline `json:"discipline"`
	SchemaVersion  int        `json:"schemaVersion"`
}

// Default returns the settings written when a club has none yet.
// PRE: season >= MinSeason
// POST: result satisfies Validate and is at the latest schema version
func Default(season int) Settings {
	lock := true
	return Settings{
		ClubName:       "My Club",
		Season:         season,
		CurrencySymbol: "$",
		Fees: Fees{
			MonthlySchedule: []ScheduleEntry{},
			NewMemberYearly: money.Zero,
			RenewalYearly:   money.Zero,
			VisitorSession:  DefaultVisitorSession,
		},
		Attendance:    Attendance{StartDate: fmt.Sprintf("%d-01-01", season), LockFuture: &lock},
		Discipline:    Discipline{YellowFine: DefaultYellowFine, RedFine: DefaultRedFine},
		SchemaVersion: LatestSchemaVersion(),
	}
}

// Validate checks if the Settings have valid data.
// PRE: Settings struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: schedule entries are valid month keys, non-negative and unique
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.ClubName) == "" {
		return ErrClubNameRequired
	}
	if len(s.ClubName) > MaxClubNameLength {
		return errors.New("club name cannot exceed 100 characters")
	}
	if s.Season < MinSeason {
		return ErrSeasonTooEarly
	}
	sym := strings.TrimSpace(s.CurrencySymbol)
	if sym == "" || len([]rune(sym)) > MaxCurrencySymbolLength {
		return ErrCurrencySymbol
	}
	seen := make(map[string]bool, len(s.Fees.MonthlySchedule))
	for _, e := range s.Fees.MonthlySchedule {
		if _, err := period.ParseMonthKey(e.From); err != nil {
			return fmt.Errorf("monthly fee schedule entry %q: %w", e.From, err)
		}
		if e.Amount.IsNegative() {
			return ErrNegativeFee
		}
		if seen[e.From] {
			return ErrDuplicateSchedule
		}
		seen[e.From] = true
	}
	if s.Fees.NewMemberYearly.IsNegative() || s.Fees.RenewalYearly.IsNegative() || s.Fees.VisitorSession.IsNegative() {
		return ErrNegativeFee
	}
	if s.Discipline.YellowFine.IsNegative() || s.Discipline.RedFine.IsNegative() {
		return ErrNegativeFine
	}
	if _, err := period.ParseDateKey(s.Attendance.StartDate); err != nil {
		return ErrStartDate
	}
	return nil
}

// Normalize trims text fields and sorts the schedule ascending.
// POST: MonthlySchedule is sorted by From; ClubName and CurrencySymbol trimmed
func (s *Settings) Normalize() {
	s.ClubName = strings.TrimSpace(s.ClubName)
	s.CurrencySymbol = strings.TrimSpace(s.CurrencySymbol)
	s.Fees.MonthlySchedule = sortedSchedule(s.Fees.MonthlySchedule)
}

// LockFuture reports whether future sessions are locked. Unset means locked.
func (s *Settings) LockFuture() bool {
	if s.Attendance.LockFuture == nil {
		return true
	}
	return *s.Attendance.LockFuture
}

// ResolveMonthlyFee returns the fee in effect for monthKey: the amount of the
// latest entry effective on or before monthKey, falling back to the earliest
// entry when monthKey precedes the whole schedule.
// PRE: monthKey is YYYY-MM
// POST: returns 0 for an empty schedule; input slice is not reordered
func ResolveMonthlyFee(schedule []ScheduleEntry, monthKey string) money.Amount {
	if len(schedule) == 0 {
		return money.Zero
	}
	sorted := sortedSchedule(schedule)
	fee := sorted[0].Amount
	for _, e := range sorted {
		// Month keys are fixed width so lexical order is chronological.
		if e.From <= monthKey {
			fee = e.Amount
		}
	}
	return fee
}

// MonthlyFee resolves the club's monthly fee for monthKey.
func (s *Settings) MonthlyFee(monthKey string) money.Amount {
	return ResolveMonthlyFee(s.Fees.MonthlySchedule, monthKey)
}

// YearlyFee returns the new-member tier when yearKey is the member's first year,
// the renewal tier otherwise.
// PRE: yearKey is YYYY
// POST: returns one of the two configured yearly amounts
func (s *Settings) YearlyFee(memberSinceYear int, yearKey string) money.Amount {
	if yearKey == fmt.Sprintf("%04d", memberSinceYear) {
		return s.Fees.NewMemberYearly
	}
	return s.Fees.RenewalYearly
}

func sortedSchedule(schedule []ScheduleEntry) []ScheduleEntry {
	out := make([]ScheduleEntry, len(schedule))
	copy(out, schedule)
	sort.SliceStable(out, func(i, j int) bool { return out[i].From < out[j].From })
	return out
}
