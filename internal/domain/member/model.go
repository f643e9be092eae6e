package member

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"clubhouse/internal/domain/money"
	"clubhouse/internal/domain/obligation"
	"clubhouse/internal/domain/period"
	"clubhouse/internal/domain/settings"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength     = 100
	MaxNicknameLength = 50
	MaxJerseyNumber   = 99
)

// Positions lists the playing positions a member may hold.
var Positions = []string{"FW", "CM", "CDM", "CAM", "LM", "RM", "CB", "RB", "LB", "LW", "RW", "GK", "DF", "MF"}

// Domain errors
var (
	ErrNameRequired     = errors.New("name is required")
	ErrNameTooLong      = errors.New("name cannot exceed 100 characters")
	ErrNicknameTooLong  = errors.New("nickname cannot exceed 50 characters")
	ErrInvalidPosition  = errors.New("position must be one of FW, CM, CDM, CAM, LM, RM, CB, RB, LB, LW, RW, GK, DF, MF")
	ErrNegativeStat     = errors.New("stats must be non-negative integers")
	ErrInvalidEmail     = errors.New("email must be valid")
	ErrInvalidJersey    = errors.New("jersey number must be between 0 and 99")
	ErrInvalidSinceYear = errors.New("member since year must be a four-digit year")
)

// Entry is the expected and paid amount for one billing period.
type Entry struct {
	Expected money.Amount `json:"expected"`
	Paid     money.Amount `json:"paid"`
}

// Payments indexes entries by month key and year key.
type Payments struct {
	Monthly map[string]Entry `json:"monthly"`
	Yearly  map[string]Entry `json:"yearly"`
}

// Membership carries the member's joining year when known.
type Membership struct {
	MemberSinceYear *int `json:"memberSinceYear,omitempty"`
}

// Subscriptions holds legacy per-period markers; only the keys are meaningful.
type Subscriptions struct {
	Year   map[string]json.RawMessage `json:"year,omitempty"`
	Months map[string]json.RawMessage `json:"months,omitempty"`
}

// Stats are season counters.
type Stats struct {
	Goals   int `json:"goals"`
	Assists int `json:"assists"`
	Yellow  int `json:"yellow"`
	Red     int `json:"red"`
}

// Discipline counts cards whose fines have been paid.
type Discipline struct {
	YellowPaid int `json:"yellowPaid"`
	RedPaid    int `json:"redPaid"`
}

// Member holds state for the concept.
type Member struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Nickname      string          `json:"nickname"`
	Position      string          `json:"position"`
	Email         string          `json:"email,omitempty"`
	JerseyNumber  *int            `json:"jerseyNumber,omitempty"`
	CreatedAt     string          `json:"createdAt,omitempty"`
	Membership    Membership      `json:"membership"`
	Subscriptions *Subscriptions  `json:"subscriptions,omitempty"`
	Payments      Payments        `json:"payments"`
	Attendance    map[string]bool `json:"attendance"`
	Stats         Stats           `json:"stats"`
	Discipline    Discipline      `json:"discipline"`
}

// New returns a member with empty payment and attendance maps.
// PRE: id is non-empty
// POST: maps are non-nil; MemberSinceYear is set when sinceYear > 0
func New(id, name, nickname, position string, sinceYear int, now time.Time) Member {
	m := Member{
		ID:         id,
		Name:       strings.TrimSpace(name),
		Nickname:   strings.TrimSpace(nickname),
		Position:   strings.ToUpper(strings.TrimSpace(position)),
		CreatedAt:  now.UTC().Format(time.RFC3339Nano),
		Payments:   Payments{Monthly: map[string]Entry{}, Yearly: map[string]Entry{}},
		Attendance: map[string]bool{},
	}
	if sinceYear > 0 {
		m.Membership.MemberSinceYear = &sinceYear
	}
	return m
}

// Validate checks if the Member has valid data.
// PRE: Member struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Name must not be empty, Position must be a known position
func (m *Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrNameRequired
	}
	if len(m.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if len(m.Nickname) > MaxNicknameLength {
		return ErrNicknameTooLong
	}
	if !ValidPosition(m.Position) {
		return ErrInvalidPosition
	}
	if m.Email != "" && !strings.Contains(m.Email, "@") {
		return ErrInvalidEmail
	}
	if m.JerseyNumber != nil && (*m.JerseyNumber < 0 || *m.JerseyNumber > MaxJerseyNumber) {
		return ErrInvalidJersey
	}
	if y := m.Membership.MemberSinceYear; y != nil && (*y < 1000 || *y > 9999) {
		return ErrInvalidSinceYear
	}
	s := m.Stats
	if s.Goals < 0 || s.Assists < 0 || s.Yellow < 0 || s.Red < 0 {
		return ErrNegativeStat
	}
	if m.Discipline.YellowPaid < 0 || m.Discipline.RedPaid < 0 {
		return ErrNegativeStat
	}
	return nil
}

// ValidPosition reports whether p is a known playing position.
func ValidPosition(p string) bool {
	for _, pos := range Positions {
		if p == pos {
			return true
		}
	}
	return false
}

// IdentityKey is the normalized name and nickname used for duplicate detection.
func IdentityKey(name, nickname string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "|" + strings.ToLower(strings.TrimSpace(nickname))
}

// IdentityKey returns the member's normalized identity.
func (m *Member) IdentityKey() string {
	return IdentityKey(m.Name, m.Nickname)
}

// CapDiscipline clamps paid card counters to the cards received.
// POST: 0 <= YellowPaid <= Stats.Yellow and 0 <= RedPaid <= Stats.Red
func (m *Member) CapDiscipline() {
	m.Discipline.YellowPaid = obligation.CapPaid(m.Discipline.YellowPaid, m.Stats.Yellow)
	m.Discipline.RedPaid = obligation.CapPaid(m.Discipline.RedPaid, m.Stats.Red)
}

// Cards returns the member's card counters for fine computation.
func (m *Member) Cards() obligation.Cards {
	return obligation.Cards{
		Yellow:     m.Stats.Yellow,
		Red:        m.Stats.Red,
		YellowPaid: m.Discipline.YellowPaid,
		RedPaid:    m.Discipline.RedPaid,
	}
}

// EnsureMaps initializes nil payment and attendance maps.
func (m *Member) EnsureMaps() {
	if m.Payments.Monthly == nil {
		m.Payments.Monthly = map[string]Entry{}
	}
	if m.Payments.Yearly == nil {
		m.Payments.Yearly = map[string]Entry{}
	}
	if m.Attendance == nil {
		m.Attendance = map[string]bool{}
	}
}

// ResolveMemberSinceYear returns the year the member joined: the explicit
// membership year, else the earliest legacy yearly subscription key, else the
// club season, else the current calendar year.
// PRE: none
// POST: returns a positive year
func ResolveMemberSinceYear(s settings.Settings, m Member, now time.Time) int {
	if y := m.Membership.MemberSinceYear; y != nil && *y > 0 {
		return *y
	}
	if m.Subscriptions != nil && len(m.Subscriptions.Year) > 0 {
		keys := make([]int, 0, len(m.Subscriptions.Year))
		for k := range m.Subscriptions.Year {
			if y, err := period.ParseYearKey(k); err == nil {
				keys = append(keys, y)
			}
		}
		if len(keys) > 0 {
			sort.Ints(keys)
			return keys[0]
		}
	}
	if s.Season > 0 {
		return s.Season
	}
	return now.Year()
}

// ExpectedMonthly returns the schedule fee in force for monthKey. The expected
// amount cached on a payment entry is never consulted.
func ExpectedMonthly(s settings.Settings, monthKey string) money.Amount {
	return s.MonthlyFee(monthKey)
}

// ExpectedYearly returns the new member or renewal fee for yearKey.
func ExpectedYearly(s settings.Settings, m Member, yearKey string, now time.Time) money.Amount {
	return s.YearlyFee(ResolveMemberSinceYear(s, m, now), yearKey)
}

// PaymentSummary is a member's monthly and yearly obligations for one period pair.
type PaymentSummary struct {
	Yearly  obligation.Summary `json:"yearly"`
	Monthly obligation.Summary `json:"monthly"`
}

// Summarize computes both obligations for yearKey and monthKey from the fees in
// force and the stored paid amounts.
// INVARIANT: does not mutate m
func Summarize(s settings.Settings, m Member, yearKey, monthKey string, now time.Time) PaymentSummary {
	return PaymentSummary{
		Yearly:  obligation.Summarize(ExpectedYearly(s, m, yearKey, now), m.Payments.Yearly[yearKey].Paid),
		Monthly: obligation.Summarize(ExpectedMonthly(s, monthKey), m.Payments.Monthly[monthKey].Paid),
	}
}

// ResetFlags select which season data a rollover or reset clears.
type ResetFlags struct {
	Attendance      bool `json:"attendance"`
	MonthlyPayments bool `json:"monthlyPayments"`
	YearlyPayments  bool `json:"yearlyPayments"`
	Stats           bool `json:"stats"`
	DisciplinePaid  bool `json:"disciplinePaid"`
}

// Any reports whether at least one flag is set.
func (f ResetFlags) Any() bool {
	return f.Attendance || f.MonthlyPayments || f.YearlyPayments || f.Stats || f.DisciplinePaid
}

// ApplyReset clears the data selected by f.
// POST: unselected fields are untouched
func (m *Member) ApplyReset(f ResetFlags) {
	if f.Attendance {
		m.Attendance = map[string]bool{}
	}
	if f.MonthlyPayments {
		m.Payments.Monthly = map[string]Entry{}
	}
	if f.YearlyPayments {
		m.Payments.Yearly = map[string]Entry{}
	}
	if f.Stats {
		m.Stats = Stats{}
	}
	if f.DisciplinePaid {
		m.Discipline = Discipline{}
	}
}
