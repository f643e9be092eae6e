package visitor

import (
	"errors"
	"strings"
	"time"

	"clubhouse/internal/domain/member"
	"clubhouse/internal/domain/money"
	"clubhouse/internal/domain/obligation"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength  = 100
	MaxNotesLength = 1000
)

// Domain errors
var (
	ErrNameRequired = errors.New("name is required")
	ErrNameTooLong  = errors.New("name cannot exceed 100 characters")
	ErrNotesTooLong = errors.New("notes cannot exceed 1000 characters")
	ErrNegativeCard = errors.New("card counts must be non-negative")
)

// SessionPayment is the fee due and paid for one attended session.
type SessionPayment struct {
	Expected money.Amount `json:"expected"`
	Paid     money.Amount `json:"paid"`
}

// Payments indexes session payments by date key.
type Payments struct {
	Sessions map[string]SessionPayment `json:"sessions"`
}

// Stats are card counters; visitors do not track goals.
type Stats struct {
	Yellow int `json:"yellow"`
	Red    int `json:"red"`
}

// Visitor is a guest player tracked apart from members until promoted.
type Visitor struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Nickname   string            `json:"nickname"`
	Notes      string            `json:"notes"`
	CreatedAt  string            `json:"createdAt"`
	Attendance map[string]bool   `json:"attendance"`
	Payments   Payments          `json:"payments"`
	Stats      Stats             `json:"stats"`
	Discipline member.Discipline `json:"discipline"`
}

// New returns a visitor with empty attendance and payments.
func New(id, name, nickname, notes string, now time.Time) Visitor {
	return Visitor{
		ID:         id,
		Name:       strings.TrimSpace(name),
		Nickname:   strings.TrimSpace(nickname),
		Notes:      strings.TrimSpace(notes),
		CreatedAt:  now.UTC().Format(time.RFC3339Nano),
		Attendance: map[string]bool{},
		Payments:   Payments{Sessions: map[string]SessionPayment{}},
	}
}

// Validate checks if the Visitor has valid data.
// PRE: Visitor struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (v *Visitor) Validate() error {
	if strings.TrimSpace(v.Name) == "" {
		return ErrNameRequired
	}
	if len(v.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if len(v.Notes) > MaxNotesLength {
		return ErrNotesTooLong
	}
	if v.Stats.Yellow < 0 || v.Stats.Red < 0 || v.Discipline.YellowPaid < 0 || v.Discipline.RedPaid < 0 {
		return ErrNegativeCard
	}
	return nil
}

// EnsureMaps initializes nil attendance and payment maps.
func (v *Visitor) EnsureMaps() {
	if v.Attendance == nil {
		v.Attendance = map[string]bool{}
	}
	if v.Payments.Sessions == nil {
		v.Payments.Sessions = map[string]SessionPayment{}
	}
}

// CapDiscipline clamps paid card counters to the cards received.
func (v *Visitor) CapDiscipline() {
	v.Discipline.YellowPaid = obligation.CapPaid(v.Discipline.YellowPaid, v.Stats.Yellow)
	v.Discipline.RedPaid = obligation.CapPaid(v.Discipline.RedPaid, v.Stats.Red)
}

// Cards returns the visitor's card counters.
func (v *Visitor) Cards() obligation.Cards {
	return obligation.Cards{
		Yellow:     v.Stats.Yellow,
		Red:        v.Stats.Red,
		YellowPaid: v.Discipline.YellowPaid,
		RedPaid:    v.Discipline.RedPaid,
	}
}

// RecordSessionPayment stores paid for date against the session fee.
// PRE: date is a valid date key; paid >= 0
func (v *Visitor) RecordSessionPayment(date string, fee, paid money.Amount) {
	v.EnsureMaps()
	v.Payments.Sessions[date] = SessionPayment{Expected: fee, Paid: paid}
}

// SessionPaid returns the amount paid for a session date.
func (v *Visitor) SessionPaid(date string) money.Amount {
	return v.Payments.Sessions[date].Paid
}

// DisplayName is "name (nickname)" when a nickname is set.
func (v *Visitor) DisplayName() string {
	if v.Nickname == "" {
		return v.Name
	}
	return v.Name + " (" + v.Nickname + ")"
}

// Promote builds the member record a visitor becomes. Identity is copied;
// attendance, payments and card history stay with the discarded visitor.
// PRE: position is a valid member position
// POST: returned member has MemberSinceYear = season and empty payment maps
func (v *Visitor) Promote(id, position string, season int, now time.Time) member.Member {
	return member.New(id, v.Name, v.Nickname, position, season, now)
}
