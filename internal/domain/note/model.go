package note

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxTextLength = 10000
	MaxTagLength  = 40
)

// Domain errors
var (
	ErrTextRequired = errors.New("note text is required")
	ErrTextTooLong  = errors.New("note text cannot exceed 10000 characters")
	ErrTagTooLong   = errors.New("tag cannot exceed 40 characters")
)

// Note is a free-text admin note; text is markdown.
type Note struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
	Pinned    bool   `json:"pinned"`
	Tag       string `json:"tag"`
}

// Validate checks if the Note has valid data.
// PRE: Note struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (n *Note) Validate() error {
	if strings.TrimSpace(n.Text) == "" {
		return ErrTextRequired
	}
	if len(n.Text) > MaxTextLength {
		return ErrTextTooLong
	}
	if len(n.Tag) > MaxTagLength {
		return ErrTagTooLong
	}
	return nil
}

// Touched returns the last modification time, falling back to creation.
// POST: zero time when neither timestamp parses
func (n *Note) Touched() time.Time {
	for _, s := range []string{n.UpdatedAt, n.CreatedAt} {
		if s == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Filter selects notes for listing.
type Filter struct {
	Query string
	From  time.Time
	To    time.Time
}

// Matches reports whether n passes f.
func (f Filter) Matches(n Note) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" && !strings.Contains(strings.ToLower(n.Text), q) {
		return false
	}
	t := n.Touched()
	if !f.From.IsZero() && t.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && t.After(f.To) {
		return false
	}
	return true
}
