package note_test

import (
	"testing"
	"time"

	"clubhouse/internal/domain/note"
)

func TestNoteValidation(t *testing.T) {
	n := note.Note{Text: "  "}
	if err := n.Validate(); err != note.ErrTextRequired {
		t.Errorf("Validate() error = %v, want ErrTextRequired", err)
	}
	n.Text = "Kit order placed"
	if err := n.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

// TestFilterMatches uses updatedAt before createdAt for the date window.
func TestFilterMatches(t *testing.T) {
	n := note.Note{Text: "Pitch booked for March", CreatedAt: "2026-01-02T10:00:00Z", UpdatedAt: "2026-03-01T10:00:00Z"}
	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		filter note.Filter
		want   bool
	}{
		{"empty filter", note.Filter{}, true},
		{"text match ignores case", note.Filter{Query: "PITCH"}, true},
		{"text miss", note.Filter{Query: "kit"}, false},
		{"from uses updated", note.Filter{From: from}, true},
		{"to before updated", note.Filter{To: from}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(n); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}
