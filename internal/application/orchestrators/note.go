package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"clubhouse/internal/domain/club"
	"clubhouse/internal/domain/note"
)

// NoteDeps holds dependencies for note commands.
type NoteDeps struct {
	Store      ClubStore
	GenerateID func() string
	Now        func() time.Time
}

// CreateNoteInput carries input for the orchestrator.
type CreateNoteInput struct {
	Text   string
	Pinned bool
	Tag    string
}

// ExecuteCreateNote stores a new admin note.
// PRE: Text non-blank
// POST: note has equal createdAt and updatedAt
func ExecuteCreateNote(ctx context.Context, input CreateNoteInput, deps NoteDeps) (note.Note, error) {
	stamp := deps.Now().UTC().Format(time.RFC3339Nano)
	n := note.Note{
		ID:        deps.GenerateID(),
		Text:      strings.TrimSpace(input.Text),
		CreatedAt: stamp,
		UpdatedAt: stamp,
		Pinned:    input.Pinned,
		Tag:       strings.TrimSpace(input.Tag),
	}
	if err := n.Validate(); err != nil {
		return note.Note{}, invalid(err)
	}
	err := deps.Store.Update(ctx, func(s *club.Snapshot) error {
		s.Notes = append(s.Notes, n)
		return nil
	})
	if err != nil {
		return note.Note{}, err
	}
	slog.Info("note_event", "event", "note_created", "note_id", n.ID)
	return n, nil
}

// UpdateNoteInput carries a partial update; nil fields are left unchanged.
type UpdateNoteInput struct {
	NoteID string
	Text   *string
	Pinned *bool
	Tag    *string
}

// ExecuteUpdateNote edits a note and bumps updatedAt.
// PRE: NoteID names an existing note
func ExecuteUpdateNote(ctx context.Context, input UpdateNoteInput, deps NoteDeps) (note.Note, error) {
	var updated note.Note
	err := deps.Store.Update(ctx, func(s *club.Snapshot) error {
		i := s.FindNote(input.NoteID)
		if i < 0 {
			return ErrNotFound
		}
		n := s.Notes[i]
		if input.Text != nil {
			n.Text = strings.TrimSpace(*input.Text)
		}
		if input.Pinned != nil {
			n.Pinned = *input.Pinned
		}
		if input.Tag != nil {
			n.Tag = strings.TrimSpace(*input.Tag)
		}
		if err := n.Validate(); err != nil {
			return invalid(err)
		}
		n.UpdatedAt = deps.Now().UTC().Format(time.RFC3339Nano)
		s.Notes[i] = n
		updated = n
		return nil
	})
	if err != nil {
		return note.Note{}, err
	}
	slog.Info("note_event", "event", "note_updated", "note_id", updated.ID)
	return updated, nil
}

// ExecuteDeleteNote removes a note.
func ExecuteDeleteNote(ctx context.Context, id string, deps NoteDeps) error {
	err := deps.Store.Update(ctx, func(s *club.Snapshot) error {
		i := s.FindNote(id)
		if i < 0 {
			return ErrNotFound
		}
		s.Notes = append(s.Notes[:i], s.Notes[i+1:]...)
		return nil
	})
	if err != nil {
		return err
	}
	slog.Info("note_event", "event", "note_deleted", "note_id", id)
	return nil
}
