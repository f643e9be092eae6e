// Package club groups the whole persisted document a store reads and writes.
package club

import (
	"encoding/json"
	"fmt"

	"clubhouse/internal/domain/activity"
	"clubhouse/internal/domain/member"
	"clubhouse/internal/domain/note"
	"clubhouse/internal/domain/settings"
	"clubhouse/internal/domain/visitor"
)

// Snapshot is the full club state loaded for each operation.
type Snapshot struct {
	Settings settings.Settings `json:"settings"`
	Players  []member.Member   `json:"players"`
	Visitors []visitor.Visitor `json:"visitors"`
	Activity []activity.Entry  `json:"activity"`
	Notes    []note.Note       `json:"notes"`
}

// Empty returns a snapshot with default settings for season and no records.
func Empty(season int) Snapshot {
	return Snapshot{
		Settings: settings.Default(season),
		Players:  []member.Member{},
		Visitors: []visitor.Visitor{},
		Activity: []activity.Entry{},
		Notes:    []note.Note{},
	}
}

// Clone returns a deep copy of s.
// POST: mutating the copy never affects s
func (s Snapshot) Clone() (Snapshot, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return Snapshot{}, fmt.Errorf("clone snapshot: %w", err)
	}
	var out Snapshot
	if err := json.Unmarshal(raw, &out); err != nil {
		return Snapshot{}, fmt.Errorf("clone snapshot: %w", err)
	}
	return out, nil
}

// FindPlayer returns the index of the member with id, or -1.
func (s *Snapshot) FindPlayer(id string) int {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return i
		}
	}
	return -1
}

// FindVisitor returns the index of the visitor with id, or -1.
func (s *Snapshot) FindVisitor(id string) int {
	for i := range s.Visitors {
		if s.Visitors[i].ID == id {
			return i
		}
	}
	return -1
}

// FindNote returns the index of the note with id, or -1.
func (s *Snapshot) FindNote(id string) int {
	for i := range s.Notes {
		if s.Notes[i].ID == id {
			return i
		}
	}
	return -1
}

// HasIdentity reports whether a member other than exceptID has the normalized identity key.
func (s *Snapshot) HasIdentity(key, exceptID string) bool {
	for i := range s.Players {
		if s.Players[i].ID != exceptID && s.Players[i].IdentityKey() == key {
			return true
		}
	}
	return false
}

// Log appends an activity entry.
func (s *Snapshot) Log(e activity.Entry) {
	s.Activity = append(s.Activity, e)
}
