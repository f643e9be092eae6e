package storage

import (
	"encoding/json"
	"fmt"

	"clubhouse/internal/domain/activity"
	"clubhouse/internal/domain/backup"
	"clubhouse/internal/domain/club"
	"clubhouse/internal/domain/member"
	"clubhouse/internal/domain/note"
	"clubhouse/internal/domain/visitor"
)

// dbDocument is the layout of the players document.
type dbDocument struct {
	Players []member.Member `json:"players"`
}

// EncodeDocuments splits a snapshot into its five named JSON documents,
// indented the way the data files have always been written.
// POST: result has one entry per backup.Documents name
func EncodeDocuments(s club.Snapshot) (map[string][]byte, error) {
	docs := map[string]any{
		backup.DocDB:       dbDocument{Players: nonNil(s.Players)},
		backup.DocSettings: s.Settings,
		backup.DocVisitors: nonNil(s.Visitors),
		backup.DocActivity: nonNil(s.Activity),
		backup.DocNotes:    nonNil(s.Notes),
	}
	out := make(map[string][]byte, len(docs))
	for name, v := range docs {
		raw, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", name, err)
		}
		out[name] = raw
	}
	return out, nil
}

// DecodeDocuments rebuilds a snapshot from named documents.
// PRE: every backup.Documents name is present
// POST: collections are non-nil
func DecodeDocuments(docs map[string][]byte) (club.Snapshot, error) {
	var (
		db    dbDocument
		snap  club.Snapshot
		vis   []visitor.Visitor
		log   []activity.Entry
		notes []note.Note
	)
	targets := map[string]any{
		backup.DocDB:       &db,
		backup.DocSettings: &snap.Settings,
		backup.DocVisitors: &vis,
		backup.DocActivity: &log,
		backup.DocNotes:    &notes,
	}
	for _, name := range backup.Documents {
		raw, ok := docs[name]
		if !ok {
			return club.Snapshot{}, fmt.Errorf("document %s is missing", name)
		}
		if err := json.Unmarshal(raw, targets[name]); err != nil {
			return club.Snapshot{}, fmt.Errorf("decode %s: %w", name, err)
		}
	}
	snap.Players = nonNil(db.Players)
	snap.Visitors = nonNil(vis)
	snap.Activity = nonNil(log)
	snap.Notes = nonNil(notes)
	return snap, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
