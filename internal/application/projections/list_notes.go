package projections

import (
	"bytes"
	"context"
	"html"
	"log/slog"
	"sort"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"clubhouse/internal/application/listutil"
	"clubhouse/internal/domain/club"
	"clubhouse/internal/domain/note"
)

// markdown renders note text. Raw HTML in the input is escaped because
// WithUnsafe is not set.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
	goldmark.WithRendererOptions(goldmarkHTML.WithHardWraps()),
)

// ListNotesQuery carries query parameters.
type ListNotesQuery struct {
	Filter note.Filter
	Page   listutil.PageParams
}

// NoteItem is a note with its rendered body.
type NoteItem struct {
	note.Note
	HTML string `json:"html"`
}

// ListNotesResult carries the query result.
type ListNotesResult struct {
	Items []NoteItem `json:"items"`
	listutil.PageInfo
}

// ListNotesDeps holds dependencies for ListNotes.
type ListNotesDeps struct {
	Store SnapshotReader
}

// QueryListNotes pages through notes, most recently touched first.
// POST: every item carries sanitized HTML
func QueryListNotes(ctx context.Context, query ListNotesQuery, deps ListNotesDeps) (ListNotesResult, error) {
	var matched []note.Note
	err := deps.Store.View(ctx, func(s club.Snapshot) error {
		for _, n := range s.Notes {
			if query.Filter.Matches(n) {
				matched = append(matched, n)
			}
		}
		return nil
	})
	if err != nil {
		return ListNotesResult{}, err
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Touched().After(matched[j].Touched()) })

	info := listutil.NewPageInfo(query.Page.Page, query.Page.Limit, len(matched))
	page := listutil.Slice(matched, info)
	items := make([]NoteItem, 0, len(page))
	for _, n := range page {
		items = append(items, NoteItem{Note: n, HTML: RenderMarkdown(n.Text)})
	}
	return ListNotesResult{Items: items, PageInfo: info}, nil
}

// RenderMarkdown converts note text to HTML, falling back to escaped text.
func RenderMarkdown(md string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		slog.Warn("note_event", "event", "markdown_render_failed", "error", err)
		return html.EscapeString(md)
	}
	return buf.String()
}
