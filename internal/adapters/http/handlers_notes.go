package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"clubhouse/internal/application/listutil"
	"clubhouse/internal/application/orchestrators"
	"clubhouse/internal/application/projections"
	"clubhouse/internal/domain/note"
)

type createNoteBody struct {
	Text   string `json:"text"`
	Pinned bool   `json:"pinned"`
	Tag    string `json:"tag"`
}

type updateNoteBody struct {
	Text   *string `json:"text"`
	Pinned *bool   `json:"pinned"`
	Tag    *string `json:"tag"`
}

func (s *Server) noteDeps() orchestrators.NoteDeps {
	return orchestrators.NoteDeps{Store: s.deps.Store, GenerateID: s.deps.GenerateID, Now: s.deps.Now}
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dates, err := listutil.ParseDateRange(q, s.deps.Location)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	filters := listutil.ParseFilterParams(q, nil)
	result, err := projections.QueryListNotes(r.Context(), projections.ListNotesQuery{
		Filter: note.Filter{Query: filters.Search, From: dates.From, To: dates.To},
		Page:   listutil.ParsePageParams(q),
	}, projections.ListNotesDeps{Store: s.deps.Store})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var body createNoteBody
	if !decodeBody(w, r, &body) {
		return
	}
	n, err := orchestrators.ExecuteCreateNote(r.Context(), orchestrators.CreateNoteInput{
		Text:   body.Text,
		Pinned: body.Pinned,
		Tag:    body.Tag,
	}, s.noteDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	var body updateNoteBody
	if !decodeBody(w, r, &body) {
		return
	}
	n, err := orchestrators.ExecuteUpdateNote(r.Context(), orchestrators.UpdateNoteInput{
		NoteID: chi.URLParam(r, "id"),
		Text:   body.Text,
		Pinned: body.Pinned,
		Tag:    body.Tag,
	}, s.noteDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteDeleteNote(r.Context(), chi.URLParam(r, "id"), s.noteDeps()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}
