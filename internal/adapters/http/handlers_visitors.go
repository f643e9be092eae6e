package web

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"clubhouse/internal/application/orchestrators"
	"clubhouse/internal/application/projections"
	"clubhouse/internal/domain/member"
	"clubhouse/internal/domain/money"
	"clubhouse/internal/domain/visitor"
)

type visitorBody struct {
	Name     string `json:"name"`
	Nickname string `json:"nickname"`
	Notes    string `json:"notes"`
}

type visitorPaymentBody struct {
	SessionDate string      `json:"sessionDate"`
	Paid        money.Input `json:"paid"`
}

type visitorStatsBody struct {
	Yellow     money.Input    `json:"yellow"`
	Red        money.Input    `json:"red"`
	Discipline disciplineBody `json:"discipline"`
}

type promoteBody struct {
	Position string `json:"position"`
}

type promoteResponse struct {
	OK     bool          `json:"ok"`
	Player member.Member `json:"player"`
}

func (s *Server) visitorDeps() orchestrators.VisitorDeps {
	return orchestrators.VisitorDeps{Store: s.deps.Store, GenerateID: s.deps.GenerateID, Now: s.deps.Now}
}

func (s *Server) handleListVisitors(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r)
	if err != nil {
		internalError(w, err)
		return
	}
	visitors := snap.Visitors
	if visitors == nil {
		visitors = []visitor.Visitor{}
	}
	writeJSON(w, http.StatusOK, visitors)
}

func (s *Server) handleCreateVisitor(w http.ResponseWriter, r *http.Request) {
	var body visitorBody
	if !decodeBody(w, r, &body) {
		return
	}
	v, err := orchestrators.ExecuteCreateVisitor(r.Context(), orchestrators.VisitorInput{
		Name:     body.Name,
		Nickname: body.Nickname,
		Notes:    body.Notes,
	}, s.visitorDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (s *Server) handleUpdateVisitor(w http.ResponseWriter, r *http.Request) {
	var body visitorBody
	if !decodeBody(w, r, &body) {
		return
	}
	v, err := orchestrators.ExecuteUpdateVisitor(r.Context(), orchestrators.VisitorInput{
		ID:       chi.URLParam(r, "id"),
		Name:     body.Name,
		Nickname: body.Nickname,
		Notes:    body.Notes,
	}, s.visitorDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleDeleteVisitor(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteDeleteVisitor(r.Context(), chi.URLParam(r, "id"), s.visitorDeps()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (s *Server) handleRecordVisitorPayment(w http.ResponseWriter, r *http.Request) {
	var body visitorPaymentBody
	if !decodeBody(w, r, &body) {
		return
	}
	v, err := orchestrators.ExecuteRecordVisitorPayment(r.Context(), orchestrators.RecordVisitorPaymentInput{
		VisitorID:   chi.URLParam(r, "id"),
		SessionDate: strings.TrimSpace(body.SessionDate),
		Paid:        body.Paid.Or(money.Zero),
	}, s.visitorDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleUpdateVisitorStats(w http.ResponseWriter, r *http.Request) {
	var body visitorStatsBody
	if !decodeBody(w, r, &body) {
		return
	}
	v, err := orchestrators.ExecuteUpdateVisitorStats(r.Context(), orchestrators.UpdateVisitorStatsInput{
		VisitorID:  chi.URLParam(r, "id"),
		Yellow:     count(body.Yellow),
		Red:        count(body.Red),
		YellowPaid: count(body.Discipline.YellowPaid),
		RedPaid:    count(body.Discipline.RedPaid),
	}, s.visitorDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleRecordVisitorAttendance(w http.ResponseWriter, r *http.Request) {
	var body recordAttendanceBody
	if !decodeBody(w, r, &body) {
		return
	}
	err := orchestrators.ExecuteRecordVisitorAttendance(r.Context(), body.input(chi.URLParam(r, "date")),
		orchestrators.RecordAttendanceDeps{Store: s.deps.Store, Today: s.today})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (s *Server) handlePromoteVisitor(w http.ResponseWriter, r *http.Request) {
	var body promoteBody
	if !decodeBody(w, r, &body) {
		return
	}
	m, err := orchestrators.ExecutePromoteVisitor(r.Context(), orchestrators.PromoteVisitorInput{
		VisitorID: chi.URLParam(r, "id"),
		Position:  body.Position,
	}, s.visitorDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, promoteResponse{OK: true, Player: m})
}

func (s *Server) handleVisitorObligations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := projections.QueryGetVisitorObligations(r.Context(), projections.GetVisitorObligationsQuery{
		SessionDate: strings.TrimSpace(q.Get("sessionDate")),
		Search:      strings.TrimSpace(q.Get("q")),
	}, projections.GetVisitorObligationsDeps{Store: s.deps.Store, Today: s.today})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
