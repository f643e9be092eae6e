package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"clubhouse/internal/application/orchestrators"
	"clubhouse/internal/application/projections"
	"clubhouse/internal/domain/member"
	"clubhouse/internal/domain/money"
)

type createPlayerBody struct {
	Name            string `json:"name"`
	Nickname        string `json:"nickname"`
	Position        string `json:"position"`
	Email           string `json:"email"`
	JerseyNumber    *int   `json:"jerseyNumber"`
	MemberSinceYear *int   `json:"memberSinceYear"`
}

type updatePlayerBody struct {
	Name            *string     `json:"name"`
	Nickname        *string     `json:"nickname"`
	Position        *string     `json:"position"`
	Email           *string     `json:"email"`
	JerseyNumber    nullableInt `json:"jerseyNumber"`
	MemberSinceYear *int        `json:"memberSinceYear"`
}

type paymentAmountsBody struct {
	Expected money.Input `json:"expected"`
	Paid     money.Input `json:"paid"`
}

func (b *paymentAmountsBody) amounts() *orchestrators.PaymentAmounts {
	if b == nil {
		return nil
	}
	out := &orchestrators.PaymentAmounts{Paid: b.Paid.Or(money.Zero)}
	if b.Expected.Set {
		v := b.Expected.Value
		out.Expected = &v
	}
	return out
}

type recordPaymentBody struct {
	YearKey  string              `json:"yearKey"`
	MonthKey string              `json:"monthKey"`
	Yearly   *paymentAmountsBody `json:"yearly"`
	Monthly  *paymentAmountsBody `json:"monthly"`
}

type recordPaymentResponse struct {
	Player  member.Member         `json:"player"`
	Summary member.PaymentSummary `json:"summary"`
}

type disciplineBody struct {
	YellowPaid money.Input `json:"yellowPaid"`
	RedPaid    money.Input `json:"redPaid"`
}

type updateStatsBody struct {
	Goals      money.Input    `json:"goals"`
	Assists    money.Input    `json:"assists"`
	Yellow     money.Input    `json:"yellow"`
	Red        money.Input    `json:"red"`
	Discipline disciplineBody `json:"discipline"`
}

func (s *Server) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r)
	if err != nil {
		internalError(w, err)
		return
	}
	players := snap.Players
	if players == nil {
		players = []member.Member{}
	}
	writeJSON(w, http.StatusOK, players)
}

func (s *Server) handleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	var body createPlayerBody
	if !decodeBody(w, r, &body) {
		return
	}
	m, err := orchestrators.ExecuteRegisterMember(r.Context(), orchestrators.RegisterMemberInput{
		Name:            body.Name,
		Nickname:        body.Nickname,
		Position:        body.Position,
		Email:           body.Email,
		JerseyNumber:    body.JerseyNumber,
		MemberSinceYear: body.MemberSinceYear,
	}, orchestrators.RegisterMemberDeps{Store: s.deps.Store, GenerateID: s.deps.GenerateID, Now: s.deps.Now})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := projections.QueryGetMemberProfile(r.Context(), projections.GetMemberProfileQuery{
		MemberID: chi.URLParam(r, "id"),
		YearKey:  strings.TrimSpace(q.Get("yearKey")),
		MonthKey: strings.TrimSpace(q.Get("monthKey")),
	}, projections.GetMemberProfileDeps{Store: s.deps.Store, Now: s.deps.Now, Today: s.today})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleUpdatePlayer(w http.ResponseWriter, r *http.Request) {
	var body updatePlayerBody
	if !decodeBody(w, r, &body) {
		return
	}
	input := orchestrators.UpdateMemberInput{
		MemberID:        chi.URLParam(r, "id"),
		Name:            body.Name,
		Nickname:        body.Nickname,
		Position:        body.Position,
		Email:           body.Email,
		MemberSinceYear: body.MemberSinceYear,
	}
	if body.JerseyNumber.Set {
		input.JerseyNumber = body.JerseyNumber.Value
		input.ClearJersey = body.JerseyNumber.Value == nil
	}
	m, err := orchestrators.ExecuteUpdateMember(r.Context(), input,
		orchestrators.UpdateMemberDeps{Store: s.deps.Store, Now: s.deps.Now})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleDeletePlayer(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteDeleteMember(r.Context(),
		orchestrators.DeleteMemberInput{MemberID: chi.URLParam(r, "id")},
		orchestrators.DeleteMemberDeps{Store: s.deps.Store, GenerateID: s.deps.GenerateID, Now: s.deps.Now})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (s *Server) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	var body recordPaymentBody
	if !decodeBody(w, r, &body) {
		return
	}
	result, err := orchestrators.ExecuteRecordPayment(r.Context(), orchestrators.RecordPaymentInput{
		MemberID: chi.URLParam(r, "id"),
		YearKey:  strings.TrimSpace(body.YearKey),
		MonthKey: strings.TrimSpace(body.MonthKey),
		Yearly:   body.Yearly.amounts(),
		Monthly:  body.Monthly.amounts(),
	}, orchestrators.RecordPaymentDeps{Store: s.deps.Store, GenerateID: s.deps.GenerateID, Now: s.deps.Now})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recordPaymentResponse{Player: result.Member, Summary: result.Summary})
}

func (s *Server) handleUpdateStats(w http.ResponseWriter, r *http.Request) {
	var body updateStatsBody
	if !decodeBody(w, r, &body) {
		return
	}
	m, err := orchestrators.ExecuteUpdateStats(r.Context(), orchestrators.UpdateStatsInput{
		MemberID:   chi.URLParam(r, "id"),
		Goals:      count(body.Goals),
		Assists:    count(body.Assists),
		Yellow:     count(body.Yellow),
		Red:        count(body.Red),
		YellowPaid: count(body.Discipline.YellowPaid),
		RedPaid:    count(body.Discipline.RedPaid),
	}, orchestrators.UpdateStatsDeps{Store: s.deps.Store, GenerateID: s.deps.GenerateID, Now: s.deps.Now})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

type attendanceUpdateBody struct {
	ID      string `json:"id"`
	Present bool   `json:"present"`
}

type recordAttendanceBody struct {
	Updates []attendanceUpdateBody `json:"updates"`
}

func (b recordAttendanceBody) input(date string) orchestrators.RecordAttendanceInput {
	in := orchestrators.RecordAttendanceInput{Date: date}
	if b.Updates != nil {
		in.Updates = make([]orchestrators.AttendanceUpdate, 0, len(b.Updates))
	}
	for _, u := range b.Updates {
		in.Updates = append(in.Updates, orchestrators.AttendanceUpdate{ID: u.ID, Present: u.Present})
	}
	return in
}

func (s *Server) handleRecordAttendance(w http.ResponseWriter, r *http.Request) {
	var body recordAttendanceBody
	if !decodeBody(w, r, &body) {
		return
	}
	err := orchestrators.ExecuteRecordAttendance(r.Context(), body.input(chi.URLParam(r, "date")),
		orchestrators.RecordAttendanceDeps{Store: s.deps.Store, Today: s.today})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (s *Server) handleAttendanceSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rng := projections.DefaultSummaryRange
	if raw := strings.TrimSpace(q.Get("range")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "range must be a non-negative integer", http.StatusBadRequest)
			return
		}
		rng = n
	}
	result, err := projections.QueryGetAttendanceSummary(r.Context(), projections.GetAttendanceSummaryQuery{
		Range:  rng,
		Search: strings.TrimSpace(q.Get("q")),
	}, projections.GetAttendanceSummaryDeps{Store: s.deps.Store, Today: s.today})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
