package web

import (
	"net/http"
	"strconv"
	"time"

	"clubhouse/internal/application/orchestrators"
	"clubhouse/internal/domain/member"
)

// Perf endpoint defaults.
const (
	defaultPerfWindow = 15 * time.Minute
	defaultPerfTopN   = 10
)

// resetBody requires every flag to be an explicit boolean.
type resetBody struct {
	Attendance      *bool `json:"attendance"`
	MonthlyPayments *bool `json:"monthlyPayments"`
	YearlyPayments  *bool `json:"yearlyPayments"`
	Stats           *bool `json:"stats"`
	DisciplinePaid  *bool `json:"disciplinePaid"`
}

func (b *resetBody) flags() (member.ResetFlags, bool) {
	if b == nil || b.Attendance == nil || b.MonthlyPayments == nil || b.YearlyPayments == nil ||
		b.Stats == nil || b.DisciplinePaid == nil {
		return member.ResetFlags{}, false
	}
	return member.ResetFlags{
		Attendance:      *b.Attendance,
		MonthlyPayments: *b.MonthlyPayments,
		YearlyPayments:  *b.YearlyPayments,
		Stats:           *b.Stats,
		DisciplinePaid:  *b.DisciplinePaid,
	}, true
}

type rolloverBody struct {
	NewSeasonYear int        `json:"newSeasonYear"`
	Reset         *resetBody `json:"reset"`
	Confirm       string     `json:"confirm"`
}

type resetSeasonBody struct {
	Reset   *resetBody `json:"reset"`
	Confirm string     `json:"confirm"`
}

type seasonResponse struct {
	OK bool `json:"ok"`
	orchestrators.SeasonResult
}

func (s *Server) seasonDeps() orchestrators.SeasonDeps {
	return orchestrators.SeasonDeps{
		Store:      s.deps.Store,
		Notifier:   s.deps.Notifier,
		GenerateID: s.deps.GenerateID,
		Now:        s.deps.Now,
	}
}

func (s *Server) handleRollover(w http.ResponseWriter, r *http.Request) {
	var body rolloverBody
	if !decodeBody(w, r, &body) {
		return
	}
	flags, ok := body.Reset.flags()
	if !ok {
		http.Error(w, "Reset flags must be boolean.", http.StatusBadRequest)
		return
	}
	result, err := orchestrators.ExecuteRollover(r.Context(), orchestrators.RolloverInput{
		NewSeasonYear: body.NewSeasonYear,
		Reset:         flags,
		Confirm:       body.Confirm,
	}, s.seasonDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, seasonResponse{OK: true, SeasonResult: result})
}

func (s *Server) handleResetSeason(w http.ResponseWriter, r *http.Request) {
	var body resetSeasonBody
	if !decodeBody(w, r, &body) {
		return
	}
	flags, ok := body.Reset.flags()
	if !ok {
		http.Error(w, "Reset flags must be boolean.", http.StatusBadRequest)
		return
	}
	result, err := orchestrators.ExecuteResetSeason(r.Context(), orchestrators.ResetSeasonInput{
		Reset:   flags,
		Confirm: body.Confirm,
	}, s.seasonDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, seasonResponse{OK: true, SeasonResult: result})
}

func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	manifest, err := orchestrators.ExecuteCreateBackup(r.Context(), orchestrators.CreateBackupDeps{Store: s.deps.Store})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "backup": manifest})
}

func (s *Server) handleMigrate(w http.ResponseWriter, r *http.Request) {
	result, err := orchestrators.ExecuteMigrate(r.Context(), orchestrators.MigrateDeps{Store: s.deps.Store})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "changed": result.Changed(), "result": result})
}

// handlePerf reports timing aggregates. minutes and top are optional.
func (s *Server) handlePerf(w http.ResponseWriter, r *http.Request) {
	if s.deps.Collector == nil {
		writeJSON(w, http.StatusNotFound, okResponse{OK: false})
		return
	}
	q := r.URL.Query()
	window := defaultPerfWindow
	if n, err := strconv.Atoi(q.Get("minutes")); err == nil && n > 0 {
		window = time.Duration(n) * time.Minute
	}
	topN := defaultPerfTopN
	if n, err := strconv.Atoi(q.Get("top")); err == nil && n > 0 {
		topN = n
	}
	writeJSON(w, http.StatusOK, s.deps.Collector.Snapshot(time.Now().Add(-window), topN))
}
