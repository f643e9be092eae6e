package web

import (
	"net/http"
	"strings"

	"clubhouse/internal/application/listutil"
	"clubhouse/internal/application/orchestrators"
	"clubhouse/internal/application/projections"
	"clubhouse/internal/domain/activity"
	"clubhouse/internal/domain/settings"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap.Settings)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var body settings.Settings
	if !decodeBody(w, r, &body) {
		return
	}
	updated, err := orchestrators.ExecuteUpdateSettings(r.Context(), body,
		orchestrators.UpdateSettingsDeps{Store: s.deps.Store})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := projections.QueryGetOverview(r.Context(), projections.GetOverviewQuery{
		YearKey:  strings.TrimSpace(q.Get("yearKey")),
		MonthKey: strings.TrimSpace(q.Get("monthKey")),
	}, projections.GetOverviewDeps{Store: s.deps.Store, Now: s.deps.Now, Today: s.today})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleObligations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := projections.QueryGetObligations(r.Context(), projections.GetObligationsQuery{
		YearKey:  strings.TrimSpace(q.Get("yearKey")),
		MonthKey: strings.TrimSpace(q.Get("monthKey")),
		Search:   strings.TrimSpace(q.Get("q")),
	}, projections.GetObligationsDeps{Store: s.deps.Store, Now: s.deps.Now, Today: s.today})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dates, err := listutil.ParseDateRange(q, s.deps.Location)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	filters := listutil.ParseFilterParams(q, []string{"type"})
	result, err := projections.QueryListActivity(r.Context(), projections.ListActivityQuery{
		Filter: activity.Filter{
			Type:  filters.Filters["type"],
			Query: filters.Search,
			From:  dates.From,
			To:    dates.To,
		},
		Page: listutil.ParsePageParams(q),
	}, projections.ListActivityDeps{Store: s.deps.Store})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
