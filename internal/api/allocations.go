package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/proforma/internal/allocation"
	"github.com/sells-group/proforma/internal/project"
	"github.com/sells-group/proforma/internal/report"
	"github.com/sells-group/proforma/internal/suggest"
	"github.com/sells-group/proforma/internal/unittype"
)

func (s *Server) listAllocations(w http.ResponseWriter, r *http.Request) {
	if id := r.URL.Query().Get("unitTypeId"); id != "" {
		writeJSON(w, http.StatusOK, s.project.Ledger.ForUnitType(id))
		return
	}
	writeJSON(w, http.StatusOK, s.project.Allocations())
}

// allocateStatus is 201 when written, 409 when the floor is short on room and
// the request was not forced.
func allocateStatus(res project.AllocateResult) int {
	if res.Committed {
		return http.StatusCreated
	}
	return http.StatusConflict
}

func (s *Server) createAllocation(w http.ResponseWriter, r *http.Request) {
	var req project.AllocateRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := s.project.Allocate(r.Context(), req, boolQuery(r, "force"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, allocateStatus(res), res)
}

func (s *Server) resizeAllocation(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Count int `json:"count"`
	}
	if !decode(w, r, &body) {
		return
	}
	res, err := s.project.ResizeAllocation(r.Context(), chi.URLParam(r, "id"), body.Count, boolQuery(r, "force"))
	if err != nil {
		writeErr(w, err)
		return
	}
	status := allocateStatus(res)
	if status == http.StatusCreated {
		status = http.StatusOK
	}
	writeJSON(w, status, res)
}

func (s *Server) updateAllocation(w http.ResponseWriter, r *http.Request) {
	var body fieldUpdate
	if !decode(w, r, &body) {
		return
	}
	id := chi.URLParam(r, "id")
	if err := s.project.UpdateAllocation(r.Context(), id, body.Field, body.Value); err != nil {
		writeErr(w, err)
		return
	}
	a, _ := s.project.Ledger.Get(id)
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) deleteAllocation(w http.ResponseWriter, r *http.Request) {
	if !s.project.RemoveAllocation(r.Context(), chi.URLParam(r, "id")) {
		writeErr(w, allocation.ErrNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) suggestAllocations(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TargetCount int   `json:"targetCount"`
		Floors      []int `json:"floors"`
	}
	if !decode(w, r, &body) {
		return
	}
	id := chi.URLParam(r, "id")
	if _, ok := s.project.UnitType(id); !ok {
		writeErr(w, unittype.ErrNotFound)
		return
	}
	out := s.project.Suggest(id, body.TargetCount, body.Floors)
	if out == nil {
		out = []suggest.Suggestion{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) commitSuggestions(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Suggestions []suggest.Suggestion `json:"suggestions"`
	}
	if !decode(w, r, &body) {
		return
	}
	res, err := s.project.CommitSuggestions(r.Context(), chi.URLParam(r, "id"), body.Suggestions)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) getSummary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"floors": s.project.FloorSummaries(),
		"totals": s.project.Totals(),
	})
}

func (s *Server) postExport(w http.ResponseWriter, r *http.Request) {
	if s.sink == nil {
		writeError(w, http.StatusServiceUnavailable, "api: export is not configured")
		return
	}
	loc, err := report.Export(r.Context(), s.project, s.sink, s.now())
	if err != nil {
		writeError(w, http.StatusBadGateway, eris.Wrap(err, "api: export").Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"location": loc})
}
