package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sells-group/proforma/internal/floor"
	"github.com/sells-group/proforma/internal/model"
)

func (s *Server) listFloors(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.project.Floors.List())
}

func (s *Server) getFloor(w http.ResponseWriter, r *http.Request) {
	n, ok := floorParam(w, r)
	if !ok {
		return
	}
	f, found := s.project.Floors.Get(n)
	if !found {
		writeErr(w, floor.ErrFloorNotFound)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) createFloors(w http.ResponseWriter, r *http.Request) {
	var req floor.AddFloorsRequest
	if !decode(w, r, &req) {
		return
	}
	nums, err := s.project.AddFloors(r.Context(), req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string][]int{"floorNumbers": nums})
}

func (s *Server) updateFloor(w http.ResponseWriter, r *http.Request) {
	n, ok := floorParam(w, r)
	if !ok {
		return
	}
	var body fieldUpdate
	if !decode(w, r, &body) {
		return
	}
	if err := s.project.UpdateFloor(r.Context(), n, body.Field, body.Value); err != nil {
		writeErr(w, err)
		return
	}
	f, _ := s.project.Floors.Get(n)
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) bulkEditFloors(w http.ResponseWriter, r *http.Request) {
	var body struct {
		FloorNumbers []int  `json:"floorNumbers"`
		Field        string `json:"field"`
		Value        any    `json:"value"`
	}
	if !decode(w, r, &body) {
		return
	}
	if err := s.project.BulkEditFloors(r.Context(), body.FloorNumbers, body.Field, body.Value); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) copyFloor(w http.ResponseWriter, r *http.Request) {
	n, ok := floorParam(w, r)
	if !ok {
		return
	}
	var body struct {
		Targets []int `json:"targets"`
	}
	if !decode(w, r, &body) {
		return
	}
	if err := s.project.CopyFloor(r.Context(), n, body.Targets); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) removeFloors(w http.ResponseWriter, r *http.Request) {
	var body struct {
		FloorNumbers []int `json:"floorNumbers"`
	}
	if !decode(w, r, &body) {
		return
	}
	removed := s.project.RemoveFloors(r.Context(), body.FloorNumbers)
	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

func (s *Server) deleteFloor(w http.ResponseWriter, r *http.Request) {
	n, ok := floorParam(w, r)
	if !ok {
		return
	}
	if s.project.RemoveFloors(r.Context(), []int{n}) == 0 {
		writeErr(w, floor.ErrFloorNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) reorderFloor(w http.ResponseWriter, r *http.Request) {
	n, ok := floorParam(w, r)
	if !ok {
		return
	}
	var body struct {
		Direction floor.Direction `json:"direction"`
	}
	if !decode(w, r, &body) {
		return
	}
	moved, err := s.project.ReorderFloor(r.Context(), n, body.Direction)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"moved": moved})
}

func (s *Server) applyTemplate(w http.ResponseWriter, r *http.Request) {
	n, ok := floorParam(w, r)
	if !ok {
		return
	}
	if err := s.project.ApplyTemplateDefaults(r.Context(), n); err != nil {
		writeErr(w, err)
		return
	}
	f, _ := s.project.Floors.Get(n)
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) createSpace(w http.ResponseWriter, r *http.Request) {
	n, ok := floorParam(w, r)
	if !ok {
		return
	}
	var sp model.SpaceDefinition
	if !decode(w, r, &sp) {
		return
	}
	id, err := s.project.AddSpace(r.Context(), n, sp)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) updateSpace(w http.ResponseWriter, r *http.Request) {
	n, ok := floorParam(w, r)
	if !ok {
		return
	}
	var body fieldUpdate
	if !decode(w, r, &body) {
		return
	}
	if err := s.project.UpdateSpace(r.Context(), n, chi.URLParam(r, "spaceID"), body.Field, body.Value); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteSpace(w http.ResponseWriter, r *http.Request) {
	n, ok := floorParam(w, r)
	if !ok {
		return
	}
	if !s.project.RemoveSpace(r.Context(), n, chi.URLParam(r, "spaceID")) {
		writeErr(w, floor.ErrSpaceNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
