package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sells-group/proforma/internal/model"
)

func (s *Server) listTemplates(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.project.Templates.List())
}

func (s *Server) createTemplate(w http.ResponseWriter, r *http.Request) {
	var t model.FloorPlateTemplate
	if !decode(w, r, &t) {
		return
	}
	added, err := s.project.AddTemplate(r.Context(), t)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

func (s *Server) replaceTemplate(w http.ResponseWriter, r *http.Request) {
	var t model.FloorPlateTemplate
	if !decode(w, r, &t) {
		return
	}
	id := chi.URLParam(r, "id")
	if err := s.project.UpdateTemplate(r.Context(), id, t); err != nil {
		writeErr(w, err)
		return
	}
	updated, _ := s.project.Templates.Get(id)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteTemplate(w http.ResponseWriter, r *http.Request) {
	removed, refs := s.project.RemoveTemplate(r.Context(), chi.URLParam(r, "id"))
	if !removed {
		writeError(w, http.StatusNotFound, "catalog: template not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"removed":      true,
		"referencedBy": refs,
	})
}

// importTemplates takes a YAML template library as the raw body.
func (s *Server) importTemplates(w http.ResponseWriter, r *http.Request) {
	res, err := s.project.ImportTemplates(r.Context(), http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
