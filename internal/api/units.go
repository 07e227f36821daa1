package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sells-group/proforma/internal/unittype"
)

type unitTypeView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	TypicalSize float64 `json:"typicalSize"`
	Count       int     `json:"count"`
	Description string  `json:"description"`
	Color       string  `json:"color"`
	Allocated   int     `json:"allocated"`
	Floors      []int   `json:"floors"`
}

func (s *Server) listCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.project.Units.Categories())
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name        string `json:"name"`
		Color       string `json:"color"`
		Description string `json:"description"`
	}
	if !decode(w, r, &body) {
		return
	}
	if !s.project.AddCategory(r.Context(), body.Name, body.Color, body.Description) {
		writeError(w, http.StatusConflict, "unittype: category exists or name is blank")
		return
	}
	c, _ := s.project.Units.Category(body.Name)
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if _, ok := s.project.Units.Category(name); !ok {
		writeErr(w, unittype.ErrUnknownCategory)
		return
	}
	removed := s.project.RemoveCategory(r.Context(), name)
	writeJSON(w, http.StatusOK, map[string][]string{"removedUnitTypes": removed})
}

func (s *Server) undoRemoveCategory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"restored": s.project.UndoRemoveCategory(r.Context())})
}

func (s *Server) listUnitTypes(w http.ResponseWriter, _ *http.Request) {
	uts := s.project.Units.UnitTypes()
	out := make([]unitTypeView, len(uts))
	for i, ut := range uts {
		st := s.project.Ledger.Stats(ut.ID)
		out[i] = unitTypeView{
			ID: ut.ID, Name: ut.Name, Category: ut.Category,
			TypicalSize: ut.TypicalSize, Count: ut.Count,
			Description: ut.Description, Color: ut.Color,
			Allocated: st.TotalAllocated, Floors: st.Floors,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getUnitType(w http.ResponseWriter, r *http.Request) {
	ut, ok := s.project.UnitType(chi.URLParam(r, "id"))
	if !ok {
		writeErr(w, unittype.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, ut)
}

func (s *Server) createUnitType(w http.ResponseWriter, r *http.Request) {
	id := s.project.AddUnitType(r.Context())
	if id == "" {
		writeError(w, http.StatusConflict, "unittype: add a category first")
		return
	}
	ut, _ := s.project.UnitType(id)
	writeJSON(w, http.StatusCreated, ut)
}

func (s *Server) updateUnitType(w http.ResponseWriter, r *http.Request) {
	var body fieldUpdate
	if !decode(w, r, &body) {
		return
	}
	id := chi.URLParam(r, "id")
	if err := s.project.UpdateUnitType(r.Context(), id, body.Field, body.Value); err != nil {
		writeErr(w, err)
		return
	}
	ut, _ := s.project.UnitType(id)
	writeJSON(w, http.StatusOK, ut)
}

func (s *Server) deleteUnitType(w http.ResponseWriter, r *http.Request) {
	if !s.project.RemoveUnitType(r.Context(), chi.URLParam(r, "id")) {
		writeErr(w, unittype.ErrNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
