package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/proforma/internal/allocation"
	"github.com/sells-group/proforma/internal/catalog"
	"github.com/sells-group/proforma/internal/floor"
	"github.com/sells-group/proforma/internal/unittype"
)

const maxBody = 1 << 20

// fieldUpdate is the body of the generic PATCH endpoints.
type fieldUpdate struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("api: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeErr maps domain errors onto status codes. Anything unrecognized is
// treated as a bad request since every mutation error is caused by input.
func writeErr(w http.ResponseWriter, err error) {
	var verr *catalog.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "validation failed", Fields: verr.Fields})
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, floor.ErrFloorNotFound),
		errors.Is(err, floor.ErrSpaceNotFound),
		errors.Is(err, unittype.ErrNotFound),
		errors.Is(err, unittype.ErrUnknownCategory),
		errors.Is(err, allocation.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, floor.ErrFloorCollision),
		errors.Is(err, floor.ErrNoRoom),
		errors.Is(err, catalog.ErrDuplicateID):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, eris.Wrap(err, "api: invalid request body").Error())
		return false
	}
	return true
}

func floorParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "api: floor number must be an integer")
		return 0, false
	}
	return n, true
}

func boolQuery(r *http.Request, name string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return b
}
