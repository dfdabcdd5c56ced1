package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jrsteele09/go-todo-server/auth"
	"github.com/jrsteele09/go-todo-server/tasks"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// respondError maps a service error onto the wire. Validation and
// conflict errors serialize their field map; everything else carries a
// single message string. Internal causes are logged and never sent.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var fieldErrs tasks.FieldErrors
	if errors.As(err, &fieldErrs) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": fieldErrs})
		return
	}
	if errors.Is(err, tasks.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Task not found"})
		return
	}

	var authErr *auth.Error
	if errors.As(err, &authErr) {
		switch authErr.Kind {
		case auth.KindValidation, auth.KindConflict:
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": authErr.Fields})
			return
		case auth.KindUnauthorized:
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": authErr.Message})
			return
		case auth.KindNotFound:
			writeJSON(w, http.StatusNotFound, map[string]string{"error": authErr.Message})
			return
		}
	}

	s.log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
}
