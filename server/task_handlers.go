package server

import (
	"encoding/json"
	"net/http"

	"github.com/jrsteele09/go-todo-server/tasks"
)

// TasksListHandler returns one page of the caller's tasks.
func (s *Server) TasksListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": msgAuthRequired})
			return
		}

		query := r.URL.Query()
		filter, err := tasks.ParseListFilter(query.Get("page"), query.Get("limit"), query.Get("status"), query.Get("search"))
		if err != nil {
			s.respondError(w, r, tasks.FieldErrors{"query": {err.Error()}})
			return
		}

		page, err := s.tasks.List(r.Context(), claims.UserID, filter)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, page)
	}
}

// TaskCreateHandler adds a task for the caller.
func (s *Server) TaskCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": msgAuthRequired})
			return
		}

		var req struct {
			Title string `json:"title"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON body"})
			return
		}

		task, err := s.tasks.Create(r.Context(), claims.UserID, req.Title)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, task)
	}
}

// TaskGetHandler returns a single task owned by the caller.
func (s *Server) TaskGetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": msgAuthRequired})
			return
		}

		task, err := s.tasks.Get(r.Context(), claims.UserID, r.PathValue("id"))
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, task)
	}
}

// TaskUpdateHandler applies a partial update. Absent fields are left
// unchanged.
func (s *Server) TaskUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": msgAuthRequired})
			return
		}

		var req struct {
			Title     *string `json:"title"`
			Completed *bool   `json:"completed"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON body"})
			return
		}

		task, err := s.tasks.Update(r.Context(), claims.UserID, r.PathValue("id"), req.Title, req.Completed)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, task)
	}
}

// TaskToggleHandler flips the completed flag.
func (s *Server) TaskToggleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": msgAuthRequired})
			return
		}

		task, err := s.tasks.Toggle(r.Context(), claims.UserID, r.PathValue("id"))
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, task)
	}
}

// TaskDeleteHandler removes a task owned by the caller.
func (s *Server) TaskDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": msgAuthRequired})
			return
		}

		if err := s.tasks.Delete(r.Context(), claims.UserID, r.PathValue("id")); err != nil {
			s.respondError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
