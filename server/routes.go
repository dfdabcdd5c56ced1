package server

import "net/http"

func (s *Server) initRoutes() {
	// UI pages
	s.RegisterRouteHandler("GET /{$}", ChainMiddleware(s.IndexHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("GET /login", ChainMiddleware(s.PageHandler("login.html"), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("GET /register", ChainMiddleware(s.PageHandler("register.html"), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("GET /dashboard", ChainMiddleware(s.PageHandler("dashboard.html"), s.HTMLMiddleware()...))

	s.RegisterRouteHandler("GET /health", ChainMiddleware(s.HealthHandler(), s.APIMiddleware()...))

	// Auth routes
	s.RegisterRouteHandler("POST /auth/register", ChainMiddleware(s.RegisterHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST /auth/login", ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST /auth/refresh", ChainMiddleware(s.RefreshHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST /auth/logout", ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET /auth/me", ChainMiddleware(s.MeHandler(), s.APIMiddleware(s.RequireAuth())...))

	// Task routes, all behind the access-token gate
	s.RegisterRouteHandler("GET /tasks", ChainMiddleware(s.TasksListHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("POST /tasks", ChainMiddleware(s.TaskCreateHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("GET /tasks/{id}", ChainMiddleware(s.TaskGetHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("PATCH /tasks/{id}", ChainMiddleware(s.TaskUpdateHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("PATCH /tasks/{id}/toggle", ChainMiddleware(s.TaskToggleHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("DELETE /tasks/{id}", ChainMiddleware(s.TaskDeleteHandler(), s.APIMiddleware(s.RequireAuth())...))

	// Everything else is a JSON 404
	s.mux.Handle("/", ChainMiddleware(s.NotFoundHandler(), s.APIMiddleware()...))
}

// HealthHandler reports liveness.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// NotFoundHandler handles unmatched routes.
func (s *Server) NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
	}
}
