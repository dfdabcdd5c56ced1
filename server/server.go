// Package server wires the HTTP surface: routing, middleware, the JSON
// handlers for auth and tasks, and the small server-rendered UI.
package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-todo-server/auth"
	"github.com/jrsteele09/go-todo-server/internal/config"
	"github.com/jrsteele09/go-todo-server/tasks"
	"github.com/jrsteele09/go-todo-server/token"
	"github.com/rs/zerolog"
)

type Server struct {
	env    string // Environment (e.g., "DEV", "PROD")
	mux    *http.ServeMux
	routes []string
	config config.Config
	log    zerolog.Logger

	codec *token.Codec
	auth  *auth.Service
	tasks *tasks.Service
}

func New(cfg config.Config, log zerolog.Logger, codec *token.Codec, authService *auth.Service, taskService *tasks.Service) (*Server, error) {
	if codec == nil {
		return nil, fmt.Errorf("[Server New] token codec is required")
	}
	if authService == nil {
		return nil, fmt.Errorf("[Server New] auth service is required")
	}
	if taskService == nil {
		return nil, fmt.Errorf("[Server New] task service is required")
	}

	s := &Server{
		env:    cfg.Env,
		mux:    http.NewServeMux(),
		config: cfg,
		log:    log,
		codec:  codec,
		auth:   authService,
		tasks:  taskService,
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			s.log.Debug().Str("method", parts[0]).Str("path", parts[1]).Msg("route")
		} else {
			s.log.Debug().Str("path", parts[0]).Msg("route")
		}
	}
}
