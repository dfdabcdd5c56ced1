package server

import (
	"embed"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

// ParseTemplate parses one embedded page template.
func ParseTemplate(name string) (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/"+name)
}

// IndexHandler renders the landing page.
func (s *Server) IndexHandler() http.HandlerFunc {
	return s.PageHandler("index.html")
}

// PageHandler renders one embedded page. Templates are parsed once at
// startup; a malformed template is a programming error, so panic.
func (s *Server) PageHandler(name string) http.HandlerFunc {
	tmpl, err := ParseTemplate(name)
	if err != nil {
		panic("Failed to parse template " + name + ": " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		data := map[string]interface{}{
			"AppName": s.config.AppName,
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			s.log.Error().Err(err).Str("template", name).Msg("render failed")
		}
	}
}
