// Package render adapts html/template to echo's Renderer interface over the
// embedded template set.
package render

import (
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"

	"webbase/web"
)

// Renderer renders the embedded HTML templates.
type Renderer struct {
	templates *template.Template
}

// New parses every embedded template once at startup.
func New() (*Renderer, error) {
	templates, err := template.ParseFS(web.FS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{templates: templates}, nil
}

// Render implements echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
