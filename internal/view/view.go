// Package view renders the storefront pages. Templates are embedded into
// the binary and exposed through echo's Renderer interface; handlers only
// name a template and hand over page data.
package view

import (
	"embed"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var files embed.FS

type Renderer struct {
	templates *template.Template
}

func New() (*Renderer, error) {
	funcs := template.FuncMap{
		"price": func(cents int) float64 { return float64(cents) / 100 },
	}

	t, err := template.New("").Funcs(funcs).ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: t}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
