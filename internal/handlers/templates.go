package handlers

import (
	"embed"
	"html/template"

	"storefront/internal/format"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the page templates. Pages are addressed by their
// define name ("home", "category", ...).
func Templates() (*template.Template, error) {
	return template.New("").
		Funcs(template.FuncMap{"won": format.Won}).
		ParseFS(templateFS, "templates/*.html")
}
