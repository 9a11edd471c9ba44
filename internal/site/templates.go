package site

import (
	"embed"
	"fmt"
	"html/template"
)

// Template names.
const (
	IndexTemplate    = "index.html"
	WorkTemplate     = "work-content.html"
	ProjectsTemplate = "projects-content.html"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded page and fragment templates.
func Templates() (*template.Template, error) {
	t, err := template.New("").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("site.Templates: %w", err)
	}
	return t, nil
}
