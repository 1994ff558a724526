package view

import (
	"embed"
	"html/template"
)

// PageTemplate is the name controllers pass to gin's HTML renderer.
const PageTemplate = "page.tmpl"

//go:embed templates/*.tmpl
var templateFS embed.FS

// Templates parses the embedded page templates for gin's SetHTMLTemplate.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"price": FormatPrice,
	}).ParseFS(templateFS, "templates/*.tmpl")
}
