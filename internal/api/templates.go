package api

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

func LoadTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		// percent formats a 0-100 value with one decimal place.
		"percent": func(v float64) string {
			return fmt.Sprintf("%.1f%%", v)
		},
	}

	return template.New("base").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}
