package main

import (
	"fmt"
	"html/template"
	"net/http"
	"os"

	"rvu-tracker/internal/middleware"
)

func resolveTemplatePath(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// Try going up two levels (for tests running from cmd/api)
		p2 := "../../" + path
		if _, err := os.Stat(p2); err == nil {
			return p2
		}
	}
	return path
}

var templateFuncs = template.FuncMap{
	"money": func(f float64) string { return fmt.Sprintf("$%.2f", f) },
	"rvu":   func(f float64) string { return fmt.Sprintf("%.2f", f) },
	"pct":   func(f float64) string { return fmt.Sprintf("%.0f%%", f*100) },
}

func (s *server) render(w http.ResponseWriter, r *http.Request, data interface{}, files ...string) {
	allFiles := []string{resolveTemplatePath("ui/templates/layout.html")}
	for _, f := range files {
		allFiles = append(allFiles, resolveTemplatePath(f))
	}

	tmpl, err := template.New("layout").Funcs(templateFuncs).ParseFiles(allFiles...)
	if err != nil {
		http.Error(w, "Template Parse Error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	wrapper := struct {
		Data      interface{}
		CSRFToken string
	}{
		Data:      data,
		CSRFToken: middleware.Token(r),
	}

	if err := tmpl.ExecuteTemplate(w, "layout", wrapper); err != nil {
		http.Error(w, "Template Execute Error: "+err.Error(), http.StatusInternalServerError)
	}
}
