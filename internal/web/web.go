// Package web renders the panel's HTML pages and carries the one-shot
// flash message between a redirect and the page that follows it.
//
// Templates are embedded in the binary so the deployable artifact stays
// a single file, same as the SQLite database keeps storage a single
// file.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer executes the embedded page templates by file name
// ("login.html", "index.html", ...).
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates. An error here is a build
// defect, so callers treat it as fatal at startup.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("web.NewRenderer: parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render executes the named template into w. The Content-Type header is
// set before the first body byte.
func (r *Renderer) Render(w http.ResponseWriter, name string, data any) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := r.tmpl.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("web.Render %s: %w", name, err)
	}
	return nil
}

const flashCookie = "flash"

// SetFlash stores a message shown once on the next rendered page.
// Redirect-then-render flows use it for "Student added successfully!"
// style confirmations.
func SetFlash(w http.ResponseWriter, message string) {
	http.SetCookie(w, &http.Cookie{
		Name: flashCookie,
		// Cookie values cannot carry spaces, so the message travels
		// query-escaped.
		Value:    url.QueryEscape(message),
		Path:     "/",
		HttpOnly: true,
	})
}

// PopFlash returns the pending flash message, if any, and clears it.
func PopFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	message, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return message
}
