// Package view renders pages from embedded templates.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"dealership/internal/flash"
	"dealership/internal/models"
	"dealership/internal/validate"
)

// Data is everything a page template can see.
type Data struct {
	Title   string
	Nav     []models.Classification
	Flash   []flash.Message
	Errors  validate.Errors
	Profile *models.Profile
	// Values holds submitted or stored form fields by input name.
	Values map[string]string
	// Page carries the view specific payload.
	Page any
}

func (d Data) Value(name string) string { return d.Values[name] }

type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, d Data) error
}

//go:embed templates/*.html
var files embed.FS

// Templates is the html/template implementation of Renderer.
type Templates struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"price": func(p float64) string { return "$" + formatThousands(fmt.Sprintf("%.2f", p)) },
	"miles": func(m int) string { return formatThousands(fmt.Sprint(m)) },
}

func formatThousands(s string) string {
	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteString("." + frac)
	}
	return b.String()
}

// New parses the layout together with every page template.
func New() (*Templates, error) {
	names, err := fs.Glob(files, "templates/*.html")
	if err != nil {
		return nil, err
	}
	t := &Templates{pages: map[string]*template.Template{}}
	for _, n := range names {
		name := strings.TrimSuffix(strings.TrimPrefix(n, "templates/"), ".html")
		if name == "layout" {
			continue
		}
		tpl, err := template.New("layout.html").Funcs(funcs).ParseFS(files, "templates/layout.html", n)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", n, err)
		}
		t.pages[name] = tpl
	}
	return t, nil
}

// Render executes into a buffer first so a template failure never leaves a
// half written page behind.
func (t *Templates) Render(w http.ResponseWriter, status int, name string, d Data) error {
	tpl, ok := t.pages[name]
	if !ok {
		return fmt.Errorf("unknown view %q", name)
	}
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout", d); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
