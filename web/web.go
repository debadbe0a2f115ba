// Package web holds the server-rendered views.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin/render"

	"libraryhub/internal/http-api/service"
)

//go:embed templates/*.html
var files embed.FS

const layoutFile = "templates/layout.html"

// Renderer is a gin HTMLRender with one template set per page, each page
// parsed together with the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

var _ render.HTMLRender = (*Renderer)(nil)

// Templates parses every page under templates/. Page names are file names
// without the extension, e.g. "books".
func Templates() (*Renderer, error) {
	layout, err := template.New("layout.html").Funcs(funcs()).ParseFS(files, layoutFile)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	entries, err := fs.Glob(files, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(entries))}
	for _, file := range entries {
		if file == layoutFile {
			continue
		}
		t, err := template.Must(layout.Clone()).ParseFS(files, file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		r.pages[strings.TrimSuffix(path.Base(file), ".html")] = t
	}
	return r, nil
}

func (r *Renderer) Instance(name string, data any) render.Render {
	t, ok := r.pages[name]
	if !ok {
		t = r.pages["error"]
		data = map[string]any{"Code": 500, "Message": "unknown page " + name}
	}
	return render.HTML{Template: t, Name: "layout.html", Data: data}
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"money": service.FormatMoney,
		"dict":  dict,
		"date": func(t any) string {
			switch v := t.(type) {
			case time.Time:
				if v.IsZero() {
					return ""
				}
				return v.Format("2006-01-02")
			case *time.Time:
				if v == nil || v.IsZero() {
					return ""
				}
				return v.Format("2006-01-02")
			}
			return ""
		},
	}
}

// dict builds a map from alternating keys and values for passing to a sub-template.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}
