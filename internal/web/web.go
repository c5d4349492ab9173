package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"os"
)

//go:embed assets/templates/*.html assets/static/*
var content embed.FS

// PageData is the data rendered into the index template.
type PageData struct {
	Title       string
	MapboxToken string
	Locations   any // JSON-marshalled into the page
}

// Renderer renders the index page. It is safe for concurrent use.
type Renderer struct {
	index       *template.Template
	title       string
	mapboxToken string
}

// NewRenderer parses the embedded index template.
func NewRenderer(title, mapboxToken string) (*Renderer, error) {
	tmpl, err := template.ParseFS(content, "assets/templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parsing index template: %w", err)
	}
	return &Renderer{index: tmpl, title: title, mapboxToken: mapboxToken}, nil
}

// RenderIndex writes the map page with locations inlined.
func (r *Renderer) RenderIndex(w io.Writer, locations any) error {
	return r.index.Execute(w, PageData{
		Title:       r.title,
		MapboxToken: r.mapboxToken,
		Locations:   locations,
	})
}

// StaticHandler serves the page assets. When dir names an existing
// directory, files come from disk; otherwise the embedded copy is used.
// Mount it with the URL prefix stripped.
func StaticHandler(dir string) http.Handler {
	var fileSystem http.FileSystem

	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			fileSystem = http.Dir(dir)
		}
	}

	if fileSystem == nil {
		staticFS, err := fs.Sub(content, "assets/static")
		if err != nil {
			panic(fmt.Sprintf("web: failed to load embedded assets: %v", err))
		}
		fileSystem = http.FS(staticFS)
	}

	fileServer := http.FileServer(fileSystem)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Assets are not content-hashed.
		w.Header().Set("Cache-Control", "no-cache, must-revalidate")
		fileServer.ServeHTTP(w, r)
	})
}
