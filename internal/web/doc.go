// Package web serves the map page and its static assets.
//
// The page template and the JavaScript and CSS it loads are embedded into the
// binary with go:embed. The index page is rendered with the full location
// GeoJSON inlined as window.__locations__, so the map draws without a second
// request. html/template JSON-encodes the collection in the script context.
//
// StaticHandler can serve assets from a directory on disk instead, which
// avoids a rebuild while working on the front end.
package web
