// Package web embeds the browser shell and renders the offline service worker.
package web

import (
	"bytes"
	"embed"
	"io/fs"
	"net/http"
	"strconv"
	"text/template"
)

// CacheName versions the offline asset cache. Bump it whenever an asset in
// Assets changes so that clients drop the old cache on activation.
const CacheName = "nomadcloset-v3"

// Assets is the fixed manifest the service worker installs.
var Assets = []string{
	"/",
	"/login",
	"/static/style.css",
	"/static/app.js",
	"/static/login.js",
	"/static/favicon.svg",
}

//go:embed static
var staticFiles embed.FS

//go:embed templates/sw.js.tmpl
var swSource string

var swTemplate = template.Must(template.New("sw.js").Funcs(template.FuncMap{
	"quote": strconv.Quote,
}).Parse(swSource))

// Static is the embedded asset tree rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// FileServer serves the embedded assets. Mount it under /static/ with the
// prefix stripped.
func FileServer() http.Handler {
	return http.FileServer(http.FS(Static()))
}

// RenderServiceWorker writes the service worker source for the given cache
// name and manifest.
func RenderServiceWorker(cacheName string, assets []string) ([]byte, error) {
	var buf bytes.Buffer
	err := swTemplate.Execute(&buf, struct {
		CacheName string
		Assets    []string
	}{cacheName, assets})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ServiceWorker serves /sw.js. The worker must not be cached by the browser
// or version bumps would never reach clients.
func ServiceWorker() http.HandlerFunc {
	body, err := RenderServiceWorker(CacheName, Assets)
	if err != nil {
		panic(err)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Service-Worker-Allowed", "/")
		w.Write(body)
	}
}

// Page serves one of the embedded HTML pages.
func Page(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := fs.ReadFile(Static(), name)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(data)
	}
}
