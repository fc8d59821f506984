package api

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// staticSite serves an exported dashboard build. Extensionless routes resolve to
// "<route>.html" and unknown routes fall back to index.html.
type staticSite struct {
	root  string
	files http.Handler
}

func newStaticSite(root string) *staticSite {
	return &staticSite{
		root:  root,
		files: http.FileServer(http.Dir(root)),
	}
}

func (s *staticSite) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	clean := path.Clean("/" + r.URL.Path)

	switch {
	case s.exists(clean):
		s.files.ServeHTTP(w, r)
	case path.Ext(clean) == "" && s.exists(clean+".html"):
		s.serveFile(w, r, clean+".html")
	default:
		s.serveFile(w, r, "/index.html")
	}
}

func (s *staticSite) exists(name string) bool {
	full := filepath.Join(s.root, filepath.FromSlash(name))
	info, err := os.Stat(full)
	if err != nil {
		return false
	}
	if !info.IsDir() {
		return true
	}
	_, err = os.Stat(filepath.Join(full, "index.html"))
	return err == nil
}

// serveFile writes name without rewriting the request path, so the browser keeps its route.
func (s *staticSite) serveFile(w http.ResponseWriter, r *http.Request, name string) {
	http.ServeFile(w, r, filepath.Join(s.root, filepath.FromSlash(name)))
}
