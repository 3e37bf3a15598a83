package handlers

import (
	"log/slog"
	"net/http"
	"path/filepath"
)

// StaticHandler serves the single-page game client from the configured
// static directory. Anything other than the root path is a 404 so API
// typos don't silently return HTML.
type StaticHandler struct {
	dir    string
	logger *slog.Logger
}

func NewStaticHandler(dir string, logger *slog.Logger) *StaticHandler {
	return &StaticHandler{
		dir:    dir,
		logger: logger,
	}
}

func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, filepath.Join(h.dir, "index.html"))
}
