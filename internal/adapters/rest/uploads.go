package rest

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// ServeUpload handles GET /uploads/{name}. Only regular files directly inside
// the uploads directory are served.
func (h *Handler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" || strings.HasPrefix(name, ".") || name != filepath.Base(name) {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.uploadsDir, name)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, path)
}
