package rest

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/AnselZeng/vibe-filter/internal/core/services"
)

// SearchTracks handles GET /search?query=...&limit=...
func (h *Handler) SearchTracks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", services.MaxSearchLimit))
			return
		}
		limit = n
	}

	tracks, err := h.svc.Search(r.Context(), q.Get("query"), limit)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}
