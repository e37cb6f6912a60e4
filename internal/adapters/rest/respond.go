package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AnselZeng/vibe-filter/internal/core/services"
)

// errorResponse keeps the {"detail": ...} shape the web client parses.
type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// statusFor maps service errors onto HTTP statuses.
func statusFor(err error) int {
	var genErr *services.GenerationError
	var catErr *services.CatalogError
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.As(err, &catErr):
		return http.StatusBadRequest
	case errors.As(err, &genErr):
		return genErr.Status
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	writeError(w, status, err.Error())
}
