package rest

import (
	"errors"
	"io"
	"net/http"

	"github.com/AnselZeng/vibe-filter/internal/core/domain"
	"github.com/AnselZeng/vibe-filter/internal/core/services"
)

const (
	// room for multipart boundaries and the track_id field on top of the file
	multipartOverhead = 1 << 20
	multipartMemory   = 32 << 20
)

// Generate handles POST /generate (multipart: image, track_id).
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, domain.MaxUploadBytes+multipartOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, "File too large. Maximum 10MB allowed.")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid multipart form data")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	result, err := h.svc.Generate(r.Context(), services.GenerateInput{
		Filename: header.Filename,
		Size:     header.Size,
		Data:     data,
		TrackID:  r.FormValue("track_id"),
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
