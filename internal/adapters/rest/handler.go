package rest

import (
	"net/http"

	"github.com/hashicorp/go-hclog"
	"github.com/rs/cors"

	"github.com/AnselZeng/vibe-filter/internal/core/services"
)

const healthMessage = "Music-Inspired Image Stylization API is running"

// Handler manages the HTTP interface for our application.
type Handler struct {
	svc        *services.Orchestrator
	uploadsDir string
	log        hclog.Logger

	router  *http.ServeMux
	handler http.Handler // router wrapped in middleware
}

// NewHandler initializes the HTTP adapter and sets up routes. allowedOrigins
// feeds the CORS policy; uploadsDir is served read-only under /uploads/.
func NewHandler(svc *services.Orchestrator, uploadsDir string, allowedOrigins []string, log hclog.Logger) *Handler {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	h := &Handler{
		svc:        svc,
		uploadsDir: uploadsDir,
		log:        log,
		router:     http.NewServeMux(),
	}

	h.routes()

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
			http.MethodDelete, http.MethodHead, http.MethodOptions,
		},
		AllowedHeaders: []string{"*"},
	})
	h.handler = c.Handler(h.logRequests(h.router))

	return h
}

// ServeHTTP satisfies the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.handler.ServeHTTP(w, r)
}

func (h *Handler) routes() {
	h.router.HandleFunc("GET /health", h.HealthCheck)
	h.router.HandleFunc("GET /search", h.SearchTracks)
	h.router.HandleFunc("POST /generate", h.Generate)
	h.router.HandleFunc("GET /uploads/{name}", h.ServeUpload)
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "message": healthMessage})
}
