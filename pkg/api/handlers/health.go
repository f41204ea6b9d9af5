package handlers

import (
	"net/http"
	"os"

	"github.com/marmos91/dittoserve/pkg/static"
)

// HealthHandler handles the health probe endpoints.
//
//   - Liveness: is the process serving HTTP?
//   - Readiness: is the document root present and a directory?
type HealthHandler struct {
	files *static.Handler
}

// NewHealthHandler creates a health handler. files may be nil, in which
// case readiness always fails.
func NewHealthHandler(files *static.Handler) *HealthHandler {
	return &HealthHandler{files: files}
}

// Liveness handles GET /health.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthyResponse(map[string]string{
		"service": "dittoserve",
	}))
}

// Readiness handles GET /health/ready. It answers 503 until the document
// root can be stat'ed as a directory.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.files == nil || h.files.Root() == nil {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("static root not configured"))
		return
	}

	root := h.files.Root().Path()
	info, err := os.Stat(root)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("static root unavailable: "+err.Error()))
		return
	}
	if !info.IsDir() {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("static root is not a directory"))
		return
	}

	writeJSON(w, http.StatusOK, healthyResponse(map[string]any{
		"root": root,
	}))
}
