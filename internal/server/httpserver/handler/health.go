package handler

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/yndnr/civ7save-go/internal/infra/buildinfo"
)

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.writeJSON(w, r, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: buildinfo.Get().Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	})
}
