package handlers

import (
	"net/http"
	"time"

	"github.com/rewear/backend/internal/models"
	"github.com/rewear/backend/internal/services"
)

const rootMessage = "Second-hand women's clothing backend is running"

type DiagnosticsHandler struct {
	diagnostics *services.DiagnosticsService
	timeout     time.Duration
}

func NewDiagnosticsHandler(diagnostics *services.DiagnosticsService, timeout time.Duration) *DiagnosticsHandler {
	return &DiagnosticsHandler{diagnostics: diagnostics, timeout: timeout}
}

func (h *DiagnosticsHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: rootMessage})
}

func (h *DiagnosticsHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// Test reports storage diagnostics. It always answers 200.
func (h *DiagnosticsHandler) Test(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r.Context(), h.timeout)
	defer cancel()

	writeJSON(w, http.StatusOK, h.diagnostics.Check(ctx))
}
