package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "twpulse/internal/errors"
)

// SnapshotHandler exposes the raw fixed-universe snapshot document.
type SnapshotHandler struct {
	service      SnapshotServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewSnapshotHandler creates a new snapshot handler
func NewSnapshotHandler(service SnapshotServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *SnapshotHandler {
	return &SnapshotHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "snapshot_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the snapshot routes
func (h *SnapshotHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.GetSnapshot)
	r.Post("/refresh", h.RefreshSnapshot)

	return r
}

// GetSnapshot handles GET /api/snapshot
func (h *SnapshotHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Current()
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, snap)
}

// RefreshSnapshot handles POST /api/snapshot/refresh. The rebuild runs
// synchronously; a slow upstream surfaces as a slow response, bounded by the
// per-source fetch timeouts.
func (h *SnapshotHandler) RefreshSnapshot(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "manual snapshot refresh requested")
	snap := h.service.Refresh(r.Context())
	render.JSON(w, r, snap)
}
