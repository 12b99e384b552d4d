package handlers

import (
	"net/http"

	"github.com/bobmcallan/folio-dashboard/internal/common"
	"github.com/bobmcallan/folio-dashboard/internal/interfaces"
)

// SnapshotHandler serves the published snapshot and the derived dashboard view.
type SnapshotHandler struct {
	session interfaces.SessionService
	logger  *common.Logger
}

// NewSnapshotHandler creates a new snapshot handler.
func NewSnapshotHandler(session interfaces.SessionService, logger *common.Logger) *SnapshotHandler {
	return &SnapshotHandler{session: session, logger: logger}
}

// ServeHTTP handles GET /api/snapshot.
func (h *SnapshotHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, h.session.Snapshot())
}

// HandleDashboard handles GET /api/dashboard?tab=.
func (h *SnapshotHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, h.session.Dashboard(r.URL.Query().Get("tab")))
}
