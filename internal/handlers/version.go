package handlers

import (
	"net/http"

	"github.com/bobmcallan/folio-dashboard/internal/common"
	"github.com/bobmcallan/folio-dashboard/internal/config"
)

// VersionHandler handles version information requests.
type VersionHandler struct {
	logger *common.Logger
}

// NewVersionHandler creates a new version handler.
func NewVersionHandler(logger *common.Logger) *VersionHandler {
	return &VersionHandler{logger: logger}
}

// ServeHTTP handles GET /api/version.
func (h *VersionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"version":    config.GetVersion(),
		"build":      config.GetBuild(),
		"git_commit": config.GetGitCommit(),
	})
}
