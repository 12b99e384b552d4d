package handlers

import (
	"net/http"

	"github.com/bobmcallan/folio-dashboard/internal/common"
	"github.com/bobmcallan/folio-dashboard/internal/interfaces"
	"github.com/bobmcallan/folio-dashboard/internal/models"
)

// MarketHandler serves the market overview and macro series passthroughs.
type MarketHandler struct {
	session interfaces.SessionService
	logger  *common.Logger
}

// NewMarketHandler creates a new market handler.
func NewMarketHandler(session interfaces.SessionService, logger *common.Logger) *MarketHandler {
	return &MarketHandler{session: session, logger: logger}
}

type marketResponse struct {
	Loaded   bool                   `json:"loaded"`
	Overview *models.MarketOverview `json:"overview,omitempty"`
}

// ServeHTTP handles GET /api/market. Loaded is false until the overview
// has been fetched.
func (h *MarketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	m := h.session.Snapshot().Market
	WriteJSON(w, http.StatusOK, marketResponse{Loaded: m != nil, Overview: m})
}

// HandleMacroHistory handles GET /api/macro/{id}/history.
func (h *MarketHandler) HandleMacroHistory(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	id := r.PathValue("id")
	points, err := h.session.MacroHistory(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, "macro_history", err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"series_id": id,
		"history":   points,
	})
}

// HandleForecast handles GET /api/macro/{id}/forecast.
func (h *MarketHandler) HandleForecast(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	id := r.PathValue("id")
	points, err := h.session.Forecast(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, "macro_forecast", err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"series_id": id,
		"forecast":  points,
	})
}
