package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/bobmcallan/folio-dashboard/internal/common"
	"github.com/bobmcallan/folio-dashboard/internal/interfaces"
	"github.com/bobmcallan/folio-dashboard/internal/models"
	"github.com/bobmcallan/folio-dashboard/internal/services/holdings"
)

// PortfolioHandler serves portfolio edits and analysis.
type PortfolioHandler struct {
	session interfaces.SessionService
	logger  *common.Logger
}

// NewPortfolioHandler creates a new portfolio handler.
func NewPortfolioHandler(session interfaces.SessionService, logger *common.Logger) *PortfolioHandler {
	return &PortfolioHandler{session: session, logger: logger}
}

type addHoldingRequest struct {
	Ticker string  `json:"ticker"`
	Amount float64 `json:"amount"`
}

type holdingsResponse struct {
	Holdings []models.Holding `json:"holdings"`
}

// HandleList handles GET /api/portfolio.
func (h *PortfolioHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, holdingsResponse{Holdings: h.session.Holdings()})
}

// HandleAdd handles POST /api/portfolio with {"ticker", "amount"}.
func (h *PortfolioHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req addHoldingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	holding, err := h.session.AddHolding(req.Ticker, req.Amount)
	if err != nil {
		writeServiceError(w, h.logger, "add_holding", err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"holding":  holding,
		"holdings": h.session.Holdings(),
	})
}

// HandleGet handles GET /api/portfolio/{ticker}.
func (h *PortfolioHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ticker := holdings.NormalizeTicker(r.PathValue("ticker"))
	for _, hd := range h.session.Holdings() {
		if hd.Ticker == ticker {
			WriteJSON(w, http.StatusOK, hd)
			return
		}
	}
	WriteError(w, http.StatusNotFound, "holding not found: "+ticker)
}

// HandleRemove handles DELETE /api/portfolio/{ticker}.
func (h *PortfolioHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	if err := h.session.RemoveHolding(r.PathValue("ticker")); err != nil {
		writeServiceError(w, h.logger, "remove_holding", err)
		return
	}

	WriteJSON(w, http.StatusOK, holdingsResponse{Holdings: h.session.Holdings()})
}

// HandleAnalyze handles POST /api/portfolio/analyze. It blocks until the
// refresh publishes or fails.
func (h *PortfolioHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	snap, err := h.session.Analyze(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, "analyze", err)
		return
	}

	WriteJSON(w, http.StatusOK, snap)
}
