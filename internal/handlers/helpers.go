package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bobmcallan/folio-dashboard/internal/client"
	"github.com/bobmcallan/folio-dashboard/internal/common"
	"github.com/bobmcallan/folio-dashboard/internal/services/analysis"
	"github.com/bobmcallan/folio-dashboard/internal/services/market"
	"github.com/bobmcallan/folio-dashboard/internal/services/session"
)

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method || (method == http.MethodGet && r.Method == http.MethodHead) {
		return true
	}
	w.Header().Set("Allow", method)
	WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	return false
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// StatusForError maps a service error to an HTTP status code.
func StatusForError(err error) int {
	var aggErr *analysis.PortfolioAggregationError
	var mktErr *market.MarketOverviewError

	switch {
	case errors.Is(err, session.ErrInvalidHolding),
		errors.Is(err, session.ErrEmptyPortfolio),
		errors.Is(err, market.ErrSeriesRequired):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrHoldingNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrSuperseded):
		return http.StatusConflict
	case errors.As(err, &aggErr), errors.As(err, &mktErr),
		client.IsTransport(err), client.IsResponse(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError logs err and writes it with the status StatusForError picks.
func writeServiceError(w http.ResponseWriter, logger *common.Logger, op string, err error) {
	status := StatusForError(err)
	if logger != nil {
		if status >= http.StatusInternalServerError {
			logger.Error().Str("op", op).Int("status", status).Err(err).Msg("Request failed")
		} else {
			logger.Debug().Str("op", op).Int("status", status).Err(err).Msg("Request rejected")
		}
	}
	WriteError(w, status, err.Error())
}
