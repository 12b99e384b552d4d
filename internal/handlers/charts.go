package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/bobmcallan/folio-dashboard/internal/cache"
	"github.com/bobmcallan/folio-dashboard/internal/charts"
	"github.com/bobmcallan/folio-dashboard/internal/common"
	"github.com/bobmcallan/folio-dashboard/internal/interfaces"
	"github.com/bobmcallan/folio-dashboard/internal/models"
	"github.com/bobmcallan/folio-dashboard/internal/services/holdings"
	"github.com/bobmcallan/folio-dashboard/internal/viewmodel"
)

// ChartHandler serves PNG charts. Renders are cached per snapshot generation.
type ChartHandler struct {
	session interfaces.SessionService
	cache   *cache.ChartCache
	logger  *common.Logger
}

// NewChartHandler creates a new chart handler.
func NewChartHandler(session interfaces.SessionService, chartCache *cache.ChartCache, logger *common.Logger) *ChartHandler {
	return &ChartHandler{session: session, cache: chartCache, logger: logger}
}

// HandleAllocation handles GET /api/charts/allocation.png.
func (h *ChartHandler) HandleAllocation(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	list := h.session.Holdings()
	key := cache.MakeKey(h.session.Snapshot().Generation, "allocation", holdingsSignature(list))

	h.serve(w, "allocation", key, func() ([]byte, error) {
		return charts.RenderAllocation(viewmodel.Allocation(list))
	})
}

// HandleHistory handles GET /api/charts/history/{ticker}.png.
func (h *ChartHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ticker := holdings.NormalizeTicker(pngName(r.PathValue("file")))
	snap := h.session.Snapshot()
	bundle, ok := snap.Securities[ticker]
	if ticker == "" || !ok {
		WriteError(w, http.StatusNotFound, "no data for "+ticker)
		return
	}

	key := cache.MakeKey(snap.Generation, "history", ticker)
	h.serve(w, "history", key, func() ([]byte, error) {
		return charts.RenderHistory(ticker, bundle.History)
	})
}

// HandleMacro handles GET /api/charts/macro/{id}.png. A failed forecast
// still renders the history alone.
func (h *ChartHandler) HandleMacro(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	id := strings.TrimSpace(pngName(r.PathValue("file")))
	snap := h.session.Snapshot()
	name := seriesName(snap.Market, id)

	key := cache.MakeKey(snap.Generation, "macro", id)
	chart, err := h.cache.GetOrRender(key, func() (*cache.Chart, error) {
		history, err := h.session.MacroHistory(r.Context(), id)
		if err != nil {
			return nil, err
		}
		forecast, err := h.session.Forecast(r.Context(), id)
		if err != nil {
			if h.logger != nil {
				h.logger.Warn().Str("series", id).Err(err).Msg("Forecast unavailable, rendering history only")
			}
			forecast = nil
		}
		body, err := charts.RenderMacro(name, history, forecast)
		if err != nil {
			return nil, err
		}
		return &cache.Chart{ContentType: charts.ContentType, Body: body}, nil
	})
	if err != nil {
		h.writeChartError(w, "macro", err)
		return
	}
	writeChart(w, chart)
}

func (h *ChartHandler) serve(w http.ResponseWriter, kind, key string, render func() ([]byte, error)) {
	chart, err := h.cache.GetOrRender(key, func() (*cache.Chart, error) {
		body, err := render()
		if err != nil {
			return nil, err
		}
		return &cache.Chart{ContentType: charts.ContentType, Body: body}, nil
	})
	if err != nil {
		h.writeChartError(w, kind, err)
		return
	}
	writeChart(w, chart)
}

func (h *ChartHandler) writeChartError(w http.ResponseWriter, kind string, err error) {
	if errors.Is(err, charts.ErrNotEnoughData) {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	writeServiceError(w, h.logger, kind+"_chart", err)
}

func writeChart(w http.ResponseWriter, chart *cache.Chart) {
	w.Header().Set("Content-Type", chart.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(chart.Body)))
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write(chart.Body)
}

func pngName(file string) string {
	return strings.TrimSuffix(file, ".png")
}

// holdingsSignature identifies the holdings an allocation chart was drawn for.
func holdingsSignature(list []models.Holding) string {
	var b strings.Builder
	for i, hd := range list {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(hd.Ticker)
		b.WriteByte('=')
		b.WriteString(strconv.FormatFloat(hd.Amount, 'f', -1, 64))
	}
	return b.String()
}

func seriesName(m *models.MarketOverview, id string) string {
	if m != nil {
		for _, s := range m.MacroSeries {
			if s.SeriesID.String() == id {
				return s.SeriesName
			}
		}
	}
	return id
}
