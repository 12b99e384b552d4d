package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/bobmcallan/folio-dashboard/internal/common"
	"github.com/bobmcallan/folio-dashboard/internal/config"
	"github.com/bobmcallan/folio-dashboard/internal/interfaces"
	"github.com/bobmcallan/folio-dashboard/internal/viewmodel"
)

//go:embed templates/*.html
var templateFS embed.FS

// DashboardHandler serves the tabbed dashboard page.
type DashboardHandler struct {
	logger    *common.Logger
	templates *template.Template
	session   interfaces.SessionService
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(session interfaces.SessionService, logger *common.Logger) *DashboardHandler {
	templates := template.Must(template.ParseFS(templateFS, "templates/*.html"))

	return &DashboardHandler{
		logger:    logger,
		templates: templates,
		session:   session,
	}
}

type dashboardPage struct {
	Dashboard     *viewmodel.Dashboard
	ActiveTab     string
	PortalVersion string
}

// ServeHTTP renders the dashboard page for GET /.
func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	d := h.session.Dashboard(r.URL.Query().Get("tab"))
	data := dashboardPage{
		Dashboard:     d,
		ActiveTab:     activeTab(d.Tabs),
		PortalVersion: config.GetVersion(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		if h.logger != nil {
			h.logger.Error().Str("template", "dashboard.html").Str("error", err.Error()).Msg("failed to render dashboard")
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func activeTab(tabs []viewmodel.Tab) string {
	for _, t := range tabs {
		if t.Active {
			return t.ID
		}
	}
	return viewmodel.TabOverview
}
