package server

import "net/http"

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()
	a := s.app

	// Dashboard page (embedded HTML template)
	mux.Handle("/", a.DashboardHandler)

	// MCP endpoint (JSON-RPC over HTTP)
	if a.MCPHandler != nil {
		mux.Handle("/mcp", a.MCPHandler)
	}

	// Portfolio
	mux.HandleFunc("/api/portfolio", func(w http.ResponseWriter, r *http.Request) {
		RouteResourceCollection(w, r, a.PortfolioHandler.HandleList, a.PortfolioHandler.HandleAdd)
	})
	mux.HandleFunc("/api/portfolio/analyze", a.PortfolioHandler.HandleAnalyze)
	mux.HandleFunc("/api/portfolio/{ticker}", func(w http.ResponseWriter, r *http.Request) {
		RouteResourceItem(w, r, a.PortfolioHandler.HandleGet, nil, a.PortfolioHandler.HandleRemove)
	})

	// Snapshot and derived views
	mux.HandleFunc("/api/snapshot", a.SnapshotHandler.ServeHTTP)
	mux.HandleFunc("/api/dashboard", a.SnapshotHandler.HandleDashboard)
	mux.HandleFunc("/api/notifications", a.NotificationsHandler.ServeHTTP)

	// Market data
	mux.HandleFunc("/api/market", a.MarketHandler.ServeHTTP)
	mux.HandleFunc("/api/macro/{id}/history", a.MarketHandler.HandleMacroHistory)
	mux.HandleFunc("/api/macro/{id}/forecast", a.MarketHandler.HandleForecast)

	// Charts (PNG)
	mux.HandleFunc("/api/charts/allocation.png", a.ChartHandler.HandleAllocation)
	mux.HandleFunc("/api/charts/history/{file}", a.ChartHandler.HandleHistory)
	mux.HandleFunc("/api/charts/macro/{file}", a.ChartHandler.HandleMacro)

	// API routes
	mux.HandleFunc("/api/health", a.HealthHandler.ServeHTTP)
	mux.HandleFunc("/api/version", a.VersionHandler.ServeHTTP)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.handleNotFound)

	return mux
}

// handleNotFound returns a JSON 404 for unmatched API routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"Not Found","message":"The requested endpoint does not exist"}`))
}
