package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bobmcallan/folio-dashboard/internal/app"
	"github.com/bobmcallan/folio-dashboard/internal/client/clienttest"
	"github.com/bobmcallan/folio-dashboard/internal/common"
	"github.com/bobmcallan/folio-dashboard/internal/config"
)

func newTestApp(t *testing.T, fake *clienttest.Fake) *app.App {
	t.Helper()

	cfg := config.NewDefaultConfig()
	cfg.API.BaseURL = "https://data.example.com"
	cfg.API.APIKey = "test-key"

	application := app.NewWithClient(cfg, common.NewSilentLogger(), fake)
	t.Cleanup(func() {
		application.Close()
	})

	return application
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestRoutes_HealthEndpoint(t *testing.T) {
	srv := New(newTestApp(t, clienttest.New()))

	w := do(t, srv, "GET", "/api/health", "")

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %s", body["status"])
	}
}

func TestRoutes_VersionEndpoint(t *testing.T) {
	srv := New(newTestApp(t, clienttest.New()))

	w := do(t, srv, "GET", "/api/version", "")

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if _, ok := body["version"]; !ok {
		t.Error("expected version field in response")
	}
}

func TestRoutes_APINotFound(t *testing.T) {
	srv := New(newTestApp(t, clienttest.New()))

	w := do(t, srv, "GET", "/api/nonexistent", "")

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestRoutes_DashboardPage(t *testing.T) {
	srv := New(newTestApp(t, clienttest.New()))

	w := do(t, srv, "GET", "/", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Folio Dashboard") {
		t.Error("expected dashboard page title")
	}
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/html") {
		t.Errorf("expected text/html, got %s", w.Header().Get("Content-Type"))
	}
}

func TestRoutes_PortfolioFlow(t *testing.T) {
	srv := New(newTestApp(t, clienttest.New()))

	if w := do(t, srv, "POST", "/api/portfolio", `{"ticker":"aapl","amount":600}`); w.Code != http.StatusCreated {
		t.Fatalf("add AAPL: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if w := do(t, srv, "POST", "/api/portfolio", `{"ticker":"MSFT","amount":400}`); w.Code != http.StatusCreated {
		t.Fatalf("add MSFT: expected 201, got %d", w.Code)
	}

	if w := do(t, srv, "GET", "/api/portfolio/aapl", ""); w.Code != http.StatusOK {
		t.Errorf("get AAPL: expected 200, got %d", w.Code)
	}

	w := do(t, srv, "POST", "/api/portfolio/analyze", "")
	if w.Code != http.StatusOK {
		t.Fatalf("analyze: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = do(t, srv, "GET", "/api/charts/history/AAPL.png", "")
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "image/png" {
		t.Errorf("history chart: got %d %s", w.Code, w.Header().Get("Content-Type"))
	}

	w = do(t, srv, "GET", "/api/charts/allocation.png", "")
	if w.Code != http.StatusOK {
		t.Errorf("allocation chart: expected 200, got %d", w.Code)
	}

	if w := do(t, srv, "DELETE", "/api/portfolio/MSFT", ""); w.Code != http.StatusOK {
		t.Errorf("delete MSFT: expected 200, got %d", w.Code)
	}
	if w := do(t, srv, "DELETE", "/api/portfolio/MSFT", ""); w.Code != http.StatusNotFound {
		t.Errorf("delete MSFT twice: expected 404, got %d", w.Code)
	}

	w = do(t, srv, "GET", "/api/dashboard?tab=performance", "")
	var d struct {
		HasAnalysis bool `json:"has_analysis"`
		Holdings    []struct {
			Ticker string `json:"ticker"`
		} `json:"holdings"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &d); err != nil {
		t.Fatalf("failed to unmarshal dashboard: %v", err)
	}
	if !d.HasAnalysis || len(d.Holdings) != 1 || d.Holdings[0].Ticker != "AAPL" {
		t.Errorf("unexpected dashboard: %+v", d)
	}
}

func TestRoutes_MethodNotAllowed(t *testing.T) {
	srv := New(newTestApp(t, clienttest.New()))

	tests := []struct {
		method, path string
	}{
		{"PUT", "/api/portfolio"},
		{"PATCH", "/api/portfolio/AAPL"},
		{"GET", "/api/portfolio/analyze"},
		{"POST", "/api/snapshot"},
	}
	for _, tt := range tests {
		w := do(t, srv, tt.method, tt.path, "")
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s: expected 405, got %d", tt.method, tt.path, w.Code)
		}
	}
}

func TestRoutes_MacroEndpoints(t *testing.T) {
	srv := New(newTestApp(t, clienttest.New()))

	if w := do(t, srv, "GET", "/api/macro/1/history", ""); w.Code != http.StatusOK {
		t.Errorf("history: expected 200, got %d", w.Code)
	}
	if w := do(t, srv, "GET", "/api/macro/1/forecast", ""); w.Code != http.StatusOK {
		t.Errorf("forecast: expected 200, got %d", w.Code)
	}
	w := do(t, srv, "GET", "/api/charts/macro/1.png", "")
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "image/png" {
		t.Errorf("macro chart: got %d %s", w.Code, w.Header().Get("Content-Type"))
	}
}

func TestRoutes_Notifications(t *testing.T) {
	srv := New(newTestApp(t, clienttest.New()))

	do(t, srv, "POST", "/api/portfolio", `{"ticker":"","amount":1}`)

	w := do(t, srv, "GET", "/api/notifications", "")
	if !strings.Contains(w.Body.String(), "Please enter valid ticker and amount") {
		t.Errorf("expected validation notification, got %s", w.Body.String())
	}
}

func TestRoutes_MCPEndpoint(t *testing.T) {
	srv := New(newTestApp(t, clienttest.New()))

	req := httptest.NewRequest("POST", "/mcp", strings.NewReader(
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"0.0.1"}}}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRoutes_MiddlewareApplied(t *testing.T) {
	srv := New(newTestApp(t, clienttest.New()))

	w := do(t, srv, "GET", "/api/health", "")

	// Verify correlation ID middleware is applied
	if w.Header().Get("X-Correlation-ID") == "" {
		t.Error("expected X-Correlation-ID header from middleware")
	}

	// Verify CORS middleware is applied
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS header from middleware")
	}
}

func TestRoutes_SecurityHeadersApplied(t *testing.T) {
	srv := New(newTestApp(t, clienttest.New()))

	w := do(t, srv, "GET", "/api/health", "")

	// Verify security headers middleware is applied
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected X-Content-Type-Options header from security middleware")
	}
	if w.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("expected X-Frame-Options header from security middleware")
	}
	if w.Header().Get("Content-Security-Policy") == "" {
		t.Error("expected Content-Security-Policy header from security middleware")
	}
}
