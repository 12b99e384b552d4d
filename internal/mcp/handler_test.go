package mcp

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bobmcallan/folio-dashboard/internal/client/clienttest"
	"github.com/bobmcallan/folio-dashboard/internal/common"
)

func TestHandler_Tools(t *testing.T) {
	h := NewHandler(testSession(clienttest.New()), common.NewSilentLogger())

	tools := h.Tools()
	if len(tools) != 9 {
		t.Errorf("expected 9 tools, got %d", len(tools))
	}
	tools[0] = "mutated"
	if h.Tools()[0] != "add_holding" {
		t.Error("Tools must return a copy")
	}
}

func TestHandler_Initialize(t *testing.T) {
	h := NewHandler(testSession(clienttest.New()), common.NewSilentLogger())
	srv := httptest.NewServer(h)
	defer srv.Close()

	body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"0.0.1"}}}`
	req, err := http.NewRequest("POST", srv.URL, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	data, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(data), "folio-dashboard") {
		t.Errorf("expected server name in initialize response, got %s", data)
	}
}
