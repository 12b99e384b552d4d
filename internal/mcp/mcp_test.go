package mcp

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/bobmcallan/folio-dashboard/internal/client/clienttest"
	"github.com/bobmcallan/folio-dashboard/internal/common"
	"github.com/bobmcallan/folio-dashboard/internal/notify"
	"github.com/bobmcallan/folio-dashboard/internal/services/analysis"
	"github.com/bobmcallan/folio-dashboard/internal/services/holdings"
	"github.com/bobmcallan/folio-dashboard/internal/services/market"
	"github.com/bobmcallan/folio-dashboard/internal/services/session"
	mcpgo "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

func testSession(fake *clienttest.Fake) *session.Service {
	logger := common.NewSilentLogger()
	return session.NewService(
		holdings.NewStore(),
		analysis.NewService(fake, logger),
		market.NewService(fake, logger),
		notify.NewCenter(notify.DefaultCapacity, logger),
		logger,
	)
}

// listTools calls tools/list on the MCPServer and returns the tools.
func listTools(t *testing.T, s *mcpserver.MCPServer) []mcpgo.Tool {
	t.Helper()

	msg := json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`)
	result := s.HandleMessage(t.Context(), msg)

	resp, ok := result.(mcpgo.JSONRPCResponse)
	if !ok {
		t.Fatalf("expected JSONRPCResponse, got %T", result)
	}

	resultJSON, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("failed to marshal result: %v", err)
	}

	var listResult mcpgo.ListToolsResult
	if err := json.Unmarshal(resultJSON, &listResult); err != nil {
		t.Fatalf("failed to unmarshal ListToolsResult: %v", err)
	}
	return listResult.Tools
}

// callTool calls tools/call on the MCPServer and returns the result.
func callTool(t *testing.T, s *mcpserver.MCPServer, name string, args map[string]interface{}) *mcpgo.CallToolResult {
	t.Helper()

	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, _ := json.Marshal(params)

	msg := json.RawMessage(`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":` + string(paramsJSON) + `}`)
	result := s.HandleMessage(t.Context(), msg)

	resp, ok := result.(mcpgo.JSONRPCResponse)
	if !ok {
		t.Fatalf("expected JSONRPCResponse, got %T", result)
	}

	resultJSON, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("failed to marshal result: %v", err)
	}

	var toolResult mcpgo.CallToolResult
	if err := json.Unmarshal(resultJSON, &toolResult); err != nil {
		t.Fatalf("failed to unmarshal CallToolResult: %v", err)
	}
	return &toolResult
}

// extractText extracts the text from a Content item.
func extractText(t *testing.T, content mcpgo.Content) string {
	t.Helper()
	contentJSON, _ := json.Marshal(content)
	var tc struct {
		Text string `json:"text"`
	}
	json.Unmarshal(contentJSON, &tc)
	return tc.Text
}

func decodeText(t *testing.T, result *mcpgo.CallToolResult, v interface{}) {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("expected content in tool result")
	}
	text := extractText(t, result.Content[0])
	if err := json.Unmarshal([]byte(text), v); err != nil {
		t.Fatalf("failed to unmarshal tool output %q: %v", text, err)
	}
}

func TestRegisterTools_ListsEveryTool(t *testing.T) {
	s, names := NewServer(testSession(clienttest.New()))

	want := []string{
		"add_holding", "remove_holding", "list_holdings", "analyze_portfolio",
		"get_dashboard", "get_market_overview", "get_macro_history",
		"get_macro_forecast", "get_version",
	}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("expected tools %v, got %v", want, names)
	}

	tools := listTools(t, s)
	if len(tools) != len(want) {
		t.Fatalf("expected %d listed tools, got %d", len(want), len(tools))
	}
	for _, tool := range tools {
		if tool.Description == "" {
			t.Errorf("tool %s has no description", tool.Name)
		}
	}
}

func TestAddHoldingTool_RequiredParams(t *testing.T) {
	tool := AddHoldingTool()

	required := strings.Join(tool.InputSchema.Required, ",")
	if required != "ticker,amount" {
		t.Errorf("expected ticker and amount required, got %q", required)
	}
	if _, ok := tool.InputSchema.Properties["amount"]; !ok {
		t.Error("expected amount property")
	}
}

func TestAddListRemove(t *testing.T) {
	sess := testSession(clienttest.New())
	s, _ := NewServer(sess)

	result := callTool(t, s, "add_holding", map[string]interface{}{"ticker": "aapl", "amount": 1200.0})
	if result.IsError {
		t.Fatalf("unexpected error: %s", extractText(t, result.Content[0]))
	}
	callTool(t, s, "add_holding", map[string]interface{}{"ticker": "MSFT", "amount": 800.0})

	result = callTool(t, s, "list_holdings", map[string]interface{}{})
	var listed struct {
		Holdings []struct {
			Ticker     string  `json:"ticker"`
			Percentage float64 `json:"percentage"`
		} `json:"holdings"`
		TotalValue float64 `json:"total_value"`
	}
	decodeText(t, result, &listed)
	if listed.TotalValue != 2000 {
		t.Errorf("expected total 2000, got %v", listed.TotalValue)
	}
	if len(listed.Holdings) != 2 || listed.Holdings[0].Ticker != "AAPL" || listed.Holdings[0].Percentage != 60 {
		t.Errorf("unexpected holdings: %+v", listed.Holdings)
	}

	result = callTool(t, s, "remove_holding", map[string]interface{}{"ticker": "aapl"})
	if result.IsError {
		t.Fatalf("unexpected error: %s", extractText(t, result.Content[0]))
	}
	if len(sess.Holdings()) != 1 {
		t.Errorf("expected 1 holding left, got %v", sess.Holdings())
	}
}

func TestAddHolding_Invalid(t *testing.T) {
	s, _ := NewServer(testSession(clienttest.New()))

	result := callTool(t, s, "add_holding", map[string]interface{}{"ticker": "AAPL", "amount": -1.0})
	if !result.IsError {
		t.Fatal("expected error result for negative amount")
	}
	if !strings.Contains(extractText(t, result.Content[0]), "invalid holding") {
		t.Errorf("unexpected message: %s", extractText(t, result.Content[0]))
	}
}

func TestRemoveHolding_Unknown(t *testing.T) {
	s, _ := NewServer(testSession(clienttest.New()))

	result := callTool(t, s, "remove_holding", map[string]interface{}{"ticker": "ZZZZ"})
	if !result.IsError {
		t.Error("expected error result for unknown ticker")
	}
}

func TestAnalyzePortfolio(t *testing.T) {
	fake := clienttest.New()
	fake.Fail(clienttest.SecurityDetails, "ZZZZ")
	sess := testSession(fake)
	s, _ := NewServer(sess)

	if r := callTool(t, s, "analyze_portfolio", map[string]interface{}{}); !r.IsError {
		t.Error("expected error for empty portfolio")
	}

	sess.AddHolding("AAPL", 1000)
	sess.AddHolding("ZZZZ", 100)

	result := callTool(t, s, "analyze_portfolio", map[string]interface{}{})
	if result.IsError {
		t.Fatalf("unexpected error: %s", extractText(t, result.Content[0]))
	}

	var out struct {
		Generation    uint64   `json:"generation"`
		FailedTickers []string `json:"failed_tickers"`
		Overview      struct {
			Score string `json:"score"`
		} `json:"overview"`
	}
	decodeText(t, result, &out)
	if out.Generation != 1 {
		t.Errorf("expected generation 1, got %d", out.Generation)
	}
	if out.Overview.Score != "712.00" {
		t.Errorf("expected score 712.00, got %s", out.Overview.Score)
	}
	if len(out.FailedTickers) != 1 || out.FailedTickers[0] != "ZZZZ" {
		t.Errorf("expected ZZZZ failed, got %v", out.FailedTickers)
	}
}

func TestAnalyzePortfolio_RemoteFailure(t *testing.T) {
	fake := clienttest.New()
	fake.Fail(clienttest.PortfolioPerf)
	sess := testSession(fake)
	sess.AddHolding("AAPL", 1000)
	s, _ := NewServer(sess)

	result := callTool(t, s, "analyze_portfolio", map[string]interface{}{})
	if !result.IsError {
		t.Error("expected error result when portfolio data fails")
	}
}

func TestGetDashboard_Tab(t *testing.T) {
	s, _ := NewServer(testSession(clienttest.New()))

	result := callTool(t, s, "get_dashboard", map[string]interface{}{"tab": "market"})
	var d struct {
		Tabs []struct {
			ID     string `json:"id"`
			Active bool   `json:"active"`
		} `json:"tabs"`
	}
	decodeText(t, result, &d)
	for _, tab := range d.Tabs {
		if tab.Active != (tab.ID == "market") {
			t.Errorf("tab %s active=%v", tab.ID, tab.Active)
		}
	}
}

func TestGetMarketOverview_LoadsOnce(t *testing.T) {
	fake := clienttest.New()
	s, _ := NewServer(testSession(fake))

	for i := 0; i < 2; i++ {
		result := callTool(t, s, "get_market_overview", map[string]interface{}{})
		if result.IsError {
			t.Fatalf("unexpected error: %s", extractText(t, result.Content[0]))
		}
		var ov struct {
			DailyInsights []json.RawMessage `json:"daily_insights"`
		}
		decodeText(t, result, &ov)
		if len(ov.DailyInsights) != 4 {
			t.Errorf("expected 4 insights, got %d", len(ov.DailyInsights))
		}
	}
	if fake.Calls(clienttest.DailyInsights) != 1 {
		t.Errorf("expected one insights fetch, got %d", fake.Calls(clienttest.DailyInsights))
	}
}

func TestMacroTools(t *testing.T) {
	s, _ := NewServer(testSession(clienttest.New()))

	result := callTool(t, s, "get_macro_history", map[string]interface{}{"series_id": "1"})
	var history []map[string]interface{}
	decodeText(t, result, &history)
	if len(history) != 2 {
		t.Errorf("expected 2 history points, got %d", len(history))
	}

	result = callTool(t, s, "get_macro_forecast", map[string]interface{}{"series_id": "1"})
	var forecast []map[string]interface{}
	decodeText(t, result, &forecast)
	if len(forecast) != 1 || forecast[0]["high"] != 3.4 {
		t.Errorf("unexpected forecast: %v", forecast)
	}

	result = callTool(t, s, "get_macro_forecast", map[string]interface{}{"series_id": "  "})
	if !result.IsError {
		t.Error("expected error for blank series id")
	}
}
