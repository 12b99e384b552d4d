package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bobmcallan/folio-dashboard/internal/interfaces"
	"github.com/bobmcallan/folio-dashboard/internal/viewmodel"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// errorResult creates an MCP error result.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

// jsonResult marshals v into a text result.
func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return errorResult("Error: failed to encode result"), nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(out))},
	}, nil
}

// AddHoldingHandler handles add_holding.
func AddHoldingHandler(session interfaces.SessionService) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		holding, err := session.AddHolding(r.GetString("ticker", ""), r.GetFloat("amount", 0))
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		return jsonResult(map[string]interface{}{
			"holding":     holding,
			"total_value": viewmodel.TotalValue(session.Holdings()),
		})
	}
}

// RemoveHoldingHandler handles remove_holding.
func RemoveHoldingHandler(session interfaces.SessionService) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := session.RemoveHolding(r.GetString("ticker", "")); err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		return jsonResult(map[string]interface{}{
			"holdings": session.Holdings(),
		})
	}
}

// ListHoldingsHandler handles list_holdings.
func ListHoldingsHandler(session interfaces.SessionService) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		list := session.Holdings()
		return jsonResult(map[string]interface{}{
			"holdings":    viewmodel.Allocation(list),
			"total_value": viewmodel.TotalValue(list),
		})
	}
}

// AnalyzePortfolioHandler handles analyze_portfolio. The result is the
// overview of the published snapshot.
func AnalyzePortfolioHandler(session interfaces.SessionService) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if _, err := session.Analyze(ctx); err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		d := session.Dashboard(viewmodel.TabOverview)
		return jsonResult(map[string]interface{}{
			"generation":      d.Generation,
			"portfolio_value": d.PortfolioValue,
			"overview":        d.Overview,
			"failed_tickers":  d.FailedTickers,
		})
	}
}

// DashboardHandler handles get_dashboard.
func DashboardHandler(session interfaces.SessionService) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(session.Dashboard(r.GetString("tab", "")))
	}
}

// MarketOverviewHandler handles get_market_overview. The overview is
// loaded on first use.
func MarketOverviewHandler(session interfaces.SessionService) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := session.StartMarketOverview(ctx); err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		return jsonResult(session.Snapshot().Market)
	}
}

// MacroHistoryHandler handles get_macro_history.
func MacroHistoryHandler(session interfaces.SessionService) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		points, err := session.MacroHistory(ctx, r.GetString("series_id", ""))
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		return jsonResult(points)
	}
}

// MacroForecastHandler handles get_macro_forecast.
func MacroForecastHandler(session interfaces.SessionService) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		points, err := session.Forecast(ctx, r.GetString("series_id", ""))
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		return jsonResult(points)
	}
}
