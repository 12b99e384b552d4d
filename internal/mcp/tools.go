package mcp

import (
	"github.com/bobmcallan/folio-dashboard/internal/interfaces"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTools adds every dashboard tool to s and returns their names.
func RegisterTools(s *server.MCPServer, session interfaces.SessionService) []string {
	entries := []struct {
		tool    mcp.Tool
		handler server.ToolHandlerFunc
	}{
		{AddHoldingTool(), AddHoldingHandler(session)},
		{RemoveHoldingTool(), RemoveHoldingHandler(session)},
		{ListHoldingsTool(), ListHoldingsHandler(session)},
		{AnalyzePortfolioTool(), AnalyzePortfolioHandler(session)},
		{DashboardTool(), DashboardHandler(session)},
		{MarketOverviewTool(), MarketOverviewHandler(session)},
		{MacroHistoryTool(), MacroHistoryHandler(session)},
		{MacroForecastTool(), MacroForecastHandler(session)},
		{VersionTool(), VersionToolHandler()},
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		s.AddTool(e.tool, e.handler)
		names = append(names, e.tool.Name)
	}
	return names
}

// AddHoldingTool defines add_holding.
func AddHoldingTool() mcp.Tool {
	return mcp.NewTool("add_holding",
		mcp.WithDescription("Add a security to the portfolio, or replace the amount of one already held."),
		mcp.WithString("ticker", mcp.Required(), mcp.Description("Ticker symbol, e.g. AAPL")),
		mcp.WithNumber("amount", mcp.Required(), mcp.Description("Position value in USD, greater than zero")),
	)
}

// RemoveHoldingTool defines remove_holding.
func RemoveHoldingTool() mcp.Tool {
	return mcp.NewTool("remove_holding",
		mcp.WithDescription("Remove a security from the portfolio."),
		mcp.WithString("ticker", mcp.Required(), mcp.Description("Ticker symbol to remove")),
	)
}

// ListHoldingsTool defines list_holdings.
func ListHoldingsTool() mcp.Tool {
	return mcp.NewTool("list_holdings",
		mcp.WithDescription("List portfolio holdings with their share of total value."),
	)
}

// AnalyzePortfolioTool defines analyze_portfolio.
func AnalyzePortfolioTool() mcp.Tool {
	return mcp.NewTool("analyze_portfolio",
		mcp.WithDescription("Fetch performance, score, assessment and per-security data for the current portfolio."),
	)
}

// DashboardTool defines get_dashboard.
func DashboardTool() mcp.Tool {
	return mcp.NewTool("get_dashboard",
		mcp.WithDescription("Get the formatted dashboard view of the last analysis."),
		mcp.WithString("tab",
			mcp.Description("Active tab"),
			mcp.Enum("overview", "performance", "holdings", "market"),
		),
	)
}

// MarketOverviewTool defines get_market_overview.
func MarketOverviewTool() mcp.Tool {
	return mcp.NewTool("get_market_overview",
		mcp.WithDescription("Get daily market insights, anomalies and the macro series catalog."),
	)
}

// MacroHistoryTool defines get_macro_history.
func MacroHistoryTool() mcp.Tool {
	return mcp.NewTool("get_macro_history",
		mcp.WithDescription("Get the history of a macro-economic series."),
		mcp.WithString("series_id", mcp.Required(), mcp.Description("Series id from get_market_overview")),
	)
}

// MacroForecastTool defines get_macro_forecast.
func MacroForecastTool() mcp.Tool {
	return mcp.NewTool("get_macro_forecast",
		mcp.WithDescription("Get the forecast of a macro-economic series with its confidence band."),
		mcp.WithString("series_id", mcp.Required(), mcp.Description("Series id from get_market_overview")),
	)
}
