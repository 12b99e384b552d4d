package mcp

import (
	"context"

	"github.com/bobmcallan/folio-dashboard/internal/config"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// versionInfo holds version fields for the dashboard.
type versionInfo struct {
	Version string `json:"version"`
	Build   string `json:"build"`
	Commit  string `json:"commit"`
}

// VersionTool returns the mcp.Tool definition for get_version.
func VersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get the Folio Dashboard version. Use this to verify connectivity."),
	)
}

// VersionToolHandler returns the dashboard's build metadata.
func VersionToolHandler() server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(map[string]versionInfo{
			"folio_dashboard": {
				Version: config.GetVersion(),
				Build:   config.GetBuild(),
				Commit:  config.GetGitCommit(),
			},
		})
	}
}
