// Package mcp exposes the dashboard session as Model Context Protocol tools.
package mcp

import (
	"net/http"

	"github.com/bobmcallan/folio-dashboard/internal/common"
	"github.com/bobmcallan/folio-dashboard/internal/config"
	"github.com/bobmcallan/folio-dashboard/internal/interfaces"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Handler is the HTTP handler for the MCP endpoint.
// It wraps mcp-go's StreamableHTTPServer and delegates to it.
type Handler struct {
	streamable *mcpserver.StreamableHTTPServer
	logger     *common.Logger
	tools      []string
}

// NewServer builds the MCP server with every dashboard tool registered.
func NewServer(session interfaces.SessionService) (*mcpserver.MCPServer, []string) {
	mcpSrv := mcpserver.NewMCPServer(
		"folio-dashboard",
		config.GetVersion(),
		mcpserver.WithToolCapabilities(true),
	)
	names := RegisterTools(mcpSrv, session)
	return mcpSrv, names
}

// NewHandler creates a stateless streamable HTTP handler over the session.
func NewHandler(session interfaces.SessionService, logger *common.Logger) *Handler {
	mcpSrv, names := NewServer(session)

	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithStateLess(true),
	)

	logger.Info().
		Int("tools", len(names)).
		Strs("names", names).
		Msg("MCP handler initialized")

	return &Handler{
		streamable: streamable,
		logger:     logger,
		tools:      names,
	}
}

// Tools returns the registered tool names.
func (h *Handler) Tools() []string {
	return append([]string(nil), h.tools...)
}

// ServeHTTP delegates to the mcp-go StreamableHTTPServer.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.streamable.ServeHTTP(w, r)
}
