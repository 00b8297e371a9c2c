// ABOUTME: MCP server setup for the lift routine tracker.
// ABOUTME: Wraps the MCP server around a shared App so tools drive the same stores as the CLI.
package mcp

import (
	"context"

	"github.com/harperreed/lift/internal/app"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

// Server wraps the MCP server with access to routines, sessions and history.
type Server struct {
	mcpServer *mcp.Server
	app       *app.App
}

// NewServer creates a new MCP server over a.
func NewServer(a *app.App) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "lift",
			Version: Version,
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		app:       a,
	}

	s.registerRoutineTools()
	s.registerSessionTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
