// ABOUTME: MCP resource implementations for lift data.
// ABOUTME: Provides lift://routines, lift://history, and lift://session resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// recentSessions caps the sessions included in lift://history.
const recentSessions = 20

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "lift://routines",
		Name:        "Workout Routines",
		Description: "Every routine with its exercises and planned sets",
		MIMEType:    "application/json",
	}, s.handleRoutinesResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "lift://history",
		Name:        "Workout History",
		Description: "Recent finished sessions plus overall totals",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "lift://session",
		Name:        "Live Session",
		Description: "The active workout session and running rest timers",
		MIMEType:    "application/json",
	}, s.handleSessionResource)
}

// Resource handlers

func (s *Server) handleRoutinesResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return jsonResource("lift://routines", map[string]any{
		"routines": s.app.Routines.Routines(),
		"count":    s.app.Routines.Count(),
	})
}

func (s *Server) handleHistoryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	sessions := s.app.History.Sessions()
	if len(sessions) > recentSessions {
		sessions = sessions[:recentSessions]
	}
	return jsonResource("lift://history", map[string]any{
		"sessions": sessions,
		"summary":  s.app.History.Summary(""),
	})
}

func (s *Server) handleSessionResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return jsonResource("lift://session", s.status())
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
