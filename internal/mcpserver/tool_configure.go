package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// handleConfigureCredential is the explicit configuration path: unlike the
// passive Authorization-header path, it discards the session's active
// client and builds a fresh one from the supplied key.
func (s *Server) handleConfigureCredential(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	apiKey, err := request.RequireString("api_key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	baseURL := request.GetString("base_url", "")

	sessionID := s.sessionFromContext(ctx)
	if sessionID == "" {
		return nil, fmt.Errorf("mcpserver: no session identifier in request context")
	}

	client := s.sessions.Configure(sessionID, apiKey, baseURL)
	return mcp.NewToolResultStructuredOnly(map[string]any{
		"configured": true,
		"base_url":   client.BaseURL(),
	}), nil
}
