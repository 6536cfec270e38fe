package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) handleGetCreditsBalance(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	client, errResult, err := s.resolveClient(ctx)
	if err != nil {
		return nil, err
	}
	if errResult != nil {
		return errResult, nil
	}

	balance, err := client.CreditsBalance(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultStructuredOnly(balance), nil
}

func (s *Server) handleHealthCheck(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	client, errResult, err := s.resolveClient(ctx)
	if err != nil {
		return nil, err
	}
	if errResult != nil {
		return errResult, nil
	}

	return mcp.NewToolResultStructuredOnly(map[string]any{
		"healthy": client.HealthCheck(ctx),
	}), nil
}
