package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) handleStartLookalike(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	criteria := map[string]any{}
	if v := request.GetString("domain", ""); v != "" {
		criteria["domain"] = v
	}
	if v := request.GetString("company_name", ""); v != "" {
		criteria["company_name"] = v
	}
	if v := request.GetString("country", ""); v != "" {
		criteria["country"] = v
	}
	if v := request.GetInt("limit", 0); v > 0 {
		criteria["limit"] = v
	}
	if criteria["domain"] == nil && criteria["company_name"] == nil {
		return mcp.NewToolResultError("either domain or company_name is required as the lookalike seed"), nil
	}

	client, errResult, err := s.resolveClient(ctx)
	if err != nil {
		return nil, err
	}
	if errResult != nil {
		return errResult, nil
	}

	job, err := client.StartLookalike(ctx, criteria)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jobSnapshot(job), nil
}

func (s *Server) handleGetLookalikeStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.handleJobStatusTool(ctx, request)
}
