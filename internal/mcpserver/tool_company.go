package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) handleGetCompany(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("datamerge_id", "")
	if id == "" {
		id = request.GetString("record_id", "")
	}
	if id == "" {
		return mcp.NewToolResultError("either datamerge_id or record_id is required"), nil
	}

	client, errResult, err := s.resolveClient(ctx)
	if err != nil {
		return nil, err
	}
	if errResult != nil {
		return errResult, nil
	}

	record, err := client.GetCompany(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultStructuredOnly(record), nil
}

func (s *Server) handleGetCompanyHierarchy(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("datamerge_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	depth := request.GetInt("depth", 0)

	client, errResult, err := s.resolveClient(ctx)
	if err != nil {
		return nil, err
	}
	if errResult != nil {
		return errResult, nil
	}

	tree, err := client.GetHierarchy(ctx, id, depth)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultStructuredOnly(tree), nil
}
