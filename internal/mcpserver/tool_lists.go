package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) handleListLists(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	client, errResult, err := s.resolveClient(ctx)
	if err != nil {
		return nil, err
	}
	if errResult != nil {
		return errResult, nil
	}

	lists, err := client.ListLists(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"lists": lists}), nil
}

func (s *Server) handleCreateList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, errResult, err := s.resolveClient(ctx)
	if err != nil {
		return nil, err
	}
	if errResult != nil {
		return errResult, nil
	}

	list, err := client.CreateList(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultStructuredOnly(list), nil
}

func (s *Server) handleGetListItems(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	listID, err := request.RequireString("list_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, errResult, err := s.resolveClient(ctx)
	if err != nil {
		return nil, err
	}
	if errResult != nil {
		return errResult, nil
	}

	items, err := client.GetListItems(ctx, listID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"items": items}), nil
}

func (s *Server) handleRemoveListItem(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	listID, err := request.RequireString("list_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	itemID, err := request.RequireString("item_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, errResult, err := s.resolveClient(ctx)
	if err != nil {
		return nil, err
	}
	if errResult != nil {
		return errResult, nil
	}

	if err := client.RemoveListItem(ctx, listID, itemID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Removed item %s from list %s", itemID, listID)), nil
}

func (s *Server) handleDeleteList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	listID, err := request.RequireString("list_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, errResult, err := s.resolveClient(ctx)
	if err != nil {
		return nil, err
	}
	if errResult != nil {
		return errResult, nil
	}

	if err := client.DeleteList(ctx, listID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Deleted list %s", listID)), nil
}
