package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) handleContactSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	criteria := map[string]any{}
	if v := request.GetString("company_domain", ""); v != "" {
		criteria["company_domain"] = v
	}
	if v := request.GetString("datamerge_id", ""); v != "" {
		criteria["datamerge_id"] = v
	}
	if v := request.GetStringSlice("titles", nil); len(v) > 0 {
		criteria["titles"] = v
	}
	if v := request.GetString("seniority", ""); v != "" {
		criteria["seniority"] = v
	}
	if v := request.GetInt("limit", 0); v > 0 {
		criteria["limit"] = v
	}
	if criteria["company_domain"] == nil && criteria["datamerge_id"] == nil {
		return mcp.NewToolResultError("either company_domain or datamerge_id is required to scope the search"), nil
	}

	client, errResult, err := s.resolveClient(ctx)
	if err != nil {
		return nil, err
	}
	if errResult != nil {
		return errResult, nil
	}

	job, err := client.StartContactSearch(ctx, criteria)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jobSnapshot(job), nil
}

func (s *Server) handleGetContactSearchStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.handleJobStatusTool(ctx, request)
}

func (s *Server) handleContactEnrich(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	criteria := map[string]any{}
	for _, key := range []string{"email", "full_name", "company_domain", "record_id"} {
		if v := request.GetString(key, ""); v != "" {
			criteria[key] = v
		}
	}
	if criteria["email"] == nil && criteria["record_id"] == nil && criteria["full_name"] == nil {
		return mcp.NewToolResultError("at least one of email, record_id or full_name is required"), nil
	}

	client, errResult, err := s.resolveClient(ctx)
	if err != nil {
		return nil, err
	}
	if errResult != nil {
		return errResult, nil
	}

	job, err := client.StartContactEnrich(ctx, criteria)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jobSnapshot(job), nil
}

func (s *Server) handleGetContactEnrichStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.handleJobStatusTool(ctx, request)
}

func (s *Server) handleGetContact(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	recordID, err := request.RequireString("record_id")
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

	record, err := client.GetContact(ctx, recordID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultStructuredOnly(record), nil
}

// handleJobStatusTool is shared by every status tool: they differ only in
// which start tool produced the job id, and the upstream exposes one
// status endpoint for all job kinds.
func (s *Server) handleJobStatusTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jobID, err := request.RequireString("job_id")
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

	job, err := client.JobStatus(ctx, jobID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jobSnapshot(job), nil
}
