package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/datamergehq/datamerge-mcp/internal/datamerge"
	"github.com/datamergehq/datamerge-mcp/internal/jobs"
)

func enrichmentRequestFromArgs(request mcp.CallToolRequest) (datamerge.EnrichmentRequest, *mcp.CallToolResult) {
	req := datamerge.EnrichmentRequest{
		Domain:      request.GetString("domain", ""),
		CompanyName: request.GetString("company_name", ""),
		Domains:     request.GetStringSlice("domains", nil),
	}
	if req.Domain == "" && req.CompanyName == "" && len(req.Domains) == 0 {
		return req, mcp.NewToolResultError("at least one of domain, company_name or domains is required")
	}
	return req, nil
}

func (s *Server) handleStartEnrichment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req, invalid := enrichmentRequestFromArgs(request)
	if invalid != nil {
		return invalid, nil
	}

	client, errResult, err := s.resolveClient(ctx)
	if err != nil {
		return nil, err
	}
	if errResult != nil {
		return errResult, nil
	}

	job, err := client.StartEnrichment(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jobSnapshot(job), nil
}

func (s *Server) handleStartEnrichmentAndWait(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req, invalid := enrichmentRequestFromArgs(request)
	if invalid != nil {
		return invalid, nil
	}

	client, errResult, err := s.resolveClient(ctx)
	if err != nil {
		return nil, err
	}
	if errResult != nil {
		return errResult, nil
	}

	return s.awaitJob(ctx, "enrichment",
		func(ctx context.Context) (*jobs.Job, error) { return client.StartEnrichment(ctx, req) },
		client.JobStatus,
		pollOptions(request),
	)
}

func (s *Server) handleGetEnrichmentResult(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.handleJobStatusTool(ctx, request)
}
