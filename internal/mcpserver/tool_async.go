package mcpserver

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/datamergehq/datamerge-mcp/internal/jobs"
)

// pollOptions reads the shared polling arguments. Non-positive or absent
// values fall back to the poller defaults rather than busy-looping.
func pollOptions(request mcp.CallToolRequest) jobs.Options {
	return jobs.Options{
		PollInterval: time.Duration(request.GetFloat("poll_interval_seconds", 0) * float64(time.Second)),
		Timeout:      time.Duration(request.GetFloat("timeout_seconds", 0) * float64(time.Second)),
	}
}

// awaitJob drives the start-then-poll loop for one tool invocation and
// maps the three terminal outcomes onto tool results: success and timeout
// are ordinary results (a timeout carries the job id so the caller can
// resume polling with the matching status tool), terminal failure is an
// error result naming the job and its status.
func (s *Server) awaitJob(
	ctx context.Context,
	kind string,
	start jobs.StartFunc,
	status jobs.StatusFunc,
	opts jobs.Options,
) (*mcp.CallToolResult, error) {
	res, err := jobs.Await(ctx, start, status, opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	switch {
	case res.TimedOut:
		return mcp.NewToolResultStructuredOnly(map[string]any{
			"timed_out": true,
			"job_id":    res.Job.ID,
			"status":    res.Job.Status,
			"message":   fmt.Sprintf("%s job is still running; poll it with the matching status tool", kind),
		}), nil
	case res.State == jobs.StateFailed:
		return mcp.NewToolResultError(
			fmt.Sprintf("%s job %s failed with status %q", kind, res.Job.ID, res.Job.Status),
		), nil
	default:
		return mcp.NewToolResultStructuredOnly(res.Job), nil
	}
}

// jobSnapshot renders a job snapshot (from a start or status call) as a
// structured tool result.
func jobSnapshot(job *jobs.Job) *mcp.CallToolResult {
	return mcp.NewToolResultStructuredOnly(job)
}
