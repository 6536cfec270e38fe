// Package jobs implements the start-then-poll control pattern shared by
// every asynchronous upstream operation (company enrichment, lookalike
// search, contact search and enrichment).
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	// DefaultPollInterval is used when the caller supplies a non-positive
	// interval. Polling is fixed-interval; there is no adaptive backoff.
	DefaultPollInterval = 5 * time.Second
	// DefaultTimeout bounds a polling loop when the caller supplies a
	// non-positive timeout.
	DefaultTimeout = 60 * time.Second
)

// StartFunc kicks off an asynchronous upstream operation and returns the
// initial job snapshot (carrying at least the job id).
type StartFunc func(ctx context.Context) (*Job, error)

// StatusFunc fetches the current snapshot for a previously started job.
type StatusFunc func(ctx context.Context, jobID string) (*Job, error)

// Options tune one Await invocation. Zero values fall back to the defaults.
type Options struct {
	PollInterval time.Duration
	Timeout      time.Duration
}

func (o Options) withDefaults() Options {
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// Result is the terminal outcome of an Await call.
//
// TimedOut is not an error: it carries the last-known job snapshot so the
// caller can resume polling manually via the matching status tool.
type Result struct {
	Job      *Job
	State    State
	TimedOut bool
}

// Await starts a job and polls its status at a fixed interval until the job
// reaches a terminal state or the timeout elapses.
//
// A start failure propagates immediately; no polling is attempted. Status
// fetch failures also propagate rather than being retried, since the next
// scheduled iteration is the only retry this design permits. The loop
// suspends in the interval sleep and in each status round-trip, so
// concurrent Await calls for other sessions proceed independently.
func Await(ctx context.Context, start StartFunc, status StatusFunc, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	started := time.Now()
	job, err := start(ctx)
	if err != nil {
		return nil, err
	}
	if job == nil || job.ID == "" {
		return nil, fmt.Errorf("upstream accepted the job but returned no job id")
	}

	slog.Debug("job started, polling for completion",
		"job_id", job.ID,
		"poll_interval", opts.PollInterval,
		"timeout", opts.Timeout,
	)

	deadline := started.Add(opts.Timeout)
	for {
		if !time.Now().Before(deadline) {
			slog.Debug("job polling timed out", "job_id", job.ID, "last_status", job.Status)
			return &Result{Job: job, State: Classify(job), TimedOut: true}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(opts.PollInterval):
		}

		next, err := status(ctx, job.ID)
		if err != nil {
			return nil, err
		}
		if next == nil {
			// Keep the last snapshot and poll again, mirroring how
			// Classify treats a nil job as in-progress.
			continue
		}
		if next.ID == "" {
			next.ID = job.ID
		}
		job = next

		switch state := Classify(job); state {
		case StateSucceeded, StateFailed:
			slog.Debug("job reached terminal state", "job_id", job.ID, "state", state.String())
			return &Result{Job: job, State: state}, nil
		default:
			// keep polling
		}
	}
}
