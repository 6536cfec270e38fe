package jobs

import "strings"

// Job is the poller's view of one asynchronous upstream operation. The
// upstream system is the sole source of truth; a Job is just the latest
// snapshot fetched from it.
type Job struct {
	ID        string           `json:"job_id"`
	Status    string           `json:"status"`
	Results   []map[string]any `json:"results,omitempty"`
	RecordIDs []string         `json:"record_ids,omitempty"`
}

// State classifies a job status snapshot.
type State int

const (
	// StateInProgress covers every status token we do not recognize as
	// terminal. Unknown vocabularies poll on rather than fail.
	StateInProgress State = iota
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "in_progress"
	}
}

// Closed token sets. Do not extend these without re-checking the
// results-presence override in Classify.
var (
	successStatuses = map[string]bool{
		"completed": true,
		"succeeded": true,
		"finished":  true,
	}
	failureStatuses = map[string]bool{
		"failed":    true,
		"error":     true,
		"errored":   true,
		"cancelled": true,
	}
)

// Classify maps a job snapshot onto the closed state enumeration.
//
// A non-empty results list is treated as sufficient evidence of completion
// even when the status token is unrecognized: upstream status vocabularies
// drift between API revisions, so result presence is the stronger signal.
// An explicit failure token still wins over present results.
func Classify(j *Job) State {
	if j == nil {
		return StateInProgress
	}
	status := strings.ToLower(strings.TrimSpace(j.Status))
	switch {
	case failureStatuses[status]:
		return StateFailed
	case successStatuses[status]:
		return StateSucceeded
	case len(j.Results) > 0:
		return StateSucceeded
	default:
		return StateInProgress
	}
}
