package jobs

import "time"

// State is the lifecycle state of a background job
type State string

const (
	StatePending   State = "pending"
	StateRunning   State = "running"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
	StateCancelled State = "cancelled"
)

// Finished reports whether the state is terminal
func (s State) Finished() bool {
	return s == StateSucceeded || s == StateFailed || s == StateCancelled
}

// Job is the trackable representation of a long-running operation. The
// handle is returned to the caller immediately; the body runs on a
// background goroutine holding the operation's lock slot for its full
// duration.
type Job struct {
	ID         string      `json:"id"`
	Kind       string      `json:"kind"`
	Target     string      `json:"target"`
	State      State       `json:"state"`
	Result     interface{} `json:"result,omitempty"`
	Error      string      `json:"error,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	StartedAt  *time.Time  `json:"started_at,omitempty"`
	FinishedAt *time.Time  `json:"finished_at,omitempty"`
}

// Operation kinds used as lock keys. One job per (kind, target) may be in
// flight; the names match the per-jail serialization the engine expects.
const (
	KindCreate  = "jail_create"
	KindFetch   = "jail_fetch"
	KindUpdate  = "jail_update"
	KindUpgrade = "jail_upgrade"
	KindExport  = "jail_export"
	KindImport  = "jail_import"
)
