package model

import "time"

// RunStatus is the lifecycle state of a pipeline run
type RunStatus string

const (
	RunPending   RunStatus = "pending"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// Run is a pipeline run as stored in the run history
type Run struct {
	ID         string    `json:"id"`
	SourceURL  string    `json:"source_url"`
	OutputPath string    `json:"output_path"`
	Status     RunStatus `json:"status"`
	Fetched    int       `json:"fetched"`
	Kept       int       `json:"kept"`
	Written    bool      `json:"written"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// RunResult is what a finished pipeline run reports back to its caller
type RunResult struct {
	RunID      string        `json:"run_id"`
	Status     RunStatus     `json:"status"`
	SourceURL  string        `json:"source_url"`
	OutputPath string        `json:"output_path"`
	Fetched    int           `json:"fetched"`
	Kept       int           `json:"kept"`
	Written    bool          `json:"written"`
	Duration   time.Duration `json:"duration"`
	// FetchErr is set when the run stopped at the fetch stage
	FetchErr error `json:"-"`
	// Err is set when a later stage (export, run store) failed
	Err error `json:"-"`
}

// ErrorText returns the message of the error that failed the run, or an empty string
func (r RunResult) ErrorText() string {
	switch {
	case r.FetchErr != nil:
		return r.FetchErr.Error()
	case r.Err != nil:
		return r.Err.Error()
	}
	return ""
}
