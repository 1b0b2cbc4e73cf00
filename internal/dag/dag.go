package dag

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrCatchupUnsupported is returned by Validate for workflows asking for backfill
var ErrCatchupUnsupported = errors.New("catchup is not supported")

// Task is one unit of work in a DAG
type Task struct {
	ID  string
	Run func(ctx context.Context) error
}

// DAG is a scheduled workflow. Tasks run sequentially in declaration order.
type DAG struct {
	ID          string
	Description string
	StartDate   time.Time
	// Schedule is a standard cron expression or descriptor such as "@daily"
	Schedule string
	// Catchup must be false; missed intervals are never backfilled
	Catchup bool
	Tags    []string
	Tasks   []Task
}

// Validate checks the definition before it is registered
func (d *DAG) Validate() error {
	if d.ID == "" {
		return errors.New("dag id is required")
	}
	if len(d.Tasks) == 0 {
		return fmt.Errorf("dag %s: at least one task is required", d.ID)
	}
	seen := make(map[string]bool, len(d.Tasks))
	for i, t := range d.Tasks {
		if t.ID == "" {
			return fmt.Errorf("dag %s: task %d has no id", d.ID, i)
		}
		if t.Run == nil {
			return fmt.Errorf("dag %s: task %s has no function", d.ID, t.ID)
		}
		if seen[t.ID] {
			return fmt.Errorf("dag %s: duplicate task id %s", d.ID, t.ID)
		}
		seen[t.ID] = true
	}
	if _, err := cron.ParseStandard(d.Schedule); err != nil {
		return fmt.Errorf("dag %s: invalid schedule %q: %w", d.ID, d.Schedule, err)
	}
	if d.Catchup {
		return fmt.Errorf("dag %s: %w", d.ID, ErrCatchupUnsupported)
	}
	return nil
}

// TaskError identifies the task that stopped a DAG run
type TaskError struct {
	DAG  string
	Task string
	Err  error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("dag %s: task %s failed: %v", e.DAG, e.Task, e.Err)
}

func (e *TaskError) Unwrap() error { return e.Err }

// Trigger runs every task once, in order, stopping at the first failure
func (d *DAG) Trigger(ctx context.Context) error {
	for _, t := range d.Tasks {
		if err := ctx.Err(); err != nil {
			return &TaskError{DAG: d.ID, Task: t.ID, Err: err}
		}
		if err := t.Run(ctx); err != nil {
			return &TaskError{DAG: d.ID, Task: t.ID, Err: err}
		}
	}
	return nil
}
