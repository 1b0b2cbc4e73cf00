package dag

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"go-etl-pipeline/internal/model"
)

// GreetingTask prints a hello line and today's date
func GreetingTask(w io.Writer, now func() time.Time) Task {
	if now == nil {
		now = time.Now
	}
	return Task{
		ID: "print_greeting",
		Run: func(ctx context.Context) error {
			if _, err := fmt.Fprintln(w, "Hello from the scheduler!"); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "Today is %s\n", now().Format(time.DateOnly))
			return err
		},
	}
}

// GreetingDAG is the one-task tutorial workflow, run daily
func GreetingDAG(w io.Writer, now func() time.Time) *DAG {
	return &DAG{
		ID:          "daily_greeting",
		Description: "A simple tutorial DAG",
		StartDate:   time.Date(2025, 10, 24, 0, 0, 0, 0, time.Local),
		Schedule:    "@daily",
		Catchup:     false,
		Tags:        []string{"tutorial"},
		Tasks:       []Task{GreetingTask(w, now)},
	}
}

// PipelineRunner is satisfied by *pipeline.Runner
type PipelineRunner interface {
	Run(ctx context.Context, runID string) (model.RunResult, error)
}

// PostsDAG runs the posts ETL once a day. A failed fetch fails the task.
func PostsDAG(runner PipelineRunner) *DAG {
	return &DAG{
		ID:          "posts_etl",
		Description: "Fetch posts, keep user 1, save processed_posts.csv",
		Schedule:    "@daily",
		Tags:        []string{"etl"},
		Tasks: []Task{{
			ID: "fetch_transform_save",
			Run: func(ctx context.Context) error {
				res, err := runner.Run(ctx, uuid.New().String())
				if err != nil {
					return err
				}
				return res.FetchErr
			},
		}},
	}
}
