package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-etl-pipeline/internal/model"
)

func setup(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunLifecycle(t *testing.T) {
	db := setup(t)
	ctx := context.Background()

	require.NoError(t, db.CreateRun(ctx, model.Run{
		ID:         "run-1",
		SourceURL:  "https://jsonplaceholder.typicode.com/posts",
		OutputPath: "processed_posts.csv",
	}))

	run, err := db.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, model.RunPending, run.Status)
	assert.False(t, run.CreatedAt.IsZero())

	// upsert moves an existing run to the new status
	require.NoError(t, db.CreateRun(ctx, model.Run{ID: "run-1", Status: model.RunRunning}))
	run, err = db.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, model.RunRunning, run.Status)

	require.NoError(t, db.FinishRun(ctx, model.RunResult{
		RunID:   "run-1",
		Status:  model.RunCompleted,
		Fetched: 100,
		Kept:    10,
		Written: true,
	}))

	run, err = db.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, model.RunCompleted, run.Status)
	assert.Equal(t, 100, run.Fetched)
	assert.Equal(t, 10, run.Kept)
	assert.True(t, run.Written)
	assert.Empty(t, run.Error)
}

func TestGetRunNotFound(t *testing.T) {
	db := setup(t)

	_, err := db.GetRun(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)

	err = db.FinishRun(context.Background(), model.RunResult{RunID: "missing", Status: model.RunFailed})
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestListRunsNewestFirst(t *testing.T) {
	db := setup(t)
	ctx := context.Background()

	base := time.Date(2025, 10, 24, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, db.CreateRun(ctx, model.Run{
			ID:        id,
			SourceURL: "u",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	runs, err := db.ListRuns(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(runs))
	for _, r := range runs {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"c", "b", "a"}, ids)
}

func TestListRunsEmpty(t *testing.T) {
	runs, err := setup(t).ListRuns(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}
