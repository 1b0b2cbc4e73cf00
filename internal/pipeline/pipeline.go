package pipeline

import (
	"context"
	"errors"
	"fmt"
	"go-etl-pipeline/internal/model"
	"time"

	"go.uber.org/zap"
)

// RunStore records run lifecycle. *store.DB satisfies it.
type RunStore interface {
	CreateRun(ctx context.Context, run model.Run) error
	FinishRun(ctx context.Context, result model.RunResult) error
}

// Runner wires Fetcher → Transform → Sink for one source and destination
type Runner struct {
	Fetcher    Fetcher
	SourceURL  string
	OutputPath string
	UserID     int
	// Store is optional; when nil runs are not recorded
	Store  RunStore
	Logger *zap.Logger
}

// ------------------- Pipeline Runner -------------------

// Run executes the pipeline once. A failed fetch is logged and reported through
// RunResult.FetchErr with status failed; in that case nothing is written and any
// existing output file is left as it was. The returned error is reserved for
// sink and run-store failures.
func (r *Runner) Run(ctx context.Context, runID string) (model.RunResult, error) {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("run_id", runID))

	start := time.Now()
	result := model.RunResult{
		RunID:      runID,
		Status:     model.RunRunning,
		SourceURL:  r.SourceURL,
		OutputPath: r.OutputPath,
	}

	if r.Store != nil {
		now := time.Now().UTC()
		// recorded even when ctx is already done so the run is closed by finish below
		err := r.Store.CreateRun(context.WithoutCancel(ctx), model.Run{
			ID:         runID,
			SourceURL:  r.SourceURL,
			OutputPath: r.OutputPath,
			Status:     model.RunRunning,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			return result, fmt.Errorf("failed to record run: %w", err)
		}
	}

	logger.Info("Starting pipeline", zap.String("url", r.SourceURL), zap.String("output", r.OutputPath))

	// --- INGESTION STAGE ---
	set, err := r.Fetcher.Fetch(ctx, r.SourceURL)
	if err != nil {
		if !errors.Is(err, ErrFetchFailed) {
			err = &FetchError{Kind: KindTransport, URL: r.SourceURL, Err: err}
		}
		logger.Error("Error fetching data", zap.String("stage", "ingestion"), zap.Error(err))
		set = nil
		result.FetchErr = err
	}
	result.Fetched = set.Len()

	// --- TRANSFORMATION STAGE ---
	table := Transform(set, r.UserID)
	result.Kept = table.Len()
	if table != nil {
		logger.Info("Processed records",
			zap.String("stage", "transformation"),
			zap.Int("original", result.Fetched),
			zap.Int("processed", result.Kept),
		)
	}

	// --- EXPORT STAGE ---
	written, err := WriteCSV(r.OutputPath, table)
	if err != nil {
		err = fmt.Errorf("export to %s: %w", r.OutputPath, err)
		logger.Error("Error saving data", zap.String("stage", "export"), zap.Error(err))
		result.Status = model.RunFailed
		result.Err = err
		result.Duration = time.Since(start)
		if ferr := r.finish(ctx, logger, result); ferr != nil {
			return result, errors.Join(err, ferr)
		}
		return result, err
	}
	result.Written = written
	if written {
		logger.Info("Successfully saved data", zap.String("stage", "export"), zap.String("file", r.OutputPath))
	}

	result.Status = model.RunCompleted
	if result.FetchErr != nil {
		result.Status = model.RunFailed
	}
	result.Duration = time.Since(start)

	if err := r.finish(ctx, logger, result); err != nil {
		return result, err
	}

	logger.Info("Pipeline finished",
		zap.String("status", string(result.Status)),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

func (r *Runner) finish(ctx context.Context, logger *zap.Logger, result model.RunResult) error {
	if r.Store == nil {
		return nil
	}
	// the run must be closed even if ctx was cancelled mid-run
	if err := r.Store.FinishRun(context.WithoutCancel(ctx), result); err != nil {
		logger.Error("Failed to record run result", zap.Error(err))
		return fmt.Errorf("failed to record run result: %w", err)
	}
	return nil
}
