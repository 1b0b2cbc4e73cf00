package handler

import (
	"context"
	"encoding/json"
	"errors"
	"go-etl-pipeline/internal/model"
	"go-etl-pipeline/internal/pipeline"
	"go-etl-pipeline/internal/store"
	"go-etl-pipeline/pkg/utils"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const runsPrefix = "/api/v1/runs/"

// RunStore is the run history the handlers read and write
type RunStore interface {
	pipeline.RunStore
	GetRun(ctx context.Context, runID string) (model.Run, error)
	ListRuns(ctx context.Context) ([]model.Run, error)
}

// Config holds what every API-triggered run shares
type Config struct {
	SourceURL  string
	FileName   string
	UserID     int
	RunTimeout time.Duration
}

// Handler serves the runs API
type Handler struct {
	store   RunStore
	fetcher pipeline.Fetcher
	outputs *utils.OutputManager
	cfg     Config
	logger  *zap.Logger

	// base is cancelled by Shutdown; background runs derive from it
	base   context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a runs API handler
func New(st RunStore, fetcher pipeline.Fetcher, outputs *utils.OutputManager, cfg Config, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 5 * time.Minute
	}
	base, cancel := context.WithCancel(context.Background())
	return &Handler{
		store:   st,
		fetcher: fetcher,
		outputs: outputs,
		cfg:     cfg,
		logger:  logger,
		base:    base,
		cancel:  cancel,
	}
}

// Wait blocks until every background run has finished
func (h *Handler) Wait() {
	h.wg.Wait()
}

// Shutdown cancels in-flight runs and waits for them
func (h *Handler) Shutdown() {
	h.cancel()
	h.wg.Wait()
}

// CreateRunRequest is the optional body of POST /runs
type CreateRunRequest struct {
	UserID *int `json:"userId,omitempty"`
}

// CreateRunResponse is returned by POST /runs
type CreateRunResponse struct {
	Message     string          `json:"message"`
	RunID       string          `json:"runID"`
	Status      model.RunStatus `json:"status"`
	DownloadURL string          `json:"downloadURL"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// RunResponse is a stored run plus its download link
type RunResponse struct {
	model.Run
	DownloadURL string `json:"download_url,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// CreateRun starts a new pipeline run
// @Summary Start a pipeline run
// @Description Fetch posts, keep one user's posts, derive title_length and save a CSV. The run continues in the background.
// @Tags runs
// @Accept json
// @Produce json
// @Param run body CreateRunRequest false "Optional overrides"
// @Success 202 {object} CreateRunResponse "Run started"
// @Failure 400 {object} map[string]interface{} "Invalid request payload"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs [post]
func (h *Handler) CreateRun(w http.ResponseWriter, r *http.Request) {
	var req CreateRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	userID := h.cfg.UserID
	if req.UserID != nil {
		userID = *req.UserID
	}

	runID := uuid.New().String()
	outputPath, err := h.outputs.GetOutputFilePath(runID, h.cfg.FileName)
	if err != nil {
		h.logger.Error("Failed to prepare output directory", zap.Error(err))
		http.Error(w, "Failed to prepare output", http.StatusInternalServerError)
		return
	}

	now := time.Now().UTC()
	if err := h.store.CreateRun(r.Context(), model.Run{
		ID:         runID,
		SourceURL:  h.cfg.SourceURL,
		OutputPath: outputPath,
		Status:     model.RunPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}); err != nil {
		h.logger.Error("Failed to save run", zap.Error(err))
		http.Error(w, "Failed to save run", http.StatusInternalServerError)
		return
	}

	runner := &pipeline.Runner{
		Fetcher:    h.fetcher,
		SourceURL:  h.cfg.SourceURL,
		OutputPath: outputPath,
		UserID:     userID,
		Store:      h.store,
		Logger:     h.logger,
	}

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		ctx, cancel := context.WithTimeout(h.base, h.cfg.RunTimeout)
		defer cancel()
		if _, err := runner.Run(ctx, runID); err != nil {
			h.logger.Error("Run failed", zap.String("run_id", runID), zap.Error(err))
		}
	}()

	writeJSON(w, http.StatusAccepted, CreateRunResponse{
		Message:     "Run started",
		RunID:       runID,
		Status:      model.RunPending,
		DownloadURL: h.outputs.GetDownloadURL(runID),
		CreatedAt:   now,
	})
}

// ListRuns retrieves all runs
// @Summary List runs
// @Description Get every pipeline run, newest first
// @Tags runs
// @Produce json
// @Success 200 {array} model.Run "List of runs"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs [get]
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.store.ListRuns(r.Context())
	if err != nil {
		http.Error(w, "Failed to fetch runs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

// runIDFromPath extracts the run ID between runsPrefix and suffix
func runIDFromPath(path, suffix string) (string, bool) {
	if !strings.HasPrefix(path, runsPrefix) || !strings.HasSuffix(path, suffix) {
		return "", false
	}
	runID := path[len(runsPrefix) : len(path)-len(suffix)]
	if runID == "" || strings.Contains(runID, "/") {
		return "", false
	}
	return runID, true
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request, suffix string) (model.Run, bool) {
	runID, ok := runIDFromPath(r.URL.Path, suffix)
	if !ok {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return model.Run{}, false
	}

	run, err := h.store.GetRun(r.Context(), runID)
	if errors.Is(err, store.ErrRunNotFound) {
		http.Error(w, "Run not found", http.StatusNotFound)
		return model.Run{}, false
	}
	if err != nil {
		http.Error(w, "Failed to fetch run", http.StatusInternalServerError)
		return model.Run{}, false
	}
	return run, true
}

// GetRun retrieves a specific run
// @Summary Get run
// @Description Retrieve the status and counters of a pipeline run
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} RunResponse "Run details"
// @Failure 400 {object} map[string]interface{} "Invalid run ID"
// @Failure 404 {object} map[string]interface{} "Run not found"
// @Router /runs/{id} [get]
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	run, ok := h.lookup(w, r, "")
	if !ok {
		return
	}
	resp := RunResponse{Run: run}
	if run.Written {
		resp.DownloadURL = h.outputs.GetDownloadURL(run.ID)
	}
	writeJSON(w, http.StatusOK, resp)
}

// DownloadRun serves the CSV written by a run
// @Summary Download run output
// @Description Download processed_posts.csv produced by a completed run
// @Tags runs
// @Produce text/csv
// @Param id path string true "Run ID"
// @Success 200 {file} file "CSV file"
// @Failure 404 {object} map[string]interface{} "Run or output not found"
// @Router /runs/{id}/download [get]
func (h *Handler) DownloadRun(w http.ResponseWriter, r *http.Request) {
	run, ok := h.lookup(w, r, "/download")
	if !ok {
		return
	}
	if !run.Written {
		http.Error(w, "Run has no output", http.StatusNotFound)
		return
	}
	if _, err := h.outputs.GetFileSize(run.OutputPath); err != nil {
		http.Error(w, "Output file not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filepath.Base(run.OutputPath)+`"`)
	http.ServeFile(w, r, run.OutputPath)
}
