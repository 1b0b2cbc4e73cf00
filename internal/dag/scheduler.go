package dag

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs registered DAGs on their cron schedules
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
	now    func() time.Time

	mu     sync.RWMutex
	runCtx context.Context
	dags   map[string]cron.EntryID
}

// NewScheduler creates a scheduler in the local time zone
func NewScheduler(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:   cron.New(),
		logger: logger,
		now:    time.Now,
		runCtx: context.Background(),
		dags:   make(map[string]cron.EntryID),
	}
}

// Register validates d and adds it to the schedule
func (s *Scheduler) Register(d *DAG) error {
	if err := d.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.dags[d.ID]; ok {
		return fmt.Errorf("dag %s is already registered", d.ID)
	}

	id, err := s.cron.AddFunc(d.Schedule, func() { s.runScheduled(d) })
	if err != nil {
		return fmt.Errorf("dag %s: %w", d.ID, err)
	}
	s.dags[d.ID] = id
	s.logger.Info("Registered DAG",
		zap.String("dag", d.ID),
		zap.String("schedule", d.Schedule),
		zap.Strings("tags", d.Tags),
	)
	return nil
}

// Next returns the next scheduled time of a registered DAG; zero before Start
func (s *Scheduler) Next(dagID string) (time.Time, bool) {
	s.mu.RLock()
	id, ok := s.dags[dagID]
	s.mu.RUnlock()
	if !ok {
		return time.Time{}, false
	}
	return s.cron.Entry(id).Next, true
}

func (s *Scheduler) runScheduled(d *DAG) {
	now := s.now()
	if !d.StartDate.IsZero() && now.Before(d.StartDate) {
		s.logger.Debug("Skipping run before start date", zap.String("dag", d.ID), zap.Time("start_date", d.StartDate))
		return
	}

	s.mu.RLock()
	ctx := s.runCtx
	s.mu.RUnlock()

	s.logger.Info("Running DAG", zap.String("dag", d.ID))
	start := time.Now()
	if err := d.Trigger(ctx); err != nil {
		s.logger.Error("DAG run failed", zap.String("dag", d.ID), zap.Error(err))
		return
	}
	s.logger.Info("DAG run finished", zap.String("dag", d.ID), zap.Duration("duration", time.Since(start)))
}

// Start runs the schedule until ctx is done, then waits for in-flight tasks to finish.
// Tasks receive ctx, so they observe the same cancellation.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	s.runCtx = ctx
	s.mu.Unlock()

	s.cron.Start()
	s.logger.Info("Scheduler started", zap.Int("dags", len(s.cron.Entries())))

	<-ctx.Done()

	stopped := s.cron.Stop()
	<-stopped.Done()
	s.logger.Info("Scheduler stopped")
	return nil
}
