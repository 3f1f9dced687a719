package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProjectLister provides the projects to refresh on every cycle
type ProjectLister interface {
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}

// TriggerConfig holds configuration for the interval trigger
type TriggerConfig struct {
	Interval     time.Duration
	RunOnStartup bool
}

// IntervalTrigger submits a refresh of every project at a fixed interval
type IntervalTrigger struct {
	config    TriggerConfig
	scheduler *Scheduler
	projects  ProjectLister
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	lastRun   time.Time
}

// NewIntervalTrigger creates a new interval trigger
func NewIntervalTrigger(config TriggerConfig, scheduler *Scheduler, projects ProjectLister, logger *zap.Logger) *IntervalTrigger {
	return &IntervalTrigger{
		config:    config,
		scheduler: scheduler,
		projects:  projects,
		logger:    logger,
	}
}

// Start starts the trigger loop
func (t *IntervalTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	if t.config.Interval <= 0 {
		t.mu.Unlock()
		return ErrInvalidConfig
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.runLoop(ctx)

	t.logger.Info("Refresh trigger started",
		zap.Duration("interval", t.config.Interval),
		zap.Bool("run_on_startup", t.config.RunOnStartup),
	)
	return nil
}

// Stop stops the trigger loop
func (t *IntervalTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Refresh trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LastRun returns when the trigger last queued a cycle
func (t *IntervalTrigger) LastRun() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastRun
}

func (t *IntervalTrigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	if t.config.RunOnStartup {
		t.TriggerAll(ctx)
	}

	ticker := time.NewTicker(t.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.TriggerAll(ctx)
		}
	}
}

// TriggerAll queues a refresh of every project and returns how many were queued
func (t *IntervalTrigger) TriggerAll(ctx context.Context) int {
	ids, err := t.projects.ListIDs(ctx)
	if err != nil {
		t.logger.Error("Failed to list projects for refresh", zap.Error(err))
		return 0
	}

	queued, err := t.scheduler.SubmitAll(ids)
	if err != nil {
		t.logger.Error("Failed to queue project refreshes",
			zap.Int("queued", queued),
			zap.Int("project_count", len(ids)),
			zap.Error(err),
		)
	} else {
		t.logger.Info("Queued project refreshes",
			zap.Int("queued", queued),
			zap.Int("project_count", len(ids)),
		)
	}

	t.mu.Lock()
	t.lastRun = time.Now()
	t.mu.Unlock()
	return queued
}
