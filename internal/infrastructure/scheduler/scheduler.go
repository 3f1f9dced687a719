package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

var (
	ErrSchedulerNotRunning = errors.New("refresh scheduler is not running")
	ErrJobQueueFull        = errors.New("refresh queue is full")
	ErrInvalidConfig       = errors.New("invalid refresh scheduler configuration")
)

// JobStatus represents the status of a refresh job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// Job refreshes the cached notifications of one project
type Job struct {
	ID          uuid.UUID
	ProjectID   uuid.UUID
	Status      JobStatus
	Error       string
	StartedAt   *time.Time
	CompletedAt *time.Time
	RetryCount  int
	MaxRetries  int
}

// NewJob creates a pending job for a project
func NewJob(projectID uuid.UUID, maxRetries int) *Job {
	return &Job{
		ID:         uuid.New(),
		ProjectID:  projectID,
		Status:     JobStatusPending,
		MaxRetries: maxRetries,
	}
}

// Start marks the job as running
func (j *Job) Start() {
	now := time.Now()
	j.Status = JobStatusRunning
	j.StartedAt = &now
	j.Error = ""
}

// Complete marks the job as successful
func (j *Job) Complete() {
	now := time.Now()
	j.Status = JobStatusSuccess
	j.CompletedAt = &now
}

// Fail marks the job as failed
func (j *Job) Fail(err string) {
	now := time.Now()
	j.Status = JobStatusFailed
	j.CompletedAt = &now
	j.Error = err
}

// ShouldRetry returns true if the job should be retried
func (j *Job) ShouldRetry() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// ScheduleRetry returns the job to pending and reports the backoff before the next attempt.
// The delay doubles with every retry.
func (j *Job) ScheduleRetry(base time.Duration) time.Duration {
	j.RetryCount++
	j.Status = JobStatusPending
	j.Error = ""
	return base * time.Duration(1<<(j.RetryCount-1))
}

// JobExecutor runs refresh jobs
type JobExecutor interface {
	Execute(ctx context.Context, job *Job) error
}

// JobExecutorFunc adapts a function to JobExecutor
type JobExecutorFunc func(ctx context.Context, job *Job) error

func (f JobExecutorFunc) Execute(ctx context.Context, job *Job) error {
	return f(ctx, job)
}

// SchedulerConfig holds worker pool configuration
type SchedulerConfig struct {
	Workers       int
	QueueSize     int
	JobTimeout    time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

// DefaultSchedulerConfig returns default scheduler configuration
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Workers:       4,
		QueueSize:     256,
		JobTimeout:    30 * time.Second,
		RetryAttempts: 3,
		RetryDelay:    10 * time.Second,
	}
}

// ConfigFromNotification builds a scheduler configuration from application settings
func ConfigFromNotification(cfg config.NotificationConfig) SchedulerConfig {
	out := DefaultSchedulerConfig()
	if cfg.Workers > 0 {
		out.Workers = cfg.Workers
	}
	if cfg.JobTimeout > 0 {
		out.JobTimeout = cfg.JobTimeout
	}
	if cfg.RetryAttempts >= 0 {
		out.RetryAttempts = cfg.RetryAttempts
	}
	if cfg.RetryDelay > 0 {
		out.RetryDelay = cfg.RetryDelay
	}
	return out
}

// Validate checks the configuration
func (c SchedulerConfig) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1", ErrInvalidConfig)
	}
	if c.QueueSize < 1 {
		return fmt.Errorf("%w: queue size must be at least 1", ErrInvalidConfig)
	}
	if c.JobTimeout <= 0 {
		return fmt.Errorf("%w: job timeout must be positive", ErrInvalidConfig)
	}
	if c.RetryAttempts < 0 {
		return fmt.Errorf("%w: retry attempts cannot be negative", ErrInvalidConfig)
	}
	return nil
}

// flight tracks the job a project has queued or running
type flight struct {
	running bool
	rerun   bool
}

// Scheduler runs refresh jobs on a fixed pool of workers.
// A project never has two jobs queued or running at the same time; a submit
// that arrives while its job runs schedules one more run after it.
type Scheduler struct {
	config   SchedulerConfig
	executor JobExecutor
	logger   *zap.Logger

	jobs      chan *Job
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	inFlight  map[uuid.UUID]*flight
	retries   map[uuid.UUID]*time.Timer
}

// NewScheduler creates a new scheduler instance
func NewScheduler(config SchedulerConfig, executor JobExecutor, logger *zap.Logger) (*Scheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Scheduler{
		config:   config,
		executor: executor,
		logger:   logger,
		inFlight: make(map[uuid.UUID]*flight),
		retries:  make(map[uuid.UUID]*time.Timer),
	}, nil
}

// Start starts the worker pool
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	s.isRunning = true
	s.jobs = make(chan *Job, s.config.QueueSize)
	s.inFlight = make(map[uuid.UUID]*flight)

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for i := 0; i < s.config.Workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i, s.jobs)
	}

	s.logger.Info("Refresh scheduler started",
		zap.Int("workers", s.config.Workers),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)
	return nil
}

// Stop gracefully stops the scheduler, dropping queued jobs and pending retries
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	for id, t := range s.retries {
		t.Stop()
		delete(s.retries, id)
	}
	close(s.jobs)
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Refresh scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Refresh scheduler stop timed out")
		return ctx.Err()
	}
}

// IsRunning reports whether the worker pool accepts jobs
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// Submit queues a refresh for a project. It reports false when the project
// already has a job waiting that will read the latest state.
func (s *Scheduler) Submit(projectID uuid.UUID) (bool, error) {
	return s.enqueue(NewJob(projectID, s.config.RetryAttempts), false)
}

// SubmitAll queues a refresh for every project, skipping those already in flight
func (s *Scheduler) SubmitAll(projectIDs []uuid.UUID) (int, error) {
	queued := 0
	for _, id := range projectIDs {
		ok, err := s.Submit(id)
		if err != nil {
			return queued, err
		}
		if ok {
			queued++
		}
	}
	return queued, nil
}

func (s *Scheduler) enqueue(job *Job, retry bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return false, ErrSchedulerNotRunning
	}
	if retry {
		delete(s.retries, job.ProjectID)
	} else if f, busy := s.inFlight[job.ProjectID]; busy {
		if f.running && !f.rerun {
			f.rerun = true
			return true, nil
		}
		return false, nil
	}
	return s.pushLocked(job)
}

// pushLocked hands job to the workers; s.mu must be held
func (s *Scheduler) pushLocked(job *Job) (bool, error) {
	select {
	case s.jobs <- job:
		s.inFlight[job.ProjectID] = &flight{}
		s.logger.Debug("Job submitted",
			zap.String("job_id", job.ID.String()),
			zap.String("project_id", job.ProjectID.String()),
			zap.Int("retry_count", job.RetryCount),
		)
		return true, nil
	default:
		delete(s.inFlight, job.ProjectID)
		return false, ErrJobQueueFull
	}
}

func (s *Scheduler) markRunning(projectID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.inFlight[projectID]; ok {
		f.running = true
	}
}

// release forgets a finished job and queues the rerun requested while it ran
func (s *Scheduler) release(projectID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.inFlight[projectID]
	delete(s.inFlight, projectID)
	if !ok || !f.rerun || !s.isRunning {
		return
	}
	if _, err := s.pushLocked(NewJob(projectID, s.config.RetryAttempts)); err != nil {
		s.logger.Warn("Failed to queue follow-up refresh",
			zap.String("project_id", projectID.String()),
			zap.Error(err),
		)
	}
}

// worker processes jobs from the queue
func (s *Scheduler) worker(ctx context.Context, workerID int, jobs <-chan *Job) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			s.processJob(ctx, job, workerID)
		}
	}
}

// processJob executes a single job
func (s *Scheduler) processJob(ctx context.Context, job *Job, workerID int) {
	job.Start()
	s.markRunning(job.ProjectID)

	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	err := s.executor.Execute(jobCtx, job)
	cancel()

	if err == nil {
		job.Complete()
		s.release(job.ProjectID)
		s.logger.Debug("Job completed",
			zap.Int("worker_id", workerID),
			zap.String("project_id", job.ProjectID.String()),
		)
		return
	}

	job.Fail(err.Error())
	s.logger.Error("Job failed",
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("project_id", job.ProjectID.String()),
		zap.Int("retry_count", job.RetryCount),
		zap.Error(err),
	)

	if !job.ShouldRetry() || ctx.Err() != nil {
		s.release(job.ProjectID)
		return
	}

	delay := job.ScheduleRetry(s.config.RetryDelay)
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		delete(s.inFlight, job.ProjectID)
		return
	}
	// the retry reads fresh state, so a pending rerun is folded into it
	s.inFlight[job.ProjectID] = &flight{}
	s.retries[job.ProjectID] = time.AfterFunc(delay, func() {
		if _, err := s.enqueue(job, true); err != nil {
			s.release(job.ProjectID)
			s.logger.Warn("Failed to re-queue job for retry",
				zap.String("project_id", job.ProjectID.String()),
				zap.Error(err),
			)
		}
	})
	s.logger.Info("Job scheduled for retry",
		zap.String("project_id", job.ProjectID.String()),
		zap.Int("retry_count", job.RetryCount),
		zap.Duration("delay", delay),
	)
}
