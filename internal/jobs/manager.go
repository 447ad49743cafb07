package jobs

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gcbaptista/go-xor-breaker/internal/errors"
	"github.com/gcbaptista/go-xor-breaker/internal/logging"
	"github.com/gcbaptista/go-xor-breaker/model"
)

// JobFunc is the work a job performs. It must return promptly once ctx is
// cancelled.
type JobFunc func(ctx context.Context, job *model.Job) error

// Manager handles background job execution and tracking
type Manager struct {
	mu       sync.RWMutex
	jobs     map[string]*model.Job
	cancels  map[string]context.CancelFunc
	done     map[string]chan struct{}
	workers  chan struct{} // Limits concurrent jobs
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	metrics  *JobMetrics
}

// NewManager creates a new job manager with specified worker count
func NewManager(maxWorkers int) *Manager {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &Manager{
		jobs:     make(map[string]*model.Job),
		cancels:  make(map[string]context.CancelFunc),
		done:     make(map[string]chan struct{}),
		workers:  make(chan struct{}, maxWorkers),
		stopChan: make(chan struct{}),
		metrics:  NewJobMetrics(),
	}
}

// Start begins the job manager and starts background cleanup
func (m *Manager) Start() {
	logging.Info().Int("max_workers", cap(m.workers)).Msg("job manager started")
	go m.cleanupRoutine()
}

// Stop cancels every unfinished job and waits for running ones to return.
// It is safe to call more than once.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)

		m.mu.Lock()
		for _, cancel := range m.cancels {
			cancel()
		}
		m.mu.Unlock()

		m.wg.Wait()
		logging.Info().Msg("job manager stopped")
	})
}

// CreateJob creates a new job and returns its ID
func (m *Manager) CreateJob(jobType model.JobType, source string, metadata map[string]string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	job := &model.Job{
		ID:        uuid.New().String(),
		Type:      jobType,
		Status:    model.JobStatusPending,
		Source:    source,
		CreatedAt: time.Now(),
		Metadata:  metadata,
	}

	m.jobs[job.ID] = job
	m.done[job.ID] = make(chan struct{})
	m.metrics.RecordJobCreated(jobType)
	logging.Debug().Str("job_id", job.ID).Str("type", string(job.Type)).Str("source", source).Msg("created job")
	return job.ID
}

// GetJob retrieves a copy of a job by ID
func (m *Manager) GetJob(jobID string) (*model.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return nil, errors.NewJobNotFoundError(jobID)
	}
	return copyJob(job), nil
}

// ListJobs returns all jobs, newest first, optionally filtered by status
func (m *Manager) ListJobs(status *model.JobStatus) []*model.Job {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*model.Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		if status == nil || job.Status == *status {
			result = append(result, copyJob(job))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

// ExecuteJob schedules a pending job. The job waits for a free worker slot
// in the background, so this call never blocks on other jobs.
func (m *Manager) ExecuteJob(jobID string, jobFunc JobFunc) error {
	m.mu.Lock()
	select {
	case <-m.stopChan:
		m.mu.Unlock()
		return fmt.Errorf("job manager is shutting down")
	default:
	}

	job, exists := m.jobs[jobID]
	if !exists {
		m.mu.Unlock()
		return errors.NewJobNotFoundError(jobID)
	}
	if job.Status != model.JobStatusPending {
		m.mu.Unlock()
		return fmt.Errorf("job with ID '%s' is not in pending status (current: %s)", jobID, job.Status)
	}
	if _, scheduled := m.cancels[jobID]; scheduled {
		m.mu.Unlock()
		return fmt.Errorf("job with ID '%s' is already scheduled", jobID)
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancels[jobID] = cancel
	m.wg.Add(1)
	m.mu.Unlock()

	go m.run(ctx, cancel, jobID, jobFunc)
	return nil
}

func (m *Manager) run(ctx context.Context, cancel context.CancelFunc, jobID string, jobFunc JobFunc) {
	defer m.wg.Done()
	defer cancel()

	select {
	case m.workers <- struct{}{}:
	case <-ctx.Done():
		m.finish(jobID, model.JobStatusCancelled, "job cancelled before it started")
		return
	}
	defer func() { <-m.workers }()

	job, ok := m.markRunning(jobID)
	if !ok {
		m.finish(jobID, model.JobStatusCancelled, "job cancelled before it started")
		return
	}

	startTime := time.Now()
	err := jobFunc(ctx, job)
	executionTime := time.Since(startTime)

	switch {
	case err != nil && ctx.Err() != nil:
		m.finish(jobID, model.JobStatusCancelled, "job cancelled")
		logging.Info().Str("job_id", jobID).Dur("elapsed", executionTime).Msg("job cancelled")
	case err != nil:
		m.finish(jobID, model.JobStatusFailed, err.Error())
		m.metrics.RecordJobFailed(job.Type)
		logging.Warn().Str("job_id", jobID).Dur("elapsed", executionTime).Err(err).Msg("job failed")
	default:
		m.finish(jobID, model.JobStatusCompleted, "")
		m.metrics.RecordJobCompleted(job.Type, executionTime)
		logging.Info().Str("job_id", jobID).Dur("elapsed", executionTime).Msg("job completed")
	}
}

// markRunning moves a pending job to running and returns a copy for the job
// function. It fails if the job was cancelled while queued.
func (m *Manager) markRunning(jobID string) (*model.Job, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists || job.Status != model.JobStatusPending {
		return nil, false
	}
	oldStatus := job.Status
	job.Status = model.JobStatusRunning
	now := time.Now()
	job.StartedAt = &now
	m.metrics.RecordJobStatusChange(oldStatus, job.Status)
	return copyJob(job), true
}

// CancelJob requests cancellation of a pending or running job. Cancelling
// a finished job is an error; cancelling twice is not.
func (m *Manager) CancelJob(jobID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return errors.NewJobNotFoundError(jobID)
	}
	if job.Status.IsTerminal() {
		return fmt.Errorf("job with ID '%s' already finished (status: %s)", jobID, job.Status)
	}

	cancel, scheduled := m.cancels[jobID]
	if !scheduled {
		// Never handed to ExecuteJob: nothing runs, so finish it here.
		m.setStatusLocked(job, model.JobStatusCancelled, "job cancelled before it started")
		m.closeDoneLocked(jobID)
		return nil
	}
	if job.Status != model.JobStatusCancelling {
		m.setStatusLocked(job, model.JobStatusCancelling, "")
	}
	cancel()
	return nil
}

// Done returns a channel closed once the job reaches a terminal status.
func (m *Manager) Done(jobID string) (<-chan struct{}, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ch, exists := m.done[jobID]
	if !exists {
		return nil, errors.NewJobNotFoundError(jobID)
	}
	return ch, nil
}

// Wait blocks until the job finishes or ctx ends, and returns the final job.
func (m *Manager) Wait(ctx context.Context, jobID string) (*model.Job, error) {
	ch, err := m.Done(jobID)
	if err != nil {
		return nil, err
	}
	select {
	case <-ch:
		return m.GetJob(jobID)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// UpdateJobProgress updates the progress of a running job
func (m *Manager) UpdateJobProgress(jobID string, current, total int, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return
	}

	if job.Progress == nil {
		job.Progress = &model.JobProgress{}
	}

	job.Progress.Current = current
	job.Progress.Total = total
	job.Progress.Message = message
}

func (m *Manager) finish(jobID string, status model.JobStatus, errorMsg string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return
	}
	if !job.Status.IsTerminal() {
		m.setStatusLocked(job, status, errorMsg)
	}
	delete(m.cancels, jobID)
	m.closeDoneLocked(jobID)
}

func (m *Manager) setStatusLocked(job *model.Job, status model.JobStatus, errorMsg string) {
	oldStatus := job.Status
	job.Status = status
	if errorMsg != "" {
		job.Error = errorMsg
	}
	if status.IsTerminal() {
		now := time.Now()
		job.CompletedAt = &now
	}
	if status == model.JobStatusCancelled {
		m.metrics.RecordJobCancelled(job.Type)
	}
	m.metrics.RecordJobStatusChange(oldStatus, status)
}

func (m *Manager) closeDoneLocked(jobID string) {
	if ch, ok := m.done[jobID]; ok {
		select {
		case <-ch:
		default:
			close(ch)
		}
	}
}

// cleanupRoutine runs periodic job cleanup
func (m *Manager) cleanupRoutine() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.CleanupOldJobs(24 * time.Hour)
		case <-m.stopChan:
			return
		}
	}
}

// CleanupOldJobs removes finished jobs older than maxAge and returns their IDs
func (m *Manager) CleanupOldJobs(maxAge time.Duration) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	var removed []string

	for jobID, job := range m.jobs {
		if job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
			delete(m.jobs, jobID)
			delete(m.done, jobID)
			removed = append(removed, jobID)
		}
	}

	if len(removed) > 0 {
		logging.Info().Int("count", len(removed)).Msg("cleaned up old jobs")
	}
	return removed
}

// GetMetrics returns current job performance metrics
func (m *Manager) GetMetrics() JobMetricsData {
	return m.metrics.GetMetrics()
}

// RecordSearch adds a finished key search to the metrics.
func (m *Manager) RecordSearch(strategy string, keysExamined int, elapsed time.Duration, stoppedEarly bool) {
	m.metrics.RecordSearch(strategy, keysExamined, elapsed, stoppedEarly)
}

func copyJob(job *model.Job) *model.Job {
	jobCopy := *job
	if job.Progress != nil {
		progressCopy := *job.Progress
		jobCopy.Progress = &progressCopy
	}
	if job.Metadata != nil {
		jobCopy.Metadata = make(map[string]string, len(job.Metadata))
		for k, v := range job.Metadata {
			jobCopy.Metadata[k] = v
		}
	}
	return &jobCopy
}
