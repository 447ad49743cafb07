package jobs

import (
	"sync"
	"time"

	"github.com/gcbaptista/go-xor-breaker/model"
)

// JobMetricsData is a point-in-time copy of the job counters.
type JobMetricsData struct {
	JobsCreated          int64                     `json:"jobs_created"`
	JobsCompleted        int64                     `json:"jobs_completed"`
	JobsFailed           int64                     `json:"jobs_failed"`
	JobsCancelled        int64                     `json:"jobs_cancelled"`
	SuccessRate          float64                   `json:"success_rate"`
	CurrentWorkload      int64                     `json:"current_workload"`
	TotalExecutionTime   time.Duration             `json:"total_execution_time_ns"`
	AverageExecutionTime time.Duration             `json:"average_execution_time_ns"`
	JobsByType           map[model.JobType]int64   `json:"jobs_by_type"`
	JobsByStatus         map[model.JobStatus]int64 `json:"jobs_by_status"`
	Searches             SearchMetrics             `json:"searches"`
	LastUpdated          time.Time                 `json:"last_updated"`
}

// SearchMetrics aggregates the key searches run by completed crack jobs.
type SearchMetrics struct {
	Count         int64            `json:"count"`
	KeysExamined  int64            `json:"keys_examined"`
	StoppedEarly  int64            `json:"stopped_early"`
	SearchTime    time.Duration    `json:"search_time_ns"`
	KeysPerSecond float64          `json:"keys_per_second"`
	ByStrategy    map[string]int64 `json:"by_strategy"`
}

// JobMetrics tracks counts and timings of background jobs. The zero value is
// not usable; call NewJobMetrics.
type JobMetrics struct {
	mu sync.RWMutex

	created, completed, failed, cancelled int64
	execTime                              time.Duration
	byType                                map[model.JobType]int64
	byStatus                              map[model.JobStatus]int64
	searches                              SearchMetrics
	updated                               time.Time
}

// NewJobMetrics creates a new metrics collector
func NewJobMetrics() *JobMetrics {
	return &JobMetrics{
		byType:   make(map[model.JobType]int64),
		byStatus: make(map[model.JobStatus]int64),
		searches: SearchMetrics{ByStrategy: make(map[string]int64)},
		updated:  time.Now(),
	}
}

func (m *JobMetrics) update(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn()
	m.updated = time.Now()
}

// RecordJobCreated counts a new pending job
func (m *JobMetrics) RecordJobCreated(jobType model.JobType) {
	m.update(func() {
		m.created++
		m.byType[jobType]++
		m.byStatus[model.JobStatusPending]++
	})
}

// RecordJobStatusChange moves one job between status buckets
func (m *JobMetrics) RecordJobStatusChange(oldStatus, newStatus model.JobStatus) {
	m.update(func() {
		if oldStatus != "" && m.byStatus[oldStatus] > 0 {
			m.byStatus[oldStatus]--
		}
		m.byStatus[newStatus]++
	})
}

// RecordJobCompleted records a successful job and how long it ran
func (m *JobMetrics) RecordJobCompleted(_ model.JobType, executionTime time.Duration) {
	m.update(func() {
		m.completed++
		m.execTime += executionTime
	})
}

// RecordJobFailed records job failure
func (m *JobMetrics) RecordJobFailed(_ model.JobType) {
	m.update(func() { m.failed++ })
}

// RecordJobCancelled records a job that ended through cancellation
func (m *JobMetrics) RecordJobCancelled(_ model.JobType) {
	m.update(func() { m.cancelled++ })
}

// RecordSearch adds one finished key search to the search totals.
func (m *JobMetrics) RecordSearch(strategy string, keysExamined int, elapsed time.Duration, stoppedEarly bool) {
	m.update(func() {
		s := &m.searches
		s.Count++
		s.KeysExamined += int64(keysExamined)
		s.SearchTime += elapsed
		s.ByStrategy[strategy]++
		if stoppedEarly {
			s.StoppedEarly++
		}
		if s.SearchTime > 0 {
			s.KeysPerSecond = float64(s.KeysExamined) / s.SearchTime.Seconds()
		}
	})
}

// GetMetrics returns a copy of the current metrics
func (m *JobMetrics) GetMetrics() JobMetricsData {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data := JobMetricsData{
		JobsCreated:        m.created,
		JobsCompleted:      m.completed,
		JobsFailed:         m.failed,
		JobsCancelled:      m.cancelled,
		SuccessRate:        m.successRateLocked(),
		CurrentWorkload:    m.workloadLocked(),
		TotalExecutionTime: m.execTime,
		JobsByType:         make(map[model.JobType]int64, len(m.byType)),
		JobsByStatus:       make(map[model.JobStatus]int64, len(m.byStatus)),
		Searches:           m.searches,
		LastUpdated:        m.updated,
	}
	if m.completed > 0 {
		data.AverageExecutionTime = m.execTime / time.Duration(m.completed)
	}
	for k, v := range m.byType {
		data.JobsByType[k] = v
	}
	for k, v := range m.byStatus {
		data.JobsByStatus[k] = v
	}
	data.Searches.ByStrategy = make(map[string]int64, len(m.searches.ByStrategy))
	for k, v := range m.searches.ByStrategy {
		data.Searches.ByStrategy[k] = v
	}
	return data
}

// Cancelled jobs count toward neither side of the rate.
func (m *JobMetrics) successRateLocked() float64 {
	finished := m.completed + m.failed
	if finished == 0 {
		return 1.0
	}
	return float64(m.completed) / float64(finished)
}

// workloadLocked counts jobs that have not finished yet.
func (m *JobMetrics) workloadLocked() int64 {
	return m.byStatus[model.JobStatusPending] +
		m.byStatus[model.JobStatusRunning] +
		m.byStatus[model.JobStatusCancelling]
}
