package services

import (
	"context"

	"github.com/gcbaptista/go-xor-breaker/config"
	"github.com/gcbaptista/go-xor-breaker/internal/jobs"
	"github.com/gcbaptista/go-xor-breaker/internal/xorcipher"
	"github.com/gcbaptista/go-xor-breaker/model"
)

// CrackOptions override the configured search settings for one request.
// Zero values fall back to the engine settings.
type CrackOptions struct {
	Strategy       string `json:"strategy,omitempty"`         // "canonical" or "fast"
	Workers        int    `json:"workers,omitempty"`          // parallel workers, 0 = configured
	EarlyStop      *bool  `json:"early_stop,omitempty"`       // stop at EarlyStopScore
	EarlyStopScore *int   `json:"early_stop_score,omitempty"` // threshold for EarlyStop
}

// Cracker recovers the key of a ciphertext
type Cracker interface {
	Crack(ctx context.Context, ciphertext []byte, source string, opts CrackOptions) (*model.CrackResult, error)
	CrackFile(ctx context.Context, path string, opts CrackOptions) (*model.CrackResult, error)
}

// AsyncCracker runs key searches as background jobs
type AsyncCracker interface {
	CrackAsync(ciphertext []byte, source string, opts CrackOptions) (string, error) // Returns job ID
	GetResult(jobID string) (*model.CrackResult, error)
}

// Cipher applies the 2-byte XOR transform with a known key
type Cipher interface {
	Encrypt(data []byte, key xorcipher.Key) []byte
	Decrypt(data []byte, key xorcipher.Key) []byte
}

// ResultStore lists and removes archived crack results
type ResultStore interface {
	ListResults() []*model.CrackResult
	DeleteResult(jobID string) error
}

// JobManager defines operations for managing background jobs
type JobManager interface {
	GetJob(jobID string) (*model.Job, error)
	ListJobs(status *model.JobStatus) []*model.Job
	CancelJob(jobID string) error
}

// Breaker is everything the HTTP API needs from the engine
type Breaker interface {
	Cracker
	AsyncCracker
	Cipher
	JobManager
	ResultStore
	Settings() config.Settings
}

// JobMetricsProvider exposes job counters and timings
type JobMetricsProvider interface {
	GetJobMetrics() jobs.JobMetricsData
}
