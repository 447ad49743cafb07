package engine

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gcbaptista/go-xor-breaker/internal/errors"
	"github.com/gcbaptista/go-xor-breaker/internal/jobs"
	"github.com/gcbaptista/go-xor-breaker/internal/logging"
	"github.com/gcbaptista/go-xor-breaker/internal/persistence"
	"github.com/gcbaptista/go-xor-breaker/model"
)

const (
	resultsDir    = "results"
	resultFileExt = ".gob"
)

func (e *Engine) resultPath(jobID string) string {
	return filepath.Join(e.dataDir, resultsDir, jobID+resultFileExt)
}

// storeResult keeps the result in memory and archives it. Archive failures
// are logged; the in-memory copy is still served.
func (e *Engine) storeResult(result *model.CrackResult) {
	e.mu.Lock()
	e.results[result.ID] = result
	e.mu.Unlock()

	save := persistence.SaveGob
	if e.settings.CompressResults {
		save = persistence.SaveGobCompressed
	}
	path := e.resultPath(result.ID)
	if err := save(path, result); err != nil {
		logging.Warn().Err(err).Str("job_id", result.ID).Str("path", path).Msg("failed to archive crack result")
		return
	}
	logging.Debug().Str("job_id", result.ID).Str("path", path).Msg("archived crack result")
}

// loadResultsFromDisk restores archived results. Unreadable files are
// skipped with a warning.
func (e *Engine) loadResultsFromDisk() {
	dir := filepath.Join(e.dataDir, resultsDir)
	items, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warn().Err(err).Str("dir", dir).Msg("failed to read results directory, no results loaded")
		}
		return
	}

	loaded := 0
	for _, item := range items {
		if item.IsDir() || !strings.HasSuffix(item.Name(), resultFileExt) {
			continue
		}
		path := filepath.Join(dir, item.Name())

		result := &model.CrackResult{}
		if err := persistence.LoadGob(path, result); err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("skipping unreadable result archive")
			continue
		}
		if result.ID != strings.TrimSuffix(item.Name(), resultFileExt) {
			logging.Warn().Str("path", path).Str("job_id", result.ID).Msg("result ID does not match file name, skipping")
			continue
		}
		e.results[result.ID] = result
		loaded++
	}
	logging.Info().Int("count", loaded).Str("dir", dir).Msg("loaded archived results")
}

// GetResult returns the archived result of a completed crack job.
func (e *Engine) GetResult(jobID string) (*model.CrackResult, error) {
	e.mu.RLock()
	result, ok := e.results[jobID]
	e.mu.RUnlock()
	if ok {
		r := *result
		return &r, nil
	}

	if _, err := e.jobManager.GetJob(jobID); err != nil {
		return nil, err
	}
	return nil, errors.NewResultNotFoundError(jobID)
}

// ListResults returns every known result, newest first.
func (e *Engine) ListResults() []*model.CrackResult {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]*model.CrackResult, 0, len(e.results))
	for _, r := range e.results {
		rc := *r
		out = append(out, &rc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// DeleteResult forgets a result and removes its archive.
func (e *Engine) DeleteResult(jobID string) error {
	e.mu.Lock()
	_, ok := e.results[jobID]
	delete(e.results, jobID)
	e.mu.Unlock()
	if !ok {
		return errors.NewResultNotFoundError(jobID)
	}

	if err := os.Remove(e.resultPath(jobID)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// GetJob returns a crack job by ID.
func (e *Engine) GetJob(jobID string) (*model.Job, error) {
	return e.jobManager.GetJob(jobID)
}

// ListJobs returns all jobs, optionally filtered by status.
func (e *Engine) ListJobs(status *model.JobStatus) []*model.Job {
	return e.jobManager.ListJobs(status)
}

// CancelJob requests cancellation of a pending or running crack job.
func (e *Engine) CancelJob(jobID string) error {
	return e.jobManager.CancelJob(jobID)
}

// WaitJob blocks until the job finishes or ctx ends.
func (e *Engine) WaitJob(ctx context.Context, jobID string) (*model.Job, error) {
	return e.jobManager.Wait(ctx, jobID)
}

// GetJobMetrics returns job counters and timings.
func (e *Engine) GetJobMetrics() jobs.JobMetricsData {
	return e.jobManager.GetMetrics()
}
