// Package testing provides fixtures and helpers shared by the engine and API tests.
package testing

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-xor-breaker/config"
	"github.com/gcbaptista/go-xor-breaker/internal/engine"
	"github.com/gcbaptista/go-xor-breaker/model"
	"github.com/gcbaptista/go-xor-breaker/services"
)

// Small word lists in the format of the real Dictionary.txt / wordlist1.txt
// files: one word per line, mixed case, with a stray blank line.
var (
	DictionaryWords  = []string{"Quick", "brown", "lazy", "jumps", "over", "message", "secret", ""}
	CommonWordsWords = []string{"the", "with", "that", "there", "from", "have"}
)

// Plaintext recovered exactly by the canonical scorer under FixtureKey:
// spaces fall on both byte parities, so no case-flipped key ties with it.
const (
	FixturePlaintext = "the quick lazy brown fox"
	FixtureKey       = "ab"
)

// WriteWordLists writes both fixture word lists into dir and returns their paths.
func WriteWordLists(t *testing.T, dir string) (dictionaryPath, commonWordsPath string) {
	t.Helper()
	dictionaryPath = filepath.Join(dir, "Dictionary.txt")
	commonWordsPath = filepath.Join(dir, "wordlist1.txt")
	require.NoError(t, os.WriteFile(dictionaryPath, []byte(strings.Join(DictionaryWords, "\n")+"\n"), 0o600))
	require.NoError(t, os.WriteFile(commonWordsPath, []byte(strings.Join(CommonWordsWords, "\r\n")), 0o600))
	return dictionaryPath, commonWordsPath
}

// TestSettings returns settings pointing at fresh fixture word lists and
// private data/output directories under t.TempDir().
func TestSettings(t *testing.T) config.Settings {
	t.Helper()
	dir := t.TempDir()
	dict, common := WriteWordLists(t, dir)

	s := config.Default()
	s.DictionaryPath = dict
	s.CommonWordsPath = common
	s.DataDir = filepath.Join(dir, "data")
	s.OutputDir = filepath.Join(dir, "out")
	s.Workers = 4
	s.LogLevel = "error"
	return s
}

// CreateTestEngine opens an engine on settings and stops it when the test ends.
func CreateTestEngine(t *testing.T, settings config.Settings) *engine.Engine {
	t.Helper()
	eng, err := engine.Open(settings)
	require.NoError(t, err, "Failed to open test engine")
	t.Cleanup(eng.Close)
	return eng
}

// JobPollingOptions configures job polling behavior
type JobPollingOptions struct {
	Timeout      time.Duration
	PollInterval time.Duration
	LogProgress  bool
}

// DefaultJobPollingOptions returns sensible defaults for job polling
func DefaultJobPollingOptions() JobPollingOptions {
	return JobPollingOptions{
		Timeout:      30 * time.Second,
		PollInterval: 20 * time.Millisecond,
		LogProgress:  false,
	}
}

// WaitForJob polls a job until it reaches a terminal status or times out
func WaitForJob(t *testing.T, jobManager services.JobManager, jobID string, opts JobPollingOptions) *model.Job {
	t.Helper()
	timeout := time.After(opts.Timeout)
	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			t.Fatalf("Job %s did not finish within %v timeout", jobID, opts.Timeout)
			return nil
		case <-ticker.C:
			job, err := jobManager.GetJob(jobID)
			require.NoError(t, err, "Failed to get job status")

			if job.Status.IsTerminal() {
				return job
			}
			if opts.LogProgress && job.Progress != nil {
				t.Logf("Job %s progress: %d/%d - %s",
					jobID,
					job.Progress.Current,
					job.Progress.Total,
					job.Progress.Message)
			}
		}
	}
}

// AssertJobCompleted verifies that a crack job completed successfully
func AssertJobCompleted(t *testing.T, job *model.Job, expectedSource string) {
	t.Helper()
	assert.Equal(t, model.JobStatusCompleted, job.Status, "Job should be completed")
	assert.Equal(t, model.JobTypeCrack, job.Type, "Job type should be crack")
	assert.Equal(t, expectedSource, job.Source, "Job source should match")
	assert.NotNil(t, job.CompletedAt, "Job should have completion timestamp")
	assert.Empty(t, job.Error, "Job should not have error")
}
