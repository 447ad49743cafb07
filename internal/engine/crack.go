package engine

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/gcbaptista/go-xor-breaker/internal/errors"
	"github.com/gcbaptista/go-xor-breaker/internal/export"
	"github.com/gcbaptista/go-xor-breaker/internal/keysearch"
	"github.com/gcbaptista/go-xor-breaker/internal/logging"
	"github.com/gcbaptista/go-xor-breaker/internal/scoring"
	"github.com/gcbaptista/go-xor-breaker/model"
	"github.com/gcbaptista/go-xor-breaker/services"
)

func (e *Engine) searchOptions(opts services.CrackOptions) (scoring.Scorer, []keysearch.Option, error) {
	scorer := e.scorer
	if opts.Strategy != "" {
		s, err := scoring.Lookup(opts.Strategy)
		if err != nil {
			return nil, nil, err
		}
		scorer = s
	}

	workers := e.settings.Workers
	if opts.Workers > 0 {
		workers = opts.Workers
	}

	earlyStop := e.settings.EarlyStop
	if opts.EarlyStop != nil {
		earlyStop = *opts.EarlyStop
	}
	threshold := e.settings.EarlyStopScore
	if opts.EarlyStopScore != nil {
		threshold = *opts.EarlyStopScore
	}

	searchOpts := []keysearch.Option{
		keysearch.WithScorer(scorer),
		keysearch.WithWorkers(workers),
	}
	if earlyStop {
		searchOpts = append(searchOpts, keysearch.WithEarlyStop(threshold))
	}
	return scorer, searchOpts, nil
}

// Crack searches the whole key space for the key that best decrypts
// ciphertext. An empty ciphertext is not an error.
func (e *Engine) Crack(ctx context.Context, ciphertext []byte, source string, opts services.CrackOptions) (*model.CrackResult, error) {
	return e.crack(ctx, ciphertext, source, opts, nil)
}

func (e *Engine) crack(ctx context.Context, ciphertext []byte, source string, opts services.CrackOptions, progress keysearch.ProgressFunc) (*model.CrackResult, error) {
	scorer, searchOpts, err := e.searchOptions(opts)
	if err != nil {
		return nil, err
	}
	if progress != nil {
		searchOpts = append(searchOpts, keysearch.WithProgress(progress))
	}

	start := time.Now()
	res, err := keysearch.SearchContext(ctx, ciphertext, e.words.Dictionary, e.words.CommonWords, searchOpts...)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	logging.Debug().
		Str("source", source).
		Int("bytes", len(ciphertext)).
		Str("key_hex", res.Key.Hex()).
		Int("score", res.Score).
		Dur("elapsed", elapsed).
		Msg("key search finished")

	return &model.CrackResult{
		Source:        source,
		Key:           res.Key,
		KeyText:       res.Key.String(),
		KeyHex:        res.Key.Hex(),
		Plaintext:     res.Plaintext,
		PlaintextText: export.DisplayText(res.Plaintext),
		Score:         res.Score,
		Strategy:      scorer.Name(),
		KeysExamined:  res.KeysExamined,
		StoppedEarly:  res.StoppedEarly,
		Elapsed:       elapsed,
		CreatedAt:     time.Now(),
	}, nil
}

// CrackFile reads path as raw bytes and cracks it.
func (e *Engine) CrackFile(ctx context.Context, path string, opts services.CrackOptions) (*model.CrackResult, error) {
	ciphertext, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, errors.NewMissingInputError(path, err)
	}
	return e.Crack(ctx, ciphertext, path, opts)
}

// CrackAsync starts a background crack job and returns its ID. The result
// is archived when the job completes and can be fetched with GetResult.
func (e *Engine) CrackAsync(ciphertext []byte, source string, opts services.CrackOptions) (string, error) {
	scorer, _, err := e.searchOptions(opts)
	if err != nil {
		return "", err
	}

	jobID := e.jobManager.CreateJob(model.JobTypeCrack, source, map[string]string{
		"operation": "crack",
		"strategy":  scorer.Name(),
		"bytes":     strconv.Itoa(len(ciphertext)),
	})

	err = e.jobManager.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		return e.executeCrackJob(ctx, jobID, ciphertext, source, opts)
	})
	if err != nil {
		return "", fmt.Errorf("failed to start crack job: %w", err)
	}
	return jobID, nil
}

func (e *Engine) executeCrackJob(ctx context.Context, jobID string, ciphertext []byte, source string, opts services.CrackOptions) error {
	e.jobManager.UpdateJobProgress(jobID, 0, keysearch.Rows, "Starting key search")

	result, err := e.crack(ctx, ciphertext, source, opts, func(done, total int) {
		e.jobManager.UpdateJobProgress(jobID, done, total, "Searching key space")
	})
	if err != nil {
		return err
	}
	result.ID = jobID
	e.jobManager.RecordSearch(result.Strategy, result.KeysExamined, result.Elapsed, result.StoppedEarly)

	e.storeResult(result)
	e.jobManager.UpdateJobProgress(jobID, keysearch.Rows, keysearch.Rows, "Key search complete")
	return nil
}
