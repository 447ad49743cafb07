// Package keysearch recovers a 2-byte XOR key by scoring every one of the
// 65,536 candidate keys and keeping the best plaintext.
//
// Keys are enumerated row-major (k1 outer, k2 inner, both ascending). A
// candidate replaces the running best only when its score is strictly
// greater, so among equal scores the earliest key wins. The parallel form
// reduces per-worker bests with the same rule and returns exactly what the
// sequential scan returns.
package keysearch

import (
	"context"
	"runtime"

	"github.com/gcbaptista/go-xor-breaker/internal/scoring"
	"github.com/gcbaptista/go-xor-breaker/internal/wordset"
	"github.com/gcbaptista/go-xor-breaker/internal/xorcipher"
)

// Rows is the number of k1 values; each row holds 256 keys. Progress is
// reported in rows done out of Rows.
const Rows = 256

// Candidate is one scored key.
type Candidate struct {
	Key       xorcipher.Key
	Plaintext []byte
	Score     int
}

// Result is the best candidate of a search.
type Result struct {
	Candidate
	KeysExamined int  // 65,536 unless the search stopped early
	StoppedEarly bool // true when the early-stop threshold was reached
}

// ProgressFunc is called after each completed k1 row.
type ProgressFunc func(done, total int)

type options struct {
	scorer    scoring.Scorer
	workers   int
	earlyStop bool
	threshold int
	progress  ProgressFunc
}

// Option configures a search.
type Option func(*options)

// WithScorer selects the scoring strategy. Defaults to scoring.Default.
func WithScorer(s scoring.Scorer) Option {
	return func(o *options) {
		if s != nil {
			o.scorer = s
		}
	}
}

// WithWorkers sets the parallelism of SearchContext. Values below 1 mean
// runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithEarlyStop ends the search once a candidate scores at least threshold.
// Without it the whole key space is always examined.
func WithEarlyStop(threshold int) Option {
	return func(o *options) {
		o.earlyStop = true
		o.threshold = threshold
	}
}

// WithProgress registers a row-completion callback. It may be called from
// several goroutines at once.
func WithProgress(fn ProgressFunc) Option {
	return func(o *options) { o.progress = fn }
}

func buildOptions(opts []Option) options {
	o := options{scorer: scoring.Default}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		o.workers = runtime.NumCPU()
	}
	if o.workers > Rows {
		o.workers = Rows
	}
	return o
}

// emptyResult is the defined outcome for an empty ciphertext: every key
// scores EmptyScore, so the first key wins.
func emptyResult() Result {
	return Result{
		Candidate: Candidate{
			Key:       xorcipher.Key{0, 0},
			Plaintext: []byte{},
			Score:     scoring.EmptyScore,
		},
		KeysExamined: xorcipher.KeySpace,
	}
}

// Search is the sequential reference scan. It ignores WithWorkers.
func Search(ciphertext []byte, dictionary, commonWords *wordset.WordSet, opts ...Option) Result {
	o := buildOptions(opts)
	if len(ciphertext) == 0 {
		return emptyResult()
	}

	s := newScanner(ciphertext, dictionary, commonWords, o)
	s.scanRows(context.Background(), 0, Rows, nil)
	return s.result()
}

// SearchContext partitions the k1 rows into contiguous ranges, scans them
// concurrently and reduces the per-range bests in range order. The result
// is identical to Search for the same inputs. With WithEarlyStop the scan
// may examine different keys than Search would; the reduction rule is
// unchanged.
func SearchContext(ctx context.Context, ciphertext []byte, dictionary, commonWords *wordset.WordSet, opts ...Option) (Result, error) {
	o := buildOptions(opts)
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if len(ciphertext) == 0 {
		return emptyResult(), nil
	}
	if o.workers == 1 {
		s := newScanner(ciphertext, dictionary, commonWords, o)
		s.scanRows(ctx, 0, Rows, nil)
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		return s.result(), nil
	}
	return parallelSearch(ctx, ciphertext, dictionary, commonWords, o)
}
