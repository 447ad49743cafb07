package keysearch

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/gcbaptista/go-xor-breaker/internal/logging"
	"github.com/gcbaptista/go-xor-breaker/internal/wordset"
)

// partition returns the k1 range [from, to) scanned by worker w of n.
func partition(w, n int) (from, to int) {
	return w * Rows / n, (w + 1) * Rows / n
}

func parallelSearch(ctx context.Context, ciphertext []byte, dictionary, commonWords *wordset.WordSet, o options) (Result, error) {
	g, gctx := errgroup.WithContext(ctx)

	var stop atomic.Bool

	// Counting and reporting happen under one lock so progress never goes
	// backwards across workers.
	var progressMu sync.Mutex
	rowsDone := 0
	rowDone := func() {
		if o.progress == nil {
			return
		}
		progressMu.Lock()
		defer progressMu.Unlock()
		rowsDone++
		o.progress(rowsDone, Rows)
	}

	scanners := make([]*scanner, o.workers)
	for w := range scanners {
		from, to := partition(w, o.workers)
		s := newScanner(ciphertext, dictionary, commonWords, o)
		scanners[w] = s
		g.Go(func() error {
			var sharedStop *atomic.Bool
			if o.earlyStop {
				sharedStop = &stop
			}
			s.scanRowsNotify(gctx, from, to, sharedStop, rowDone)
			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	res := reduce(scanners)
	logging.Debug().
		Int("workers", o.workers).
		Int("keys_examined", res.KeysExamined).
		Bool("stopped_early", res.StoppedEarly).
		Msg("parallel key search finished")
	return res, nil
}

// reduce merges per-range bests in range order using the same strict
// greater-than rule as the sequential scan.
func reduce(scanners []*scanner) Result {
	var res Result
	found := false
	for _, s := range scanners {
		res.KeysExamined += s.examined
		res.StoppedEarly = res.StoppedEarly || s.stopped
		if !s.hasBest {
			continue
		}
		if !found || s.best.Score > res.Score {
			res.Candidate = s.best
			found = true
		}
	}
	return res
}
