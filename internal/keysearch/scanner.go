package keysearch

import (
	"context"
	"sync/atomic"

	"github.com/gcbaptista/go-xor-breaker/internal/wordset"
	"github.com/gcbaptista/go-xor-breaker/internal/xorcipher"
)

// scanner evaluates a contiguous range of k1 rows and keeps a local best.
// It owns its scratch buffer, so one scanner per goroutine.
type scanner struct {
	ciphertext  []byte
	dictionary  *wordset.WordSet
	commonWords *wordset.WordSet
	opts        options

	buf      []byte
	best     Candidate
	hasBest  bool
	examined int
	stopped  bool
}

func newScanner(ciphertext []byte, dictionary, commonWords *wordset.WordSet, opts options) *scanner {
	return &scanner{
		ciphertext:  ciphertext,
		dictionary:  dictionary,
		commonWords: commonWords,
		opts:        opts,
		buf:         make([]byte, len(ciphertext)),
	}
}

// scanRows evaluates every key with k1 in [from, to). stop is shared between
// scanners when early stop is enabled and may be nil.
func (s *scanner) scanRows(ctx context.Context, from, to int, stop *atomic.Bool) {
	s.scanRowsNotify(ctx, from, to, stop, nil)
}

func (s *scanner) scanRowsNotify(ctx context.Context, from, to int, stop *atomic.Bool, rowDone func()) {
	done := 0
	for k1 := from; k1 < to; k1++ {
		if ctx.Err() != nil {
			return
		}
		if stop != nil && stop.Load() {
			return
		}
		for k2 := 0; k2 < 256; k2++ {
			key := xorcipher.Key{byte(k1), byte(k2)}
			if s.evaluate(key) {
				s.stopped = true
				if stop != nil {
					stop.Store(true)
				}
				return
			}
		}
		done++
		if rowDone != nil {
			rowDone()
		} else if s.opts.progress != nil {
			s.opts.progress(done, to-from)
		}
	}
}

// evaluate scores one key and reports whether the early-stop threshold was reached.
func (s *scanner) evaluate(key xorcipher.Key) bool {
	xorcipher.TransformInto(s.buf, s.ciphertext, key)
	score := s.opts.scorer.Score(s.buf, s.dictionary, s.commonWords)
	s.examined++

	if !s.hasBest || score > s.best.Score {
		s.best.Key = key
		s.best.Score = score
		s.best.Plaintext = append(s.best.Plaintext[:0], s.buf...)
		s.hasBest = true
	}
	return s.opts.earlyStop && s.best.Score >= s.opts.threshold
}

func (s *scanner) result() Result {
	return Result{
		Candidate:    s.best,
		KeysExamined: s.examined,
		StoppedEarly: s.stopped,
	}
}
