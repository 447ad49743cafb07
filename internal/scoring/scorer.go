// Package scoring ranks candidate plaintexts by how English-like they look.
//
// Scores are plain integers, higher is more plausible. Two reserved values
// reject a candidate outright: EmptyScore for an empty buffer and
// RejectScore for a buffer that is mostly unprintable. Accepted candidates
// never score below zero, so the tiers never mix.
package scoring

import (
	"github.com/gcbaptista/go-xor-breaker/internal/errors"
	"github.com/gcbaptista/go-xor-breaker/internal/wordset"
)

const (
	// EmptyScore is returned for an empty plaintext.
	EmptyScore = -1_000_000
	// RejectScore is returned when fewer than 90% of bytes are printable.
	RejectScore = -10_000

	// minWordLen is exclusive: only words longer than this earn word rewards.
	minWordLen = 3
)

// Scorer computes an English-likeness score. Implementations must be pure:
// the result depends only on the arguments, so one Scorer may be shared by
// any number of goroutines.
type Scorer interface {
	Name() string
	Score(plaintext []byte, dictionary, commonWords *wordset.WordSet) int
}

// Strategy names accepted by Lookup.
const (
	StrategyCanonical = "canonical"
	StrategyFast      = "fast"
)

// Default is the scorer used when none is configured.
var Default Scorer = Canonical{}

// Lookup resolves a strategy name. An empty name selects the default.
func Lookup(name string) (Scorer, error) {
	switch name {
	case "", StrategyCanonical:
		return Canonical{}, nil
	case StrategyFast:
		return Fast{}, nil
	default:
		return nil, errors.NewValidationError("strategy", "unknown scoring strategy '"+name+"' (must be 'canonical' or 'fast')")
	}
}

// Strategies lists every available strategy name.
func Strategies() []string {
	return []string{StrategyCanonical, StrategyFast}
}

func isPrintable(b byte) bool {
	return b >= 32 && b <= 126
}

// printableStats counts printable bytes and literal spaces.
func printableStats(pt []byte) (printable, spaces int) {
	for _, b := range pt {
		if isPrintable(b) {
			printable++
			if b == ' ' {
				spaces++
			}
		}
	}
	return printable, spaces
}

// belowThreshold reports printable/total < 0.9 without floating point.
func belowThreshold(printable, total int) bool {
	return printable*10 < total*9
}
