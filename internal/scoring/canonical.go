package scoring

import (
	"github.com/gcbaptista/go-xor-breaker/internal/tokenizer"
	"github.com/gcbaptista/go-xor-breaker/internal/wordset"
)

// Canonical weights.
const (
	canonicalPrintableWeight     = 2
	canonicalNonPrintablePenalty = 10
	canonicalSpaceWeight         = 3
	canonicalCommonWordBonus     = 10
	canonicalDictionaryBonus     = 2
)

// Canonical is the reference scorer:
//
//	2 per printable byte, -10 per non-printable byte, +3 per space,
//	then for each alphabetic run longer than 3 characters +10 when it is a
//	common word and, independently, +2 when it is a dictionary word.
//
// Text is obtained by the one-to-one Latin-1 byte mapping, never UTF-8.
type Canonical struct{}

// Name returns the strategy name.
func (Canonical) Name() string { return StrategyCanonical }

// Score implements Scorer.
func (Canonical) Score(pt []byte, dictionary, commonWords *wordset.WordSet) int {
	total := len(pt)
	if total == 0 {
		return EmptyScore
	}

	printable, spaces := printableStats(pt)
	if belowThreshold(printable, total) {
		return RejectScore
	}

	score := printable*canonicalPrintableWeight - (total-printable)*canonicalNonPrintablePenalty
	score += spaces * canonicalSpaceWeight

	for _, w := range tokenizer.Words(tokenizer.LowerLatin1(pt)) {
		if tokenizer.RuneLen(w) <= minWordLen {
			continue
		}
		if commonWords.Contains(w) {
			score += canonicalCommonWordBonus
		}
		if dictionary.Contains(w) {
			score += canonicalDictionaryBonus
		}
	}
	return score
}
