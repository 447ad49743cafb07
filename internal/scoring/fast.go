package scoring

import (
	"github.com/gcbaptista/go-xor-breaker/internal/tokenizer"
	"github.com/gcbaptista/go-xor-breaker/internal/wordset"
)

// Fast weights.
const (
	fastPrintableWeight = 2
	fastSpaceWeight     = 10
	fastCommonWordBonus = 10
	fastDictionaryBonus = 2
)

// Fast is the approximate scorer. It deviates from Canonical on purpose:
//   - no penalty for non-printable bytes inside the accepted tier;
//   - +10 per space instead of +3;
//   - words are whitespace-separated fields (Unicode spaces plus the
//     U+001C-U+001F separators), so "fox." or "don't" never match;
//   - the common-word and dictionary rewards are exclusive (common wins).
//
// Sentinels and the 90% printable threshold are the same as Canonical.
type Fast struct{}

// Name returns the strategy name.
func (Fast) Name() string { return StrategyFast }

// Score implements Scorer.
func (Fast) Score(pt []byte, dictionary, commonWords *wordset.WordSet) int {
	total := len(pt)
	if total == 0 {
		return EmptyScore
	}

	printable, spaces := printableStats(pt)
	if belowThreshold(printable, total) {
		return RejectScore
	}

	score := printable * fastPrintableWeight
	score += spaces * fastSpaceWeight

	for _, w := range tokenizer.Fields(tokenizer.LowerLatin1(pt)) {
		if tokenizer.RuneLen(w) <= minWordLen {
			continue
		}
		if commonWords.Contains(w) {
			score += fastCommonWordBonus
		} else if dictionary.Contains(w) {
			score += fastDictionaryBonus
		}
	}
	return score
}
