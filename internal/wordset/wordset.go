// Package wordset provides the immutable word sets used as evidence by the scorers,
// and loaders that build them from newline-delimited word lists.
package wordset

import (
	"sort"
	"strings"
)

// WordSet is a read-only set of lowercase words. The zero value and a nil
// *WordSet are both empty sets. Safe for concurrent use.
type WordSet struct {
	words map[string]struct{}
}

// New builds a set from words. Entries are trimmed and lowercased; empty
// entries are dropped.
func New(words ...string) *WordSet {
	ws := &WordSet{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		if w = normalize(w); w != "" {
			ws.words[w] = struct{}{}
		}
	}
	return ws
}

func normalize(w string) string {
	return strings.ToLower(strings.TrimSpace(w))
}

// Contains reports whether word is in the set. Callers pass lowercase words.
func (ws *WordSet) Contains(word string) bool {
	if ws == nil {
		return false
	}
	_, ok := ws.words[word]
	return ok
}

// Len returns the number of distinct words.
func (ws *WordSet) Len() int {
	if ws == nil {
		return 0
	}
	return len(ws.words)
}

// Words returns the words in sorted order.
func (ws *WordSet) Words() []string {
	if ws == nil {
		return []string{}
	}
	out := make([]string, 0, len(ws.words))
	for w := range ws.words {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}
