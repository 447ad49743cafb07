package wordset

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/gcbaptista/go-xor-breaker/internal/errors"
	"github.com/gcbaptista/go-xor-breaker/internal/logging"
)

// maxLineSize bounds a single word-list line.
const maxLineSize = 1 << 20

// LoadReader reads one word per line.
func LoadReader(r io.Reader) (*WordSet, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	ws := &WordSet{words: make(map[string]struct{})}
	for scanner.Scan() {
		if w := normalize(scanner.Text()); w != "" {
			ws.words[w] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}
	return ws, nil
}

// Load reads a newline-delimited word list from path. A file that cannot be
// opened is reported as a MissingInputError.
func Load(path string) (*WordSet, error) {
	file, err := os.Open(path) // #nosec G304 -- word-list paths come from configuration
	if err != nil {
		return nil, errors.NewMissingInputError(path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			logging.Warn().Err(closeErr).Str("path", path).Msg("failed to close word list")
		}
	}()

	ws, err := LoadReader(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logging.Debug().Str("path", path).Int("words", ws.Len()).Msg("word list loaded")
	return ws, nil
}

// Pair is the two evidence sets a search needs.
type Pair struct {
	Dictionary  *WordSet
	CommonWords *WordSet
}

// LoadPair loads the large dictionary and the small common-words list.
func LoadPair(dictionaryPath, commonWordsPath string) (Pair, error) {
	dictionary, err := Load(dictionaryPath)
	if err != nil {
		return Pair{}, fmt.Errorf("failed to load dictionary: %w", err)
	}
	common, err := Load(commonWordsPath)
	if err != nil {
		return Pair{}, fmt.Errorf("failed to load common words: %w", err)
	}
	return Pair{Dictionary: dictionary, CommonWords: common}, nil
}
