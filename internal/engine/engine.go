package engine

import (
	"fmt"
	"os"
	"sync"

	"github.com/gcbaptista/go-xor-breaker/config"
	"github.com/gcbaptista/go-xor-breaker/internal/jobs"
	"github.com/gcbaptista/go-xor-breaker/internal/logging"
	"github.com/gcbaptista/go-xor-breaker/internal/scoring"
	"github.com/gcbaptista/go-xor-breaker/internal/wordset"
	"github.com/gcbaptista/go-xor-breaker/model"
	"github.com/gcbaptista/go-xor-breaker/services"
)

const dataDirPerm = 0755

var _ services.Breaker = (*Engine)(nil)

// Engine owns the loaded word lists, the scoring strategy and the job
// manager. It implements services.Breaker.
type Engine struct {
	mu         sync.RWMutex
	settings   config.Settings
	words      wordset.Pair
	scorer     scoring.Scorer
	jobManager *jobs.Manager
	results    map[string]*model.CrackResult
	dataDir    string
}

// NewEngine creates an engine from already loaded word sets. Archived
// results under settings.DataDir are loaded; the directory is created if
// missing.
func NewEngine(settings config.Settings, words wordset.Pair) (*Engine, error) {
	settings.ApplyDefaults()
	if problems := settings.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("invalid settings: %v", problems)
	}
	scorer, err := scoring.Lookup(settings.Strategy)
	if err != nil {
		return nil, err
	}

	eng := &Engine{
		settings:   settings,
		words:      words,
		scorer:     scorer,
		jobManager: jobs.NewManager(settings.MaxConcurrentJobs),
		results:    make(map[string]*model.CrackResult),
		dataDir:    settings.DataDir,
	}
	if err := os.MkdirAll(eng.dataDir, dataDirPerm); err != nil {
		logging.Warn().Err(err).Str("data_dir", eng.dataDir).Msg("could not create data directory, results will not be archived")
	}
	eng.loadResultsFromDisk()
	eng.jobManager.Start()

	logging.Info().
		Str("strategy", scorer.Name()).
		Int("workers", settings.Workers).
		Int("dictionary_words", words.Dictionary.Len()).
		Int("common_words", words.CommonWords.Len()).
		Msg("engine ready")
	return eng, nil
}

// Open loads both word lists named in settings and creates the engine.
func Open(settings config.Settings) (*Engine, error) {
	words, err := wordset.LoadPair(settings.DictionaryPath, settings.CommonWordsPath)
	if err != nil {
		return nil, err
	}
	return NewEngine(settings, words)
}

// Close cancels running jobs and waits for them to stop.
func (e *Engine) Close() {
	e.jobManager.Stop()
}

// Settings returns a copy of the effective settings.
func (e *Engine) Settings() config.Settings {
	return e.settings
}

// WordSets returns the loaded dictionary and common-word sets.
func (e *Engine) WordSets() wordset.Pair {
	return e.words
}
