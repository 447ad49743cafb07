// Package config provides configuration structures for the key breaker.
// It defines word-list locations, search tuning, storage and server options.
package config

import (
	"errors"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/gcbaptista/go-xor-breaker/internal/scoring"
)

// EnvPrefix is prepended to every environment override (XORBREAK_WORKERS, ...).
const EnvPrefix = "XORBREAK"

// Settings contains all configuration options for the service and CLI.
type Settings struct {
	DictionaryPath    string `mapstructure:"dictionary_path" json:"dictionary_path"`         // Large, lower-precision word list
	CommonWordsPath   string `mapstructure:"common_words_path" json:"common_words_path"`     // Small, high-frequency word list
	Strategy          string `mapstructure:"strategy" json:"strategy"`                       // Scoring strategy: "canonical" or "fast"
	Workers           int    `mapstructure:"workers" json:"workers"`                         // Parallel search workers (0 = one per CPU)
	EarlyStop         bool   `mapstructure:"early_stop" json:"early_stop"`                   // Stop once a candidate reaches EarlyStopScore
	EarlyStopScore    int    `mapstructure:"early_stop_score" json:"early_stop_score"`       // Threshold used when EarlyStop is set
	DataDir           string `mapstructure:"data_dir" json:"data_dir"`                       // Where job results are archived
	OutputDir         string `mapstructure:"output_dir" json:"output_dir"`                   // Where exported files go (empty = next to the input)
	CompressResults   bool   `mapstructure:"compress_results" json:"compress_results"`       // zstd-compress archived results
	ListenAddr        string `mapstructure:"listen_addr" json:"listen_addr"`                 // HTTP listen address
	MaxRequestBytes   int64  `mapstructure:"max_request_bytes" json:"max_request_bytes"`     // Request body limit for the HTTP API
	MaxConcurrentJobs int    `mapstructure:"max_concurrent_jobs" json:"max_concurrent_jobs"` // Background crack jobs running at once
	LogLevel          string `mapstructure:"log_level" json:"log_level"`                     // debug, info, warn, error
	LogFormat         string `mapstructure:"log_format" json:"log_format"`                   // console or json
}

// Default returns the settings used when nothing is configured.
func Default() Settings {
	return Settings{
		DictionaryPath:    "Dictionary.txt",
		CommonWordsPath:   "wordlist1.txt",
		Strategy:          scoring.StrategyCanonical,
		Workers:           0,
		EarlyStop:         false,
		DataDir:           "./xorbreak_data",
		CompressResults:   true,
		ListenAddr:        ":8080",
		MaxRequestBytes:   10 << 20,
		MaxConcurrentJobs: 2,
		LogLevel:          "info",
		LogFormat:         "console",
	}
}

// Load reads settings from the given YAML file (or xorbreak.yaml in the
// usual search paths when path is empty), then applies XORBREAK_*
// environment overrides. A missing default config file is not an error.
func Load(path string) (*Settings, error) {
	v := viper.New()
	defaults := Default()
	v.SetDefault("dictionary_path", defaults.DictionaryPath)
	v.SetDefault("common_words_path", defaults.CommonWordsPath)
	v.SetDefault("strategy", defaults.Strategy)
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("early_stop", defaults.EarlyStop)
	v.SetDefault("early_stop_score", defaults.EarlyStopScore)
	v.SetDefault("data_dir", defaults.DataDir)
	v.SetDefault("output_dir", defaults.OutputDir)
	v.SetDefault("compress_results", defaults.CompressResults)
	v.SetDefault("listen_addr", defaults.ListenAddr)
	v.SetDefault("max_request_bytes", defaults.MaxRequestBytes)
	v.SetDefault("max_concurrent_jobs", defaults.MaxConcurrentJobs)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("log_format", defaults.LogFormat)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("xorbreak")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.xorbreak")
		v.AddConfigPath("/etc/xorbreak/")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, err
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, err
	}
	settings.ApplyDefaults()
	return settings, nil
}

// Validate checks the settings and returns one message per problem.
func (s *Settings) Validate() []string {
	var problems []string

	if strings.TrimSpace(s.DictionaryPath) == "" {
		problems = append(problems, "dictionary_path cannot be empty")
	}
	if strings.TrimSpace(s.CommonWordsPath) == "" {
		problems = append(problems, "common_words_path cannot be empty")
	}
	if _, err := scoring.Lookup(s.Strategy); err != nil {
		problems = append(problems, "Invalid strategy '"+s.Strategy+"' (must be one of: "+strings.Join(scoring.Strategies(), ", ")+")")
	}
	if s.Workers < 0 {
		problems = append(problems, "workers cannot be negative, got "+strconv.Itoa(s.Workers))
	}
	if s.MaxRequestBytes <= 0 {
		problems = append(problems, "max_request_bytes must be positive")
	}
	if s.MaxConcurrentJobs < 1 {
		problems = append(problems, "max_concurrent_jobs must be at least 1")
	}
	switch strings.ToLower(s.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, "Invalid log_level '"+s.LogLevel+"' (must be 'debug', 'info', 'warn' or 'error')")
	}
	switch strings.ToLower(s.LogFormat) {
	case "console", "json":
	default:
		problems = append(problems, "Invalid log_format '"+s.LogFormat+"' (must be 'console' or 'json')")
	}

	return problems
}

// ApplyDefaults fills zero values that have a sensible default.
func (s *Settings) ApplyDefaults() {
	defaults := Default()
	if s.Strategy == "" {
		s.Strategy = defaults.Strategy
	}
	if s.Workers == 0 {
		s.Workers = runtime.NumCPU()
	}
	if s.DataDir == "" {
		s.DataDir = defaults.DataDir
	}
	if s.ListenAddr == "" {
		s.ListenAddr = defaults.ListenAddr
	}
	if s.MaxRequestBytes == 0 {
		s.MaxRequestBytes = defaults.MaxRequestBytes
	}
	if s.MaxConcurrentJobs == 0 {
		s.MaxConcurrentJobs = defaults.MaxConcurrentJobs
	}
	if s.LogLevel == "" {
		s.LogLevel = defaults.LogLevel
	}
	if s.LogFormat == "" {
		s.LogFormat = defaults.LogFormat
	}
}
