package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/gcbaptista/go-xor-breaker/config"
	"github.com/gcbaptista/go-xor-breaker/internal/logging"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "xorbreak",
		Usage:   "encrypt, decrypt and brute-force 2-byte repeating-XOR ciphertexts",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config `FILE` (default: xorbreak.yaml in ., ~/.xorbreak, /etc/xorbreak)",
			},
			&cli.StringFlag{
				Name:  "dictionary",
				Usage: "Dictionary word list `PATH`",
			},
			&cli.StringFlag{
				Name:  "common-words",
				Usage: "Common-words list `PATH`",
			},
			&cli.StringFlag{
				Name:  "strategy",
				Usage: "Scoring strategy `NAME`: canonical or fast",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Parallel search workers `N` (0 = one per CPU)",
			},
			&cli.StringFlag{
				Name:  "data-dir",
				Usage: "Directory for archived job results `DIR`",
			},
			&cli.StringFlag{
				Name:  "output-dir",
				Usage: "Directory for output files `DIR` (default: next to the input)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Log format: console or json",
			},
		},
		Commands: []*cli.Command{
			crackCommand,
			encryptCommand,
			decryptCommand,
			serveCommand,
			menuCommand,
		},
		// No sub-command: run the interactive menu.
		Action: menuCmd,
	}
}

// loadSettings merges the config file, XORBREAK_* environment and global
// flags (in increasing priority), validates the result and initialises logging.
func loadSettings(c *cli.Context) (*config.Settings, error) {
	settings, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if c.IsSet("dictionary") {
		settings.DictionaryPath = c.String("dictionary")
	}
	if c.IsSet("common-words") {
		settings.CommonWordsPath = c.String("common-words")
	}
	if c.IsSet("strategy") {
		settings.Strategy = c.String("strategy")
	}
	if c.IsSet("workers") {
		settings.Workers = c.Int("workers")
	}
	if c.IsSet("data-dir") {
		settings.DataDir = c.String("data-dir")
	}
	if c.IsSet("output-dir") {
		settings.OutputDir = c.String("output-dir")
	}
	if c.IsSet("log-level") {
		settings.LogLevel = c.String("log-level")
	}
	if c.IsSet("log-format") {
		settings.LogFormat = c.String("log-format")
	}
	settings.ApplyDefaults()

	if problems := settings.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("invalid configuration:\n  %s", strings.Join(problems, "\n  "))
	}
	if err := logging.Init(logging.Options{Level: settings.LogLevel, Format: settings.LogFormat, Out: os.Stderr}); err != nil {
		return nil, err
	}
	return settings, nil
}
