package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/gcbaptista/go-xor-breaker/internal/engine"
	"github.com/gcbaptista/go-xor-breaker/internal/export"
	"github.com/gcbaptista/go-xor-breaker/internal/logging"
	"github.com/gcbaptista/go-xor-breaker/services"
)

var crackCommand = &cli.Command{
	Name:      "crack",
	Usage:     "Recover the 2-byte key of an encrypted file",
	UsageText: "xorbreak crack [options] FILE",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "strategy",
			Usage: "Scoring strategy for this run: canonical or fast",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Parallel search workers for this run",
		},
		&cli.IntFlag{
			Name:  "early-stop-score",
			Usage: "Stop as soon as a candidate reaches `SCORE`",
		},
		&cli.BoolFlag{
			Name:    "report",
			Aliases: []string{"r"},
			Usage:   "Also write the report to <stem>_cracked.txt",
		},
	},
	Action: crackCmd,
}

func crackCmd(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("crack expects exactly one FILE argument", 1)
	}
	path := c.Args().First()

	settings, err := loadSettings(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	eng, err := engine.Open(*settings)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer eng.Close()

	opts := services.CrackOptions{
		Strategy: c.String("strategy"),
		Workers:  c.Int("workers"),
	}
	if c.IsSet("early-stop-score") {
		stop := true
		threshold := c.Int("early-stop-score")
		opts.EarlyStop = &stop
		opts.EarlyStopScore = &threshold
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := eng.CrackFile(ctx, path, opts)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	logging.Debug().
		Str("file", path).
		Int("keys_examined", result.KeysExamined).
		Bool("stopped_early", result.StoppedEarly).
		Msg("crack finished")

	if err := export.WriteReport(c.App.Writer, result); err != nil {
		return err
	}
	if c.Bool("report") {
		reportPath, err := eng.ExportReport(result)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		fmt.Fprintf(c.App.Writer, "\nReport written to %s\n", reportPath)
	}
	return nil
}
