package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/gcbaptista/go-xor-breaker/internal/engine"
	"github.com/gcbaptista/go-xor-breaker/internal/xorcipher"
)

var keyFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "key",
		Aliases: []string{"k"},
		Usage:   "Two-character `KEY` (each character must be Latin-1)",
	},
	&cli.StringFlag{
		Name:  "key-hex",
		Usage: "Key as 4 hex digits `HEX`, e.g. ff01 (instead of --key)",
	},
}

var encryptCommand = &cli.Command{
	Name:      "encrypt",
	Usage:     "XOR a file with a 2-byte key into <stem>_encrypted<ext>",
	UsageText: "xorbreak encrypt (--key KEY | --key-hex HEX) FILE",
	Flags:     keyFlags,
	Action: func(c *cli.Context) error {
		return transformCmd(c, (*engine.Engine).EncryptFile, "Encrypted")
	},
}

var decryptCommand = &cli.Command{
	Name:      "decrypt",
	Usage:     "XOR a file with a 2-byte key into <stem>_decrypted<ext>",
	UsageText: "xorbreak decrypt (--key KEY | --key-hex HEX) FILE",
	Flags:     keyFlags,
	Action: func(c *cli.Context) error {
		return transformCmd(c, (*engine.Engine).DecryptFile, "Decrypted")
	},
}

func transformCmd(c *cli.Context, transform func(*engine.Engine, string, xorcipher.Key) (string, error), verb string) error {
	if c.NArg() != 1 {
		return cli.Exit(c.Command.Name+" expects exactly one FILE argument", 1)
	}
	key, err := xorcipher.ResolveKey(c.String("key"), c.String("key-hex"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	settings, err := loadSettings(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	eng, err := engine.Open(*settings)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer eng.Close()

	out, err := transform(eng, c.Args().First(), key)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	fmt.Fprintf(c.App.Writer, "%s %s -> %s\n", verb, c.Args().First(), out)
	return nil
}
