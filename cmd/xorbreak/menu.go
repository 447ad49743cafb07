package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/gcbaptista/go-xor-breaker/internal/engine"
	"github.com/gcbaptista/go-xor-breaker/internal/export"
	"github.com/gcbaptista/go-xor-breaker/internal/xorcipher"
	"github.com/gcbaptista/go-xor-breaker/model"
	"github.com/gcbaptista/go-xor-breaker/services"
)

var menuCommand = &cli.Command{
	Name:   "menu",
	Usage:  "Interactive prompt: encrypt, decrypt or crack files",
	Action: menuCmd,
}

// fileBreaker is the part of the engine the menu drives.
type fileBreaker interface {
	EncryptFile(path string, key xorcipher.Key) (string, error)
	DecryptFile(path string, key xorcipher.Key) (string, error)
	CrackFile(ctx context.Context, path string, opts services.CrackOptions) (*model.CrackResult, error)
}

var _ fileBreaker = (*engine.Engine)(nil)

func menuCmd(c *cli.Context) error {
	settings, err := loadSettings(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	eng, err := engine.Open(*settings)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer eng.Close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return runMenu(ctx, eng, os.Stdin, c.App.Writer)
}

const menuText = `
1) Encrypt a file
2) Decrypt a file
3) Crack a file
4) Quit
Choice: `

// runMenu reads commands from in until the user quits, in is exhausted or
// ctx ends. Failed operations are reported and the loop continues.
func runMenu(ctx context.Context, eng fileBreaker, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	prompt := func(label string) (string, bool) {
		fmt.Fprint(out, label)
		if !scanner.Scan() {
			return "", false
		}
		return strings.TrimSpace(scanner.Text()), true
	}

	fmt.Fprintln(out, "Cryptomatic")
	for {
		if ctx.Err() != nil {
			return nil
		}
		choice, ok := prompt(menuText)
		if !ok {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		var err error
		switch strings.ToLower(choice) {
		case "1", "e", "encrypt":
			err = menuTransform(eng.EncryptFile, "Encrypted", prompt, out)
		case "2", "d", "decrypt":
			err = menuTransform(eng.DecryptFile, "Decrypted", prompt, out)
		case "3", "c", "crack":
			err = menuCrack(ctx, eng, prompt, out)
		case "4", "q", "quit", "exit":
			return nil
		case "":
			continue
		default:
			fmt.Fprintf(out, "Unknown choice %q\n", choice)
			continue
		}

		switch {
		case errors.Is(err, io.EOF):
			fmt.Fprintln(out)
			return scanner.Err()
		case err != nil:
			fmt.Fprintln(out, "Error:", err)
		}
	}
}

type promptFunc func(label string) (string, bool)

func menuTransform(transform func(path string, key xorcipher.Key) (string, error), verb string, prompt promptFunc, out io.Writer) error {
	path, ok := prompt("Enter filename: ")
	if !ok {
		return io.EOF
	}
	literal, ok := prompt("Enter 2-character key: ")
	if !ok {
		return io.EOF
	}
	key, err := xorcipher.ParseKey(literal)
	if err != nil {
		return err
	}
	outPath, err := transform(path, key)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s %s -> %s\n", verb, path, outPath)
	return nil
}

func menuCrack(ctx context.Context, eng fileBreaker, prompt promptFunc, out io.Writer) error {
	path, ok := prompt("Enter encrypted filename: ")
	if !ok {
		return io.EOF
	}
	result, err := eng.CrackFile(ctx, path, services.CrackOptions{})
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	return export.WriteReport(out, result)
}
