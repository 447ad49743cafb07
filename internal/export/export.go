// Package export renders crack results for people and writes cipher output
// files. Plaintext bytes are never altered on disk; only the human-facing
// report goes through a lossy text conversion.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"

	"github.com/gcbaptista/go-xor-breaker/model"
)

// Suffixes appended to the input stem by OutputPath.
const (
	SuffixEncrypted = "encrypted"
	SuffixDecrypted = "decrypted"
	SuffixCracked   = "cracked"
)

// DisplayText decodes b as UTF-8, replacing every invalid sequence with
// U+FFFD. The result is for display only.
func DisplayText(b []byte) string {
	s, err := unicode.UTF8.NewDecoder().String(string(b))
	if err != nil {
		return strings.ToValidUTF8(string(b), "�")
	}
	return s
}

// OutputPath derives "<stem>_<suffix><ext>" from input. The file is placed
// in outDir, or next to the input when outDir is empty.
func OutputPath(input, outDir, suffix string) string {
	base := filepath.Base(input)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		stem, ext = base, ""
	}

	dir := outDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, stem+"_"+suffix+ext)
}

// ReportPath is OutputPath for a crack report, which is always text.
func ReportPath(input, outDir string) string {
	p := OutputPath(input, outDir, SuffixCracked)
	return strings.TrimSuffix(p, filepath.Ext(p)) + ".txt"
}

// WriteReport prints the result in the layout used by the CLI.
func WriteReport(w io.Writer, r *model.CrackResult) error {
	_, err := fmt.Fprintf(w, "Recovered key: %s\nScore: %d\nTime: %.3fs\n\nDecrypted message:\n\n%s\n",
		r.KeyText, r.Score, r.ElapsedSeconds(), DisplayText(r.Plaintext))
	return err
}

// WriteReportFile writes the report to path, creating parent directories.
func WriteReportFile(path string, r *model.CrackResult) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.Create(path) // #nosec G304 -- path is derived from operator input
	if err != nil {
		return fmt.Errorf("failed to create report %s: %w", path, err)
	}
	if err := WriteReport(f, r); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return f.Close()
}

// WriteBytes writes data unchanged to path, creating parent directories.
func WriteBytes(path string, data []byte) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { // #nosec G306 -- output files are meant to be readable
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
