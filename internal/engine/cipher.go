package engine

import (
	"os"

	"github.com/gcbaptista/go-xor-breaker/internal/errors"
	"github.com/gcbaptista/go-xor-breaker/internal/export"
	"github.com/gcbaptista/go-xor-breaker/internal/logging"
	"github.com/gcbaptista/go-xor-breaker/internal/xorcipher"
	"github.com/gcbaptista/go-xor-breaker/model"
)

// Encrypt XORs data with key.
func (e *Engine) Encrypt(data []byte, key xorcipher.Key) []byte {
	return xorcipher.Encrypt(data, key)
}

// Decrypt is Encrypt; the transform is its own inverse.
func (e *Engine) Decrypt(data []byte, key xorcipher.Key) []byte {
	return xorcipher.Decrypt(data, key)
}

// EncryptFile encrypts the file at path and writes <stem>_encrypted<ext>
// into the configured output directory. It returns the output path.
func (e *Engine) EncryptFile(path string, key xorcipher.Key) (string, error) {
	return e.transformFile(path, key, export.SuffixEncrypted)
}

// DecryptFile is EncryptFile writing <stem>_decrypted<ext>.
func (e *Engine) DecryptFile(path string, key xorcipher.Key) (string, error) {
	return e.transformFile(path, key, export.SuffixDecrypted)
}

func (e *Engine) transformFile(path string, key xorcipher.Key, suffix string) (string, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return "", errors.NewMissingInputError(path, err)
	}

	out := export.OutputPath(path, e.settings.OutputDir, suffix)
	if err := export.WriteBytes(out, xorcipher.Encrypt(data, key)); err != nil {
		return "", err
	}
	logging.Info().Str("input", path).Str("output", out).Int("bytes", len(data)).Msg(suffix)
	return out, nil
}

// ExportReport writes the crack report for result as <stem>_cracked.txt and
// returns its path.
func (e *Engine) ExportReport(result *model.CrackResult) (string, error) {
	source := result.Source
	if source == "" {
		source = result.ID
	}
	out := export.ReportPath(source, e.settings.OutputDir)
	if err := export.WriteReportFile(out, result); err != nil {
		return "", err
	}
	return out, nil
}
