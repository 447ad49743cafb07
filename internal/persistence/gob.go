package persistence

import (
	"bufio"
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/gcbaptista/go-xor-breaker/internal/logging"
)

// zstdMagic is the frame header every zstd stream starts with.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// SaveGob encodes the given object using gob and saves it to the specified filePath.
// It creates necessary directories if they don't exist.
func SaveGob(filePath string, object interface{}) error {
	return save(filePath, object, false)
}

// SaveGobCompressed is SaveGob with the gob stream wrapped in zstd.
func SaveGobCompressed(filePath string, object interface{}) error {
	return save(filePath, object, true)
}

func save(filePath string, object interface{}, compress bool) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	// Write next to the target and rename, so readers never see a partial file.
	tmp, err := os.CreateTemp(dir, filepath.Base(filePath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", filePath, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if _, statErr := os.Stat(tmpPath); statErr == nil {
			_ = os.Remove(tmpPath)
		}
	}()

	var w io.Writer = tmp
	var zw *zstd.Encoder
	if compress {
		zw, err = zstd.NewWriter(tmp, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			_ = tmp.Close()
			return fmt.Errorf("zstd: failed to initialize encoder: %w", err)
		}
		w = zw
	}

	if err := gob.NewEncoder(w).Encode(object); err != nil {
		if zw != nil {
			_ = zw.Close()
		}
		_ = tmp.Close()
		return fmt.Errorf("failed to gob encode to file %s: %w", filePath, err)
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("zstd: failed to finish stream for %s: %w", filePath, err)
		}
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file %s: %w", filePath, err)
	}
	if err := os.Rename(tmpPath, filePath); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", filePath, err)
	}
	return nil
}

// LoadGob decodes a gob-encoded file from filePath into the provided object pointer.
// The object must be a pointer to the type that was originally encoded.
// zstd-compressed files are detected by their frame header and decompressed.
// If the file does not exist, it returns os.ErrNotExist, allowing callers to handle
// fresh starts gracefully.
func LoadGob(filePath string, objectPointer interface{}) error {
	file, err := os.Open(filePath) // #nosec G304 -- filePath is controlled by application, not user input
	if err != nil {
		if os.IsNotExist(err) {
			return os.ErrNotExist
		}
		return fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			logging.Warn().Err(closeErr).Str("path", filePath).Msg("failed to close file")
		}
	}()

	br := bufio.NewReader(file)
	var r io.Reader = br
	if head, _ := br.Peek(len(zstdMagic)); bytes.Equal(head, zstdMagic) {
		zr, err := zstd.NewReader(br)
		if err != nil {
			return fmt.Errorf("zstd: failed to open %s: %w", filePath, err)
		}
		defer zr.Close()
		r = zr
	}

	if err := gob.NewDecoder(r).Decode(objectPointer); err != nil {
		return fmt.Errorf("failed to gob decode from file %s: %w", filePath, err)
	}
	return nil
}
