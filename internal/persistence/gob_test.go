package persistence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type archived struct {
	Name      string
	Key       [2]byte
	Plaintext []byte
	Score     int
}

func TestSaveLoadGob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "result.gob")
	in := map[string]archived{
		"job-1": {Name: "msg.txt", Key: [2]byte{'a', 'b'}, Plaintext: []byte("hello there"), Score: 42},
	}

	require.NoError(t, SaveGob(path, in))

	var out map[string]archived
	require.NoError(t, LoadGob(path, &out))
	assert.Equal(t, in, out)
}

func TestSaveGobCompressed(t *testing.T) {
	dir := t.TempDir()
	plainPath := filepath.Join(dir, "plain.gob")
	zPath := filepath.Join(dir, "compressed.gob")

	big := archived{Name: "big", Plaintext: make([]byte, 64*1024)}
	for i := range big.Plaintext {
		big.Plaintext[i] = "the quick brown fox "[i%20]
	}

	require.NoError(t, SaveGob(plainPath, big))
	require.NoError(t, SaveGobCompressed(zPath, big))

	raw, err := os.ReadFile(zPath)
	require.NoError(t, err)
	assert.Equal(t, zstdMagic, raw[:4])

	plainInfo, err := os.Stat(plainPath)
	require.NoError(t, err)
	assert.Less(t, int64(len(raw)), plainInfo.Size())

	var out archived
	require.NoError(t, LoadGob(zPath, &out))
	assert.Equal(t, big, out)
}

func TestLoadGobMissingFile(t *testing.T) {
	var out archived
	err := LoadGob(filepath.Join(t.TempDir(), "absent.gob"), &out)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadGobCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.gob")
	require.NoError(t, os.WriteFile(path, []byte("not a gob stream"), 0o600))

	var out archived
	err := LoadGob(path, &out)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, os.ErrNotExist)
}

func TestSaveGobLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, SaveGobCompressed(filepath.Join(dir, "a.gob"), archived{Name: "a"}))
	require.NoError(t, SaveGob(filepath.Join(dir, "a.gob"), archived{Name: "b"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.gob", entries[0].Name())

	var out archived
	require.NoError(t, LoadGob(filepath.Join(dir, "a.gob"), &out))
	assert.Equal(t, "b", out.Name)
}
